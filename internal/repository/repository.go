package repository

import (
	"context"
	"database/sql"
	"time"

	"agrobox/internal/models"
)

type ReadingRepo interface {
	Insert(ctx context.Context, r models.SensorReading) (int64, error)
	// Latest returns false when the table is empty.
	Latest(ctx context.Context) (models.SensorReading, bool, error)
	// Recent returns up to limit newest readings, oldest first.
	Recent(ctx context.Context, limit int) ([]models.SensorReading, error)
	Count(ctx context.Context) (int, error)
}

type ControlRepo interface {
	// Load returns the default control set and false when nothing was stored yet.
	Load(ctx context.Context) (models.ControlSet, bool, error)
	Save(ctx context.Context, cs models.ControlSet) error
}

type ActuatorLogRepo interface {
	Append(ctx context.Context, e models.ActuatorEvent) error
	List(ctx context.Context, from, to time.Time, name string) ([]models.ActuatorEvent, error)
}

type Repository struct {
	Readings    ReadingRepo
	Controls    ControlRepo
	ActuatorLog ActuatorLogRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings:    NewReadingSQLite(db),
		Controls:    NewControlSQLite(db),
		ActuatorLog: NewActuatorLogSQLite(db),
	}
}

// timeLayout is fixed width so stored UTC timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
