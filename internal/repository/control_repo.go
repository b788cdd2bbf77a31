package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agrobox/internal/models"
)

type ControlSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewControlSQLite(db *sql.DB) *ControlSQLite {
	return &ControlSQLite{db: db, now: time.Now}
}

var _ ControlRepo = (*ControlSQLite)(nil)

const (
	controlsRowID = 1

	upsertControlsSQL = `
		INSERT INTO controls (id, pump, uv_lamp, peltier, heating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pump=excluded.pump,
			uv_lamp=excluded.uv_lamp,
			peltier=excluded.peltier,
			heating=excluded.heating,
			updated_at=excluded.updated_at
	`

	selectControlsSQL = `SELECT pump, uv_lamp, peltier, heating FROM controls WHERE id=?`
)

// Save writes the single controls row (id always 1).
func (r *ControlSQLite) Save(ctx context.Context, cs models.ControlSet) error {
	_, err := r.db.ExecContext(ctx, upsertControlsSQL,
		controlsRowID,
		cs.Pump.Active,
		cs.UVLamp.Active,
		cs.Peltier.Active,
		cs.Peltier.Heating,
		formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("save controls: %w", err)
	}
	return nil
}

func (r *ControlSQLite) Load(ctx context.Context) (models.ControlSet, bool, error) {
	var cs models.ControlSet
	err := r.db.QueryRowContext(ctx, selectControlsSQL, controlsRowID).Scan(
		&cs.Pump.Active,
		&cs.UVLamp.Active,
		&cs.Peltier.Active,
		&cs.Peltier.Heating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultControlSet(), false, nil
		}
		return models.ControlSet{}, false, fmt.Errorf("select controls: %w", err)
	}
	return cs, true, nil
}
