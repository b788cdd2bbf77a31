package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrobox/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `INSERT INTO sensor_readings (timestamp, moisture, light, temperature, humidity) VALUES (?, ?, ?, ?, ?)`

	selectLatestReadingSQL = `SELECT id, timestamp, moisture, light, temperature, humidity FROM sensor_readings ORDER BY id DESC LIMIT 1`

	// newest N by id, flipped back to oldest first
	selectRecentReadingsSQL = `SELECT id, timestamp, moisture, light, temperature, humidity FROM (
		SELECT id, timestamp, moisture, light, temperature, humidity FROM sensor_readings ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC`

	countReadingsSQL = `SELECT COUNT(*) FROM sensor_readings`
)

// Insert stores a reading and returns its row ID. A zero timestamp is set to now.
func (r *ReadingSQLite) Insert(ctx context.Context, rd models.SensorReading) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertReadingSQL,
		formatTime(rd.Timestamp),
		rd.Moisture,
		rd.Light,
		rd.Temperature,
		rd.Humidity,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for reading: %w", err)
	}
	return id, nil
}

func (r *ReadingSQLite) Latest(ctx context.Context) (models.SensorReading, bool, error) {
	rd, err := scanReading(r.db.QueryRowContext(ctx, selectLatestReadingSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SensorReading{}, false, nil
		}
		return models.SensorReading{}, false, fmt.Errorf("select latest reading: %w", err)
	}
	return rd, true, nil
}

func (r *ReadingSQLite) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		return []models.SensorReading{}, nil
	}
	rows, err := r.db.QueryContext(ctx, selectRecentReadingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, limit)
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReadingSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countReadingsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (models.SensorReading, error) {
	var (
		rd models.SensorReading
		ts string
	)
	if err := row.Scan(&rd.ID, &ts, &rd.Moisture, &rd.Light, &rd.Temperature, &rd.Humidity); err != nil {
		return models.SensorReading{}, err
	}
	t, err := parseTime(ts)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("parse reading timestamp %q: %w", ts, err)
	}
	rd.Timestamp = t
	return rd, nil
}
