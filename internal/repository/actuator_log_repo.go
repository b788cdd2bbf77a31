package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"agrobox/internal/models"

	"github.com/google/uuid"
)

type ActuatorLogSQLite struct {
	db *sql.DB
}

func NewActuatorLogSQLite(db *sql.DB) *ActuatorLogSQLite { return &ActuatorLogSQLite{db: db} }

var _ ActuatorLogRepo = (*ActuatorLogSQLite)(nil)

const (
	insertActuatorEventSQL  = `INSERT INTO actuator_log (id, occurred_at, name, state) VALUES (?, ?, ?, ?)`
	selectActuatorEventsSQL = `SELECT id, occurred_at, name, state FROM actuator_log`
)

// Append inserts an entry. Empty EventID and zero OccurredAt are filled in.
func (r *ActuatorLogSQLite) Append(ctx context.Context, e models.ActuatorEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertActuatorEventSQL,
		e.EventID,
		formatTime(e.OccurredAt),
		normalizeName(e.Name),
		e.State,
	)
	if err != nil {
		return fmt.Errorf("insert actuator event: %w", err)
	}
	return nil
}

// List returns entries within [from, to] (zero bounds are open) and optionally
// for one actuator, oldest first.
func (r *ActuatorLogSQLite) List(ctx context.Context, from, to time.Time, name string) ([]models.ActuatorEvent, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTime(to))
	}
	if name = normalizeName(name); name != "" {
		conds = append(conds, "name = ?")
		args = append(args, name)
	}

	q := selectActuatorEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select actuator events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ActuatorEvent, 0, 64)
	for rows.Next() {
		var (
			ev models.ActuatorEvent
			ts string
		)
		if err := rows.Scan(&ev.EventID, &ts, &ev.Name, &ev.State); err != nil {
			return nil, fmt.Errorf("scan actuator event: %w", err)
		}
		if ev.OccurredAt, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse actuator event time %q: %w", ts, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
