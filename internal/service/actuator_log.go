package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"agrobox/internal/models"
	"agrobox/internal/repository"
)

type ActuatorLogService struct {
	events repository.ActuatorLogRepo
}

func NewActuatorLogService(events repository.ActuatorLogRepo) *ActuatorLogService {
	return &ActuatorLogService{events: events}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownActuator  = errors.New("unknown actuator: must be pump, uv_lamp or peltier")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeActuatorName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Name: normalizeActuatorName(f.Name),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Name != "" && !slices.Contains(models.ActuatorNames, out.Name) {
		return LogFilter{}, ErrUnknownActuator
	}
	return out, nil
}

func (s *ActuatorLogService) List(ctx context.Context, f LogFilter) ([]models.ActuatorEvent, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, nf.From, nf.To, nf.Name)
}
