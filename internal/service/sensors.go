package service

import (
	"context"
	"errors"
	"time"

	"agrobox/internal/models"
	"agrobox/internal/repository"
)

const DefaultHistoryLimit = 20

var ErrNoReadings = errors.New("no sensor readings available")

// seedReadings are inserted by Seed into an empty table.
var seedReadings = []models.SensorSnapshot{
	{Moisture: 45.0, Light: 650.0, Temperature: 24.5, Humidity: 60.0},
	{Moisture: 46.0, Light: 655.0, Temperature: 24.7, Humidity: 61.0},
	{Moisture: 44.0, Light: 645.0, Temperature: 24.3, Humidity: 59.0},
}

type SensorService struct {
	readings repository.ReadingRepo
	limit    int
	now      func() time.Time
}

func NewSensorService(readings repository.ReadingRepo, historyLimit int) *SensorService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &SensorService{readings: readings, limit: historyLimit, now: time.Now}
}

// Current returns the latest reading or ErrNoReadings.
func (s *SensorService) Current(ctx context.Context) (models.SensorSnapshot, error) {
	rd, ok, err := s.readings.Latest(ctx)
	if err != nil {
		return models.SensorSnapshot{}, err
	}
	if !ok {
		return models.SensorSnapshot{}, ErrNoReadings
	}
	return rd.SensorSnapshot, nil
}

// History returns the last N readings oldest first. An empty table gives
// empty, non-nil sequences.
func (s *SensorService) History(ctx context.Context) (models.HistoricalSeries, error) {
	rds, err := s.readings.Recent(ctx, s.limit)
	if err != nil {
		return models.HistoricalSeries{}, err
	}
	return models.NewHistoricalSeries(rds), nil
}

func (s *SensorService) Seed(ctx context.Context) (int, error) {
	n, err := s.readings.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	now := s.now().UTC()
	for i, snap := range seedReadings {
		// keep insertion order visible in timestamps
		ts := now.Add(time.Duration(i) * time.Millisecond)
		if _, err := s.readings.Insert(ctx, models.SensorReading{Timestamp: ts, SensorSnapshot: snap}); err != nil {
			return i, err
		}
	}
	return len(seedReadings), nil
}
