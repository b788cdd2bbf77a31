package service

import (
	"context"
	"errors"
	"time"

	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/models"
	"agrobox/internal/repository"
	"agrobox/internal/sensor"
)

// SensorSource yields one raw sample per call.
type SensorSource interface {
	Read(ctx context.Context) (models.SensorSample, error)
}

// IngestService stores complete samples from a SensorSource.
type IngestService struct {
	readings repository.ReadingRepo
	source   SensorSource
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

func NewIngestService(readings repository.ReadingRepo, source SensorSource, m *metrics.Metrics, log *logger.Logger) *IngestService {
	if log == nil {
		log = logger.Nop()
	}
	return &IngestService{readings: readings, source: source, metrics: m, log: log, now: time.Now}
}

// Run ticks at the given interval until ctx is canceled.
func (s *IngestService) Run(ctx context.Context, tick time.Duration) {
	if s.source == nil {
		s.log.Warnw("ingest_disabled", "reason", "no sensor source")
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Step(ctx); err != nil && ctx.Err() == nil {
				s.log.Errorw("ingest_step_failed", "err", err)
			}
		}
	}
}

// Step reads one sample and stores it when every channel is present. It
// reports whether a reading was stored.
func (s *IngestService) Step(ctx context.Context) (bool, error) {
	sample, err := s.source.Read(ctx)
	if err != nil {
		if errors.Is(err, sensor.ErrNoSample) {
			s.log.Debugw("ingest_no_sample")
			return false, nil
		}
		s.metrics.IngestResult(metrics.ResultFailed)
		return false, err
	}
	if !sample.Complete() {
		s.metrics.IngestResult(metrics.ResultIncomplete)
		s.log.Debugw("ingest_incomplete_sample",
			"moisture", sample.Moisture != nil, "light", sample.Light != nil,
			"temperature", sample.Temperature != nil, "humidity", sample.Humidity != nil,
		)
		return false, nil
	}

	snap := sample.Snapshot()
	id, err := s.readings.Insert(ctx, models.SensorReading{Timestamp: s.now().UTC(), SensorSnapshot: snap})
	if err != nil {
		s.metrics.IngestResult(metrics.ResultFailed)
		return false, err
	}
	s.metrics.IngestResult(metrics.ResultOK)
	for _, ch := range models.Channels {
		v, _ := snap.Value(ch)
		s.metrics.SetSensor(string(ch), v)
	}
	s.log.Debugw("reading_stored", "id", id,
		"moisture", snap.Moisture, "light", snap.Light,
		"temperature", snap.Temperature, "humidity", snap.Humidity,
	)
	return true, nil
}
