package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agrobox/internal/actuator"
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/models"
	"agrobox/internal/repository"

	"github.com/google/uuid"
)

type ControlService struct {
	controls repository.ControlRepo
	readings repository.ReadingRepo
	events   repository.ActuatorLogRepo
	driver   actuator.Driver
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time

	// serialises Update so concurrent pushes see each other's result
	mu sync.Mutex
}

func NewControlService(
	controls repository.ControlRepo,
	readings repository.ReadingRepo,
	events repository.ActuatorLogRepo,
	driver actuator.Driver,
	m *metrics.Metrics,
	log *logger.Logger,
) *ControlService {
	if log == nil {
		log = logger.Nop()
	}
	return &ControlService{
		controls: controls,
		readings: readings,
		events:   events,
		driver:   driver,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Get returns the stored set, or the default set when nothing was stored yet.
func (s *ControlService) Get(ctx context.Context) (models.ControlSet, error) {
	cs, _, err := s.controls.Load(ctx)
	if err != nil {
		return models.ControlSet{}, err
	}
	return cs, nil
}

// Update stores the three active flags. The heating mode is not part of the
// push: when the peltier is on it follows the latest stored temperature, and
// otherwise the stored mode is kept. Every actuator whose state changed is
// sent to the driver and logged. A driver failure is logged only: the stored
// set stays the record of intent.
func (s *ControlService) Update(ctx context.Context, u models.ControlUpdate) (models.ControlSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, _, err := s.controls.Load(ctx)
	if err != nil {
		return models.ControlSet{}, err
	}

	next := prev
	next.Pump.Active = u.Pump
	next.UVLamp.Active = u.UVLamp
	next.Peltier.Active = u.Peltier
	if u.Peltier {
		next.Peltier.Heating = s.peltierMode(ctx, prev)
	}

	if err := s.controls.Save(ctx, next); err != nil {
		return models.ControlSet{}, err
	}

	now := s.now().UTC()
	before, after := prev.States(), next.States()
	var logErrs []error
	for _, name := range models.ActuatorNames {
		on := after[name]
		s.metrics.SetActuator(name, on)
		if before[name] == on {
			continue
		}
		s.metrics.ActuatorChanged(name, on)
		if err := s.driver.Apply(ctx, name, on); err != nil {
			s.log.Warnw("actuator_apply_failed", "actuator", name, "on", on, "err", err)
		}
		if err := s.events.Append(ctx, models.ActuatorEvent{
			EventID:    uuid.NewString(),
			OccurredAt: now,
			Name:       name,
			State:      on,
		}); err != nil {
			logErrs = append(logErrs, fmt.Errorf("log %s change: %w", name, err))
		}
	}
	return next, errors.Join(logErrs...)
}

// peltierMode picks heating or cooling for an active peltier from the newest
// reading, with the same thresholds the dashboard decides on. Inside the dead
// zone, or without a reading, the stored mode is kept.
func (s *ControlService) peltierMode(ctx context.Context, prev models.ControlSet) bool {
	if s.readings == nil {
		return prev.Peltier.Heating
	}
	r, ok, err := s.readings.Latest(ctx)
	if err != nil {
		s.log.Warnw("peltier_mode_lookup_failed", "err", err)
		return prev.Peltier.Heating
	}
	if !ok {
		return prev.Peltier.Heating
	}
	return Decide(r.SensorSnapshot, prev).Peltier.Heating
}

// ShutdownActuators stores an all-off set and switches every relay off.
func (s *ControlService) ShutdownActuators(ctx context.Context) error {
	if _, err := s.Update(ctx, models.ControlUpdate{}); err != nil {
		s.log.Errorw("actuator_shutdown_store_failed", "err", err)
	}
	if err := actuator.AllOff(ctx, s.driver); err != nil {
		return fmt.Errorf("switch actuators off: %w", err)
	}
	s.log.Infow("actuators_shut_down")
	return nil
}
