package actuator

import (
	"context"

	"agrobox/internal/config"
	"agrobox/internal/logger"
	"agrobox/internal/models"
)

// Driver switches physical actuators. Names are models.ActuatorPump,
// models.ActuatorUVLamp and models.ActuatorPeltier.
type Driver interface {
	Apply(ctx context.Context, name string, on bool) error
	Close()
}

// New returns an MQTT relay driver when a broker is configured and a
// no-op driver otherwise.
func New(cfg config.MQTTConfig, log *logger.Logger) (Driver, error) {
	if cfg.Broker == "" {
		return NewNoopDriver(log), nil
	}
	return NewMQTTDriver(cfg, log)
}

// AllOff switches every actuator off and returns the first error.
func AllOff(ctx context.Context, d Driver) error {
	var first error
	for _, name := range models.ActuatorNames {
		if err := d.Apply(ctx, name, false); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NoopDriver only logs.
type NoopDriver struct {
	log *logger.Logger
}

func NewNoopDriver(log *logger.Logger) *NoopDriver {
	if log == nil {
		log = logger.Nop()
	}
	return &NoopDriver{log: log}
}

func (d *NoopDriver) Apply(_ context.Context, name string, on bool) error {
	d.log.Debugw("actuator_apply_noop", "actuator", name, "on", on)
	return nil
}

func (d *NoopDriver) Close() {}
