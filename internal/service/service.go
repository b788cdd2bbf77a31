package service

import (
	"context"
	"time"

	"agrobox/internal/actuator"
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/models"
	"agrobox/internal/repository"
)

// Sensors serves stored readings.
type Sensors interface {
	Current(ctx context.Context) (models.SensorSnapshot, error)
	History(ctx context.Context) (models.HistoricalSeries, error)
	// Seed inserts demo readings into an empty table and returns how many were added.
	Seed(ctx context.Context) (int, error)
}

// Controls owns the stored control set and drives the relays.
type Controls interface {
	Get(ctx context.Context) (models.ControlSet, error)
	Update(ctx context.Context, u models.ControlUpdate) (models.ControlSet, error)
	ShutdownActuators(ctx context.Context) error
}

// ActuatorLog exposes the append-only actuator history.
type ActuatorLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActuatorEvent, error)
}

// Ingest runs the background loop that stores sensor readings.
// Stop via context cancellation in main() for graceful shutdown.
type Ingest interface {
	Run(ctx context.Context, tick time.Duration)
}

// DashboardView is the read side of the rendered dashboard.
type DashboardView interface {
	View() View
	Subscribe() (<-chan View, func())
}

// Service aggregates the backend sub-services.
type Service struct {
	Sensors
	Controls
	ActuatorLog
	Ingest
}

// Deps is what NewService wires into the sub-services.
type Deps struct {
	Repos        *repository.Repository
	Source       SensorSource
	Driver       actuator.Driver
	Metrics      *metrics.Metrics
	Log          *logger.Logger
	HistoryLimit int
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Driver == nil {
		d.Driver = actuator.NewNoopDriver(d.Log)
	}
	return &Service{
		Sensors:     NewSensorService(d.Repos.Readings, d.HistoryLimit),
		Controls:    NewControlService(d.Repos.Controls, d.Repos.Readings, d.Repos.ActuatorLog, d.Driver, d.Metrics, d.Log),
		ActuatorLog: NewActuatorLogService(d.Repos.ActuatorLog),
		Ingest:      NewIngestService(d.Repos.Readings, d.Source, d.Metrics, d.Log),
	}
}
