// @title        agrobox backend API
// @version      1.0
// @description  Sensor readings, actuator controls and the actuator log of one rig.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrobox/internal/actuator"
	"agrobox/internal/config"
	"agrobox/internal/handlers"
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/repository"
	"agrobox/internal/repository/db"
	"agrobox/internal/sensor"
	"agrobox/internal/server"
	"agrobox/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer closeDB(conn, log)

	driver, err := actuator.New(cfg.MQTT, log.Named("actuator"))
	if err != nil {
		log.Fatalw("failed to init actuator driver", "err", err, "broker", cfg.MQTT.Broker)
	}
	defer driver.Close()

	repos := repository.NewRepository(conn)
	source, closeSource, err := openSource(cfg, repos, log)
	if err != nil {
		log.Fatalw("failed to open sensor source", "err", err, "source", cfg.Ingest.Source)
	}
	defer closeSource()

	m := metrics.New()
	services := service.NewService(service.Deps{
		Repos:        repos,
		Source:       source,
		Driver:       driver,
		Metrics:      m,
		Log:          log.Named("service"),
		HistoryLimit: cfg.History.Limit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if n, err := services.Sensors.Seed(ctx); err != nil {
		log.Errorw("seed_failed", "err", err)
	} else if n > 0 {
		log.Infow("seeded_readings", "count", n)
	}

	go services.Ingest.Run(ctx, cfg.Ingest.Interval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server.Port, handlers.NewHandler(services, m, log.Named("http")), log)
	log.Infow("backend_started", "port", cfg.Server.Port, "source", cfg.Ingest.Source, "db", cfg.DB.Path)

	waitForShutdown(cancel, srv, log)

	offCtx, offCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer offCancel()
	if err := services.Controls.ShutdownActuators(offCtx); err != nil {
		log.Errorw("actuator_shutdown_failed", "err", err)
	}
}

// openSource picks the configured sensor source. The returned close func is never nil.
func openSource(cfg *config.Config, repos *repository.Repository, log *logger.Logger) (service.SensorSource, func(), error) {
	switch cfg.Ingest.Source {
	case config.SourceSerial:
		src, err := sensor.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud, log.Named("serial"))
		if err != nil {
			return nil, func() {}, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return service.NewTerrariumSimulator(repos.Controls), func() {}, nil
	}
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
