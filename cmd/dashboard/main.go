// @title        agrobox dashboard
// @version      1.0
// @description  Live view of the threshold control loop.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"agrobox/internal/client"
	"agrobox/internal/config"
	"agrobox/internal/handlers"
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
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

	m := metrics.New()
	backend := client.New(cfg.Backend.URL, cfg.Backend.Timeout)
	dashboard := service.NewDashboard()

	loop := service.NewControlLoop(service.LoopContext{
		Source:  backend,
		Sink:    backend,
		Display: dashboard,
		Log:     log.Named("loop"),
		Metrics: m,
	}, service.LoopConfig{
		FastInterval:    cfg.Loop.FastInterval,
		SlowInterval:    cfg.Loop.SlowInterval,
		SkipOverlapping: cfg.Loop.SkipOverlapping,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run(ctx)
	}()

	srv := &server.Server{}
	h := handlers.NewDashboardHandler(dashboard, m, log.Named("http"))
	go func() {
		if err := srv.Run(cfg.Dashboard.Port, h.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("dashboard_started", "port", cfg.Dashboard.Port, "backend", cfg.Backend.URL)

	waitForShutdown(cancel, srv, log)
	// in-flight cycles end with the cancelled context
	wg.Wait()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down dashboard...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
