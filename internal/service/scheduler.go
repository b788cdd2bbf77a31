package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"agrobox/internal/client"
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/models"
)

// DataSource reads the backend.
type DataSource interface {
	FetchSnapshot(ctx context.Context) (models.SensorSnapshot, error)
	FetchControlSet(ctx context.Context) (models.ControlSet, error)
	FetchHistory(ctx context.Context) (models.HistoricalSeries, error)
}

// ActuationSink stores decided control sets upstream.
type ActuationSink interface {
	PushControlSet(ctx context.Context, cs models.ControlSet) error
}

// Cycle names used in logs and metrics.
const (
	CycleFast = "fast"
	CycleSlow = "slow"
)

const (
	defaultFastInterval = 5 * time.Second
	defaultSlowInterval = 10 * time.Second
)

// LoopContext is everything a cycle run touches. It is owned by the ControlLoop
// and handed to each run; nothing lives in package state.
type LoopContext struct {
	Source  DataSource
	Sink    ActuationSink
	Display DisplaySink
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

// LoopConfig paces the two cycles.
type LoopConfig struct {
	FastInterval time.Duration
	SlowInterval time.Duration
	// SkipOverlapping drops a tick while the previous run of the same cycle
	// is still in flight. Off by default: runs may overlap.
	SkipOverlapping bool
}

// ControlLoop runs the fast (snapshot/decide/push) and slow (history) cycles.
type ControlLoop struct {
	lc  LoopContext
	cfg LoopConfig

	wg       sync.WaitGroup
	fastBusy atomic.Bool
	slowBusy atomic.Bool
}

func NewControlLoop(lc LoopContext, cfg LoopConfig) *ControlLoop {
	if cfg.FastInterval <= 0 {
		cfg.FastInterval = defaultFastInterval
	}
	if cfg.SlowInterval <= 0 {
		cfg.SlowInterval = defaultSlowInterval
	}
	if lc.Log == nil {
		lc.Log = logger.Nop()
	}
	return &ControlLoop{lc: lc, cfg: cfg}
}

// Run fires both cycles immediately and then on their tickers until ctx is
// cancelled. It returns after in-flight runs finish.
func (l *ControlLoop) Run(ctx context.Context) {
	l.lc.Log.Infow("control_loop_started",
		"fast_interval", l.cfg.FastInterval.String(),
		"slow_interval", l.cfg.SlowInterval.String(),
		"skip_overlapping", l.cfg.SkipOverlapping,
	)
	defer l.wg.Wait()

	fast := time.NewTicker(l.cfg.FastInterval)
	slow := time.NewTicker(l.cfg.SlowInterval)
	defer func() {
		fast.Stop()
		slow.Stop()
	}()

	l.spawn(ctx, CycleFast)
	l.spawn(ctx, CycleSlow)

	for {
		select {
		case <-ctx.Done():
			l.lc.Log.Infow("control_loop_stopping")
			return
		case <-fast.C:
			l.spawn(ctx, CycleFast)
		case <-slow.C:
			l.spawn(ctx, CycleSlow)
		}
	}
}

// spawn starts one run of a cycle in its own goroutine. Failures and panics
// end that run only.
func (l *ControlLoop) spawn(ctx context.Context, cycle string) {
	busy := &l.fastBusy
	run := l.RunFast
	if cycle == CycleSlow {
		busy = &l.slowBusy
		run = l.RunSlow
	}
	if l.cfg.SkipOverlapping && !busy.CompareAndSwap(false, true) {
		l.lc.Log.Debugw("cycle_skipped_in_flight", "cycle", cycle)
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if l.cfg.SkipOverlapping {
			defer busy.Store(false)
		}
		defer func() {
			if r := recover(); r != nil {
				l.lc.Log.Errorw("cycle_panic", "cycle", cycle, "panic", r)
				l.lc.Metrics.ObserveCycle(cycle, 0, fmt.Errorf("panic: %v", r))
			}
		}()

		start := time.Now()
		err := run(ctx)
		l.lc.Metrics.ObserveCycle(cycle, time.Since(start), err)
		if err != nil {
			l.reportError(cycle, err)
		}
	}()
}

// RunFast performs one fast-cycle run: fetch snapshot and stored controls,
// render sensors, decide, render the decided set, push it. The first failing
// step ends the run.
func (l *ControlLoop) RunFast(ctx context.Context) error {
	snap, err := l.lc.Source.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	current, err := l.lc.Source.FetchControlSet(ctx)
	if err != nil {
		return fmt.Errorf("fetch controls: %w", err)
	}

	status := ClassifySnapshot(snap)
	l.lc.Display.RenderSensors(snap, status)
	for _, ch := range models.Channels {
		v, _ := snap.Value(ch)
		l.lc.Metrics.SetSensor(string(ch), v)
	}

	decided := Decide(snap, current)
	l.lc.Display.RenderActuators(decided)
	for name, on := range decided.States() {
		l.lc.Metrics.SetActuator(name, on)
	}

	if err := l.lc.Sink.PushControlSet(ctx, decided); err != nil {
		return fmt.Errorf("push controls: %w", err)
	}
	l.lc.Log.Debugw("fast_cycle_done",
		"moisture", snap.Moisture, "light", snap.Light,
		"temperature", snap.Temperature, "humidity", snap.Humidity,
		"pump", decided.Pump.Active, "uv_lamp", decided.UVLamp.Active,
		"peltier", decided.Peltier.Active, "heating", decided.Peltier.Heating,
	)
	return nil
}

// RunSlow performs one slow-cycle run: fetch history and render it.
func (l *ControlLoop) RunSlow(ctx context.Context) error {
	hs, err := l.lc.Source.FetchHistory(ctx)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	l.lc.Display.RenderSeries(hs)
	l.lc.Log.Debugw("slow_cycle_done", "points", len(hs.Timestamps))
	return nil
}

func (l *ControlLoop) reportError(cycle string, err error) {
	var (
		te   *client.TransportError
		de   *client.DecodeError
		kind = "other"
		op   = "unknown"
	)
	switch {
	case errors.Is(err, context.Canceled):
		l.lc.Log.Debugw("cycle_cancelled", "cycle", cycle)
		return
	case errors.As(err, &te):
		kind, op = "transport", te.Op
	case errors.As(err, &de):
		kind, op = "decode", de.Op
	}
	l.lc.Metrics.BackendError(op, kind)
	l.lc.Log.Errorw(cycle+"_cycle_failed", "err", err, "kind", kind, "op", op)
}
