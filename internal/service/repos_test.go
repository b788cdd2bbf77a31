package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"agrobox/internal/models"
)

// ---- Test doubles shared by the backend service tests ----

type fakeReadingRepo struct {
	mu        sync.Mutex
	rows      []models.SensorReading
	insertErr error
	latestErr error
	gotLimit  int
}

func (f *fakeReadingRepo) Insert(ctx context.Context, r models.SensorReading) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	r.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, r)
	return r.ID, nil
}

func (f *fakeReadingRepo) Latest(ctx context.Context) (models.SensorReading, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latestErr != nil {
		return models.SensorReading{}, false, f.latestErr
	}
	if len(f.rows) == 0 {
		return models.SensorReading{}, false, nil
	}
	return f.rows[len(f.rows)-1], true, nil
}

func (f *fakeReadingRepo) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLimit = limit
	start := len(f.rows) - limit
	if start < 0 {
		start = 0
	}
	return append([]models.SensorReading(nil), f.rows[start:]...), nil
}

func (f *fakeReadingRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func (f *fakeReadingRepo) stored() []models.SensorReading {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SensorReading(nil), f.rows...)
}

type fakeControlRepo struct {
	cs      models.ControlSet
	found   bool
	loadErr error
	saveErr error
	saves   []models.ControlSet
}

func (f *fakeControlRepo) Load(ctx context.Context) (models.ControlSet, bool, error) {
	if f.loadErr != nil {
		return models.ControlSet{}, false, f.loadErr
	}
	if !f.found {
		return models.DefaultControlSet(), false, nil
	}
	return f.cs, true, nil
}

func (f *fakeControlRepo) Save(ctx context.Context, cs models.ControlSet) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, cs)
	f.cs, f.found = cs, true
	return nil
}

type fakeActuatorLogRepo struct {
	events    []models.ActuatorEvent
	appendErr error

	gotFrom, gotTo time.Time
	gotName        string
	calls          int
}

func (f *fakeActuatorLogRepo) Append(ctx context.Context, e models.ActuatorEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeActuatorLogRepo) List(ctx context.Context, from, to time.Time, name string) ([]models.ActuatorEvent, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotName = from, to, name
	return f.events, nil
}

type applyCall struct {
	name string
	on   bool
}

type fakeDriver struct {
	calls []applyCall
	err   error
}

func (d *fakeDriver) Apply(ctx context.Context, name string, on bool) error {
	d.calls = append(d.calls, applyCall{name, on})
	return d.err
}

func (d *fakeDriver) Close() {}

var errDB = errors.New("db down")
