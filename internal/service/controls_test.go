package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agrobox/internal/models"
)

func newControlService(repo *fakeControlRepo, events *fakeActuatorLogRepo, drv *fakeDriver) *ControlService {
	s := NewControlService(repo, &fakeReadingRepo{}, events, drv, nil, nil)
	s.now = func() time.Time { return time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestControlService_GetDefault(t *testing.T) {
	s := newControlService(&fakeControlRepo{}, &fakeActuatorLogRepo{}, &fakeDriver{})
	cs, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cs != models.DefaultControlSet() {
		t.Fatalf("got %+v, want default", cs)
	}
}

func TestControlService_UpdateKeepsHeatingAndLogsChanges(t *testing.T) {
	repo := &fakeControlRepo{found: true, cs: models.ControlSet{
		Pump:    models.Pump{Active: true},
		Peltier: models.Peltier{Active: false, Heating: true},
	}}
	events := &fakeActuatorLogRepo{}
	drv := &fakeDriver{}
	s := newControlService(repo, events, drv)

	got, err := s.Update(context.Background(), models.ControlUpdate{Pump: true, UVLamp: true, Peltier: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := models.ControlSet{
		Pump:    models.Pump{Active: true},
		UVLamp:  models.UVLamp{Active: true},
		Peltier: models.Peltier{Active: true, Heating: true},
	}
	if got != want || repo.cs != want {
		t.Fatalf("stored %+v / returned %+v, want %+v", repo.cs, got, want)
	}

	// pump did not change
	if len(events.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events.events)
	}
	if events.events[0].Name != models.ActuatorUVLamp || !events.events[0].State {
		t.Fatalf("unexpected first event %+v", events.events[0])
	}
	if events.events[1].Name != models.ActuatorPeltier || events.events[1].EventID == "" {
		t.Fatalf("unexpected second event %+v", events.events[1])
	}
	if !events.events[0].OccurredAt.Equal(time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event time %v", events.events[0].OccurredAt)
	}

	wantCalls := []applyCall{{models.ActuatorUVLamp, true}, {models.ActuatorPeltier, true}}
	if len(drv.calls) != len(wantCalls) || drv.calls[0] != wantCalls[0] || drv.calls[1] != wantCalls[1] {
		t.Fatalf("driver calls = %+v, want %+v", drv.calls, wantCalls)
	}
}

func TestControlService_UpdateDriverErrorIsNotFatal(t *testing.T) {
	repo := &fakeControlRepo{}
	s := newControlService(repo, &fakeActuatorLogRepo{}, &fakeDriver{err: errors.New("broker gone")})

	if _, err := s.Update(context.Background(), models.ControlUpdate{Pump: true}); err != nil {
		t.Fatalf("driver failure must not fail the update: %v", err)
	}
	if !repo.cs.Pump.Active {
		t.Fatalf("state not stored")
	}
}

func TestControlService_UpdateErrors(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		s := newControlService(&fakeControlRepo{loadErr: errDB}, &fakeActuatorLogRepo{}, &fakeDriver{})
		if _, err := s.Update(context.Background(), models.ControlUpdate{}); !errors.Is(err, errDB) {
			t.Fatalf("expected load error, got %v", err)
		}
	})
	t.Run("save", func(t *testing.T) {
		drv := &fakeDriver{}
		s := newControlService(&fakeControlRepo{saveErr: errDB}, &fakeActuatorLogRepo{}, drv)
		if _, err := s.Update(context.Background(), models.ControlUpdate{Pump: true}); !errors.Is(err, errDB) {
			t.Fatalf("expected save error, got %v", err)
		}
		if len(drv.calls) != 0 {
			t.Fatalf("nothing may be driven when the save fails")
		}
	})
	t.Run("append", func(t *testing.T) {
		repo := &fakeControlRepo{}
		drv := &fakeDriver{}
		s := newControlService(repo, &fakeActuatorLogRepo{appendErr: errDB}, drv)
		_, err := s.Update(context.Background(), models.ControlUpdate{Pump: true, UVLamp: true, Peltier: true})
		if !errors.Is(err, errDB) {
			t.Fatalf("expected append error, got %v", err)
		}
		if !repo.cs.Pump.Active || !repo.cs.UVLamp.Active || !repo.cs.Peltier.Active {
			t.Fatalf("state not stored: %+v", repo.cs)
		}
		// relays follow the stored set even when the log write fails
		if len(drv.calls) != len(models.ActuatorNames) {
			t.Fatalf("every changed actuator must be driven, got %+v", drv.calls)
		}
	})
}

func TestControlService_PeltierModeFollowsLatestReading(t *testing.T) {
	cases := []struct {
		name        string
		temperature float64
		stored      bool
		want        bool
	}{
		{"hot_cools", 30, true, false},
		{"cold_heats", 15, false, true},
		{"dead_zone_keeps_heating", 23, true, true},
		{"dead_zone_keeps_cooling", 23, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeControlRepo{found: true, cs: models.ControlSet{Peltier: models.Peltier{Heating: tc.stored}}}
			s := newControlService(repo, &fakeActuatorLogRepo{}, &fakeDriver{})
			s.readings = &fakeReadingRepo{rows: []models.SensorReading{
				{SensorSnapshot: models.SensorSnapshot{Moisture: 50, Light: 600, Temperature: tc.temperature, Humidity: 60}},
			}}

			got, err := s.Update(context.Background(), models.ControlUpdate{Peltier: true})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if !got.Peltier.Active || got.Peltier.Heating != tc.want || repo.cs.Peltier.Heating != tc.want {
				t.Fatalf("returned %+v stored %+v, want heating=%v", got.Peltier, repo.cs.Peltier, tc.want)
			}
		})
	}
}

func TestControlService_PeltierOffKeepsMode(t *testing.T) {
	repo := &fakeControlRepo{found: true, cs: models.ControlSet{Peltier: models.Peltier{Active: true, Heating: false}}}
	s := newControlService(repo, &fakeActuatorLogRepo{}, &fakeDriver{})
	s.readings = &fakeReadingRepo{rows: []models.SensorReading{
		{SensorSnapshot: models.SensorSnapshot{Temperature: 10}},
	}}

	got, err := s.Update(context.Background(), models.ControlUpdate{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Peltier != (models.Peltier{Active: false, Heating: false}) {
		t.Fatalf("got %+v", got.Peltier)
	}
}

func TestControlService_PeltierModeLookupErrorKeepsMode(t *testing.T) {
	repo := &fakeControlRepo{found: true, cs: models.ControlSet{Peltier: models.Peltier{Heating: true}}}
	s := newControlService(repo, &fakeActuatorLogRepo{}, &fakeDriver{})
	s.readings = &fakeReadingRepo{latestErr: errDB}

	got, err := s.Update(context.Background(), models.ControlUpdate{Peltier: true})
	if err != nil {
		t.Fatalf("a failed lookup must not fail the update: %v", err)
	}
	if !got.Peltier.Heating {
		t.Fatalf("stored mode should be kept, got %+v", got.Peltier)
	}
}

func TestControlService_ConcurrentUpdatesLogOnce(t *testing.T) {
	repo := &fakeControlRepo{}
	events := &fakeActuatorLogRepo{}
	drv := &fakeDriver{}
	s := newControlService(repo, events, drv)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Update(context.Background(), models.ControlUpdate{Pump: true}); err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(events.events) != 1 || len(drv.calls) != 1 {
		t.Fatalf("expected one logged change and one relay switch, got %d events, %d calls",
			len(events.events), len(drv.calls))
	}
}

func TestControlService_ShutdownActuators(t *testing.T) {
	repo := &fakeControlRepo{found: true, cs: models.ControlSet{
		Pump:    models.Pump{Active: true},
		Peltier: models.Peltier{Active: true, Heating: false},
	}}
	drv := &fakeDriver{}
	s := newControlService(repo, &fakeActuatorLogRepo{}, drv)

	if err := s.ShutdownActuators(context.Background()); err != nil {
		t.Fatalf("ShutdownActuators: %v", err)
	}
	if repo.cs != (models.ControlSet{}) {
		t.Fatalf("stored set should be all off with heating kept false, got %+v", repo.cs)
	}
	off := 0
	for _, c := range drv.calls {
		if c.on {
			t.Fatalf("unexpected ON during shutdown: %+v", c)
		}
		off++
	}
	if off < len(models.ActuatorNames) {
		t.Fatalf("every actuator must be switched off, got %+v", drv.calls)
	}
}
