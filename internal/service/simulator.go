package service

import (
	"context"
	"sync"
	"time"

	"agrobox/internal/models"
	"agrobox/internal/repository"
)

// ----------- Terrarium model -----------
const (
	AmbientMoisture = 35.0  // % the substrate dries toward
	AmbientLight    = 350.0 // lux without the lamp
	AmbientTempC    = 24.0  // °C room temperature
	AmbientHumidity = 55.0  // % room humidity

	LampLight = 800.0 // lux with the UV lamp on
	MaxWetPct = 90.0  // moisture/humidity ceiling while watering

	PumpMoisturePerSec = 0.8  // % per second while the pump runs
	PumpHumidityPerSec = 0.3  // % per second while the pump runs
	DryingPerSec       = 0.05 // % per second toward ambient moisture
	HumidityDriftSec   = 0.05 // % per second toward ambient humidity
	LightPerSec        = 100  // lux per second toward the lamp target
	PeltierCPerSec     = 0.1  // °C per second while heating or cooling
	TempDriftPerSec    = 0.02 // °C per second toward ambient when idle
	MinTempC           = 5.0
	MaxTempC           = 40.0
)

// TerrariumSimulator is a deterministic SensorSource for running without
// hardware. It reacts to the stored control set.
type TerrariumSimulator struct {
	controls repository.ControlRepo
	now      func() time.Time

	mu    sync.Mutex
	state models.SensorSnapshot
	last  time.Time
}

func NewTerrariumSimulator(controls repository.ControlRepo) *TerrariumSimulator {
	return &TerrariumSimulator{
		controls: controls,
		now:      time.Now,
		state: models.SensorSnapshot{
			Moisture:    45,
			Light:       AmbientLight,
			Temperature: AmbientTempC,
			Humidity:    AmbientHumidity,
		},
	}
}

// Read advances the model by the time since the previous read and returns a
// complete sample.
func (s *TerrariumSimulator) Read(ctx context.Context) (models.SensorSample, error) {
	cs, _, err := s.controls.Load(ctx)
	if err != nil {
		return models.SensorSample{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.last.IsZero() {
		if elapsed := now.Sub(s.last).Seconds(); elapsed > 0 {
			s.advance(cs, elapsed)
		}
	}
	s.last = now

	st := s.state
	return models.SensorSample{
		Moisture:    &st.Moisture,
		Light:       &st.Light,
		Temperature: &st.Temperature,
		Humidity:    &st.Humidity,
	}, nil
}

func (s *TerrariumSimulator) advance(cs models.ControlSet, elapsed float64) {
	st := &s.state

	if cs.Pump.Active {
		st.Moisture = approach(st.Moisture, MaxWetPct, PumpMoisturePerSec*elapsed)
		st.Humidity = approach(st.Humidity, MaxWetPct, PumpHumidityPerSec*elapsed)
	} else {
		st.Moisture = approach(st.Moisture, AmbientMoisture, DryingPerSec*elapsed)
		st.Humidity = approach(st.Humidity, AmbientHumidity, HumidityDriftSec*elapsed)
	}

	lightTarget := AmbientLight
	if cs.UVLamp.Active {
		lightTarget = LampLight
	}
	st.Light = approach(st.Light, lightTarget, LightPerSec*elapsed)

	switch {
	case cs.Peltier.Active && cs.Peltier.Heating:
		st.Temperature = approach(st.Temperature, MaxTempC, PeltierCPerSec*elapsed)
	case cs.Peltier.Active:
		st.Temperature = approach(st.Temperature, MinTempC, PeltierCPerSec*elapsed)
	default:
		st.Temperature = approach(st.Temperature, AmbientTempC, TempDriftPerSec*elapsed)
	}
}

// approach moves v toward target by at most step.
func approach(v, target, step float64) float64 {
	if v < target {
		return min(v+step, target)
	}
	return max(v-step, target)
}
