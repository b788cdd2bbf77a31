package client

import (
	"fmt"
	"strings"

	"agrobox/internal/models"
)

// checker is implemented by response bodies that need every field present.
type checker interface {
	check() error
}

// snapshotBody is /api/sensors/current on the wire. A missing or null
// channel is a malformed body, not a zero reading.
type snapshotBody struct {
	Moisture    *float64 `json:"moisture"`
	Light       *float64 `json:"light"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

func (b *snapshotBody) check() error {
	var missing []string
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"moisture", b.Moisture},
		{"light", b.Light},
		{"temperature", b.Temperature},
		{"humidity", b.Humidity},
	} {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing or null channels: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (b *snapshotBody) snapshot() models.SensorSnapshot {
	return models.SensorSnapshot{
		Moisture:    *b.Moisture,
		Light:       *b.Light,
		Temperature: *b.Temperature,
		Humidity:    *b.Humidity,
	}
}

type actuatorBody struct {
	Active  *bool `json:"active"`
	Heating *bool `json:"heating"`
}

// controlsBody is GET /api/controls on the wire. Every actuator object and
// its active flag must be present; heating is optional.
type controlsBody struct {
	Pump    *actuatorBody `json:"pump"`
	UVLamp  *actuatorBody `json:"uvLamp"`
	Peltier *actuatorBody `json:"peltier"`
}

func (b *controlsBody) check() error {
	var missing []string
	for _, f := range []struct {
		name string
		v    *actuatorBody
	}{
		{"pump", b.Pump},
		{"uvLamp", b.UVLamp},
		{"peltier", b.Peltier},
	} {
		if f.v == nil || f.v.Active == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing or null actuators: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (b *controlsBody) controlSet() models.ControlSet {
	cs := models.ControlSet{
		Pump:    models.Pump{Active: *b.Pump.Active},
		UVLamp:  models.UVLamp{Active: *b.UVLamp.Active},
		Peltier: models.Peltier{Active: *b.Peltier.Active},
	}
	if b.Peltier.Heating != nil {
		cs.Peltier.Heating = *b.Peltier.Heating
	}
	return cs
}
