package service

import "agrobox/internal/models"

// Actuation thresholds. There is no hysteresis: every cycle recomputes from scratch.
const (
	PumpBelowMoisture = 40.0
	UVLampBelowLight  = 500.0
	PeltierCoolAboveC = 26.0
	PeltierHeatBelowC = 20.0
)

// Decide derives the desired control set from a snapshot. current is only read
// to carry the peltier heating mode through the dead zone; it is never modified.
func Decide(s models.SensorSnapshot, current models.ControlSet) models.ControlSet {
	next := models.ControlSet{
		Pump:   models.Pump{Active: s.Moisture < PumpBelowMoisture},
		UVLamp: models.UVLamp{Active: s.Light < UVLampBelowLight},
	}
	switch {
	case s.Temperature > PeltierCoolAboveC:
		next.Peltier = models.Peltier{Active: true, Heating: false}
	case s.Temperature < PeltierHeatBelowC:
		next.Peltier = models.Peltier{Active: true, Heating: true}
	default:
		next.Peltier = models.Peltier{Active: false, Heating: current.Peltier.Heating}
	}
	return next
}
