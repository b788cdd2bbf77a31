package models

// SensorSample is one raw read from a sensor source. A nil field means the
// channel could not be read this time.
type SensorSample struct {
	Moisture    *float64
	Light       *float64
	Temperature *float64
	Humidity    *float64
}

// Complete reports whether every channel was read.
func (s SensorSample) Complete() bool {
	return s.Moisture != nil && s.Light != nil && s.Temperature != nil && s.Humidity != nil
}

// Snapshot returns the sample as a snapshot. Missing channels read as zero.
func (s SensorSample) Snapshot() SensorSnapshot {
	return SensorSnapshot{
		Moisture:    deref(s.Moisture),
		Light:       deref(s.Light),
		Temperature: deref(s.Temperature),
		Humidity:    deref(s.Humidity),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
