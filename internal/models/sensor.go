package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// SensorSnapshot is one reading of every sensor channel.
type SensorSnapshot struct {
	Moisture    float64 `json:"moisture"`    // %
	Light       float64 `json:"light"`       // lux
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
}

// Value returns the snapshot value for a channel; ok is false for unknown channels.
func (s SensorSnapshot) Value(ch Channel) (float64, bool) {
	switch ch {
	case ChannelMoisture:
		return s.Moisture, true
	case ChannelLight:
		return s.Light, true
	case ChannelTemperature:
		return s.Temperature, true
	case ChannelHumidity:
		return s.Humidity, true
	default:
		return 0, false
	}
}

// SensorReading is a persisted snapshot row.
type SensorReading struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SensorSnapshot
}

// HistoricalSeries holds index-aligned per-channel values. The producer guarantees alignment.
type HistoricalSeries struct {
	Timestamps  []Instant `json:"timestamps"`
	Moisture    []float64 `json:"moisture"`
	Light       []float64 `json:"light"`
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
}

// Values returns the sequence for a channel.
func (h HistoricalSeries) Values(ch Channel) []float64 {
	switch ch {
	case ChannelMoisture:
		return h.Moisture
	case ChannelLight:
		return h.Light
	case ChannelTemperature:
		return h.Temperature
	case ChannelHumidity:
		return h.Humidity
	default:
		return nil
	}
}

// NewHistoricalSeries builds a series from readings ordered oldest first.
func NewHistoricalSeries(readings []SensorReading) HistoricalSeries {
	n := len(readings)
	hs := HistoricalSeries{
		Timestamps:  make([]Instant, 0, n),
		Moisture:    make([]float64, 0, n),
		Light:       make([]float64, 0, n),
		Temperature: make([]float64, 0, n),
		Humidity:    make([]float64, 0, n),
	}
	for _, r := range readings {
		hs.Timestamps = append(hs.Timestamps, Instant{Time: r.Timestamp})
		hs.Moisture = append(hs.Moisture, r.Moisture)
		hs.Light = append(hs.Light, r.Light)
		hs.Temperature = append(hs.Temperature, r.Temperature)
		hs.Humidity = append(hs.Humidity, r.Humidity)
	}
	return hs
}

// Instant is a point in time that decodes from epoch milliseconds or an ISO-8601 string.
// Zone-less ISO strings are read in local time.
type Instant struct {
	time.Time
}

// accepted ISO layouts, tried in order
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(i.Time.Format(time.RFC3339Nano))
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		i.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := ParseInstant(s)
		if err != nil {
			return err
		}
		i.Time = t
		return nil
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("instant %s: not epoch-ms or ISO string", string(b))
	}
	t, err := fromEpochMillis(ms)
	if err != nil {
		return err
	}
	i.Time = t
	return nil
}

// epoch-ms bounds that still fit in an int64 of milliseconds
const (
	minEpochMillis = float64(math.MinInt64)
	maxEpochMillis = -float64(math.MinInt64)
)

// fromEpochMillis converts epoch milliseconds, keeping any fractional part
// as sub-millisecond precision.
func fromEpochMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < minEpochMillis || ms >= maxEpochMillis {
		return time.Time{}, fmt.Errorf("instant %v: epoch-ms out of range", ms)
	}
	whole := math.Trunc(ms)
	frac := time.Duration(math.Round((ms - whole) * float64(time.Millisecond)))
	return time.UnixMilli(int64(whole)).Add(frac), nil
}

// ParseInstant parses an ISO-8601 timestamp in any of the accepted layouts.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
