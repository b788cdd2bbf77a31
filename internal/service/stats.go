package service

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeriesStats summarizes one channel of the historical series.
type SeriesStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Summarize computes min/max/mean and sample standard deviation.
// Empty input yields zeros; a single value has zero deviation.
func Summarize(vals []float64) SeriesStats {
	if len(vals) == 0 {
		return SeriesStats{}
	}
	s := SeriesStats{
		Count: len(vals),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Mean:  stat.Mean(vals, nil),
	}
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
