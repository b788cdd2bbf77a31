package service

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got != (SeriesStats{}) {
		t.Fatalf("empty input: got %+v", got)
	}

	one := Summarize([]float64{42})
	if one.Count != 1 || one.Min != 42 || one.Max != 42 || one.Mean != 42 || one.StdDev != 0 {
		t.Fatalf("single value: got %+v", one)
	}

	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 || s.Min != 2 || s.Max != 9 || s.Mean != 5 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	// sample standard deviation of the classic example
	if want := math.Sqrt(32.0 / 7.0); math.Abs(s.StdDev-want) > 1e-9 {
		t.Fatalf("stddev = %v, want %v", s.StdDev, want)
	}
}
