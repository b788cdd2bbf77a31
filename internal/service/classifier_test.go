package service

import (
	"math"
	"testing"

	"agrobox/internal/models"
)

func TestClassify_BoundaryTable(t *testing.T) {
	cases := []struct {
		ch   models.Channel
		v    float64
		want models.StatusBand
	}{
		{models.ChannelMoisture, 29.99, models.StatusCritical},
		{models.ChannelMoisture, 30, models.StatusWarning},
		{models.ChannelMoisture, 49.99, models.StatusWarning},
		{models.ChannelMoisture, 50, models.StatusOptimal},

		{models.ChannelLight, 399.9, models.StatusCritical},
		{models.ChannelLight, 400, models.StatusWarning},
		{models.ChannelLight, 599.9, models.StatusWarning},
		{models.ChannelLight, 600, models.StatusOptimal},

		{models.ChannelTemperature, 17.9, models.StatusCritical},
		{models.ChannelTemperature, 18, models.StatusWarning},
		{models.ChannelTemperature, 19.99, models.StatusWarning},
		{models.ChannelTemperature, 20, models.StatusOptimal},
		{models.ChannelTemperature, 26, models.StatusOptimal},
		{models.ChannelTemperature, 26.01, models.StatusWarning},
		{models.ChannelTemperature, 28, models.StatusWarning},
		{models.ChannelTemperature, 28.01, models.StatusCritical},

		{models.ChannelHumidity, 39.9, models.StatusCritical},
		{models.ChannelHumidity, 40, models.StatusWarning},
		{models.ChannelHumidity, 50, models.StatusOptimal},
		{models.ChannelHumidity, 70, models.StatusOptimal},
		{models.ChannelHumidity, 70.1, models.StatusWarning},
		{models.ChannelHumidity, 80, models.StatusWarning},
		{models.ChannelHumidity, 80.1, models.StatusCritical},
	}
	for _, tc := range cases {
		if got := Classify(tc.ch, tc.v); got != tc.want {
			t.Errorf("Classify(%s, %v) = %s, want %s", tc.ch, tc.v, got, tc.want)
		}
	}
}

func TestClassify_IsTotal(t *testing.T) {
	inputs := []float64{math.Inf(-1), -1e9, -1, 0, 1e9, math.Inf(1), math.NaN()}
	channels := append([]models.Channel{"co2"}, models.Channels...)
	for _, ch := range channels {
		for _, v := range inputs {
			switch Classify(ch, v) {
			case models.StatusCritical, models.StatusWarning, models.StatusOptimal:
			default:
				t.Fatalf("Classify(%s, %v) returned an unknown band", ch, v)
			}
		}
	}
}

func TestClassifySnapshot(t *testing.T) {
	got := ClassifySnapshot(models.SensorSnapshot{Moisture: 45, Light: 650, Temperature: 24.5, Humidity: 85})
	want := map[models.Channel]models.StatusBand{
		models.ChannelMoisture:    models.StatusWarning,
		models.ChannelLight:       models.StatusOptimal,
		models.ChannelTemperature: models.StatusOptimal,
		models.ChannelHumidity:    models.StatusCritical,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d channels, want %d", len(got), len(want))
	}
	for ch, band := range want {
		if got[ch] != band {
			t.Errorf("%s: got %s, want %s", ch, got[ch], band)
		}
	}
}
