package service

import "agrobox/internal/models"

// Status band limits. A value on a limit belongs to the better band.
const (
	moistureCritical = 30.0
	moistureWarning  = 50.0

	lightCritical = 400.0
	lightWarning  = 600.0

	tempCriticalLow  = 18.0
	tempWarningLow   = 20.0
	tempWarningHigh  = 26.0
	tempCriticalHigh = 28.0

	humidityCriticalLow  = 40.0
	humidityWarningLow   = 50.0
	humidityWarningHigh  = 70.0
	humidityCriticalHigh = 80.0
)

// Classify grades a value for its channel. Unknown channels are optimal.
func Classify(ch models.Channel, v float64) models.StatusBand {
	switch ch {
	case models.ChannelMoisture:
		return lowerIsWorse(v, moistureCritical, moistureWarning)
	case models.ChannelLight:
		return lowerIsWorse(v, lightCritical, lightWarning)
	case models.ChannelTemperature:
		return band(v, tempCriticalLow, tempWarningLow, tempWarningHigh, tempCriticalHigh)
	case models.ChannelHumidity:
		return band(v, humidityCriticalLow, humidityWarningLow, humidityWarningHigh, humidityCriticalHigh)
	default:
		return models.StatusOptimal
	}
}

// ClassifySnapshot grades every channel of s.
func ClassifySnapshot(s models.SensorSnapshot) map[models.Channel]models.StatusBand {
	out := make(map[models.Channel]models.StatusBand, len(models.Channels))
	for _, ch := range models.Channels {
		v, _ := s.Value(ch)
		out[ch] = Classify(ch, v)
	}
	return out
}

func lowerIsWorse(v, critical, warning float64) models.StatusBand {
	if v < critical {
		return models.StatusCritical
	}
	if v < warning {
		return models.StatusWarning
	}
	return models.StatusOptimal
}

func band(v, critLow, warnLow, warnHigh, critHigh float64) models.StatusBand {
	if v < critLow || v > critHigh {
		return models.StatusCritical
	}
	if v < warnLow || v > warnHigh {
		return models.StatusWarning
	}
	return models.StatusOptimal
}
