package models

// StatusBand grades a sensor value.
type StatusBand string

const (
	StatusCritical StatusBand = "critical"
	StatusWarning  StatusBand = "warning"
	StatusOptimal  StatusBand = "optimal"
)

// Channel names a sensor channel.
type Channel string

const (
	ChannelMoisture    Channel = "moisture"
	ChannelLight       Channel = "light"
	ChannelTemperature Channel = "temperature"
	ChannelHumidity    Channel = "humidity"
)

// Channels lists every sensor channel in display order.
var Channels = []Channel{ChannelMoisture, ChannelLight, ChannelTemperature, ChannelHumidity}
