package service

import "time"

// LogFilter narrows the actuator log by time range and actuator.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Name string    // "", "pump", "uv_lamp", "peltier"
}
