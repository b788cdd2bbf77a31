package models

import "time"

// ActuatorEvent is a single actuator state change.
type ActuatorEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Name       string    `json:"name"` // pump | uv_lamp | peltier
	State      bool      `json:"state"`
}
