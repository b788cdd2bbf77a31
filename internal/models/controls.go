package models

// Pump waters the substrate.
type Pump struct {
	Active bool `json:"active"`
}

// UVLamp supplements light.
type UVLamp struct {
	Active bool `json:"active"`
}

// Peltier heats or cools. Heating is the last commanded mode and is kept while inactive.
type Peltier struct {
	Active  bool `json:"active"`
	Heating bool `json:"heating"`
}

// ControlSet is the desired state of all three actuators.
type ControlSet struct {
	Pump    Pump    `json:"pump"`
	UVLamp  UVLamp  `json:"uvLamp"`
	Peltier Peltier `json:"peltier"`
}

// ControlUpdate is the push payload. The heating flag is not transmitted.
type ControlUpdate struct {
	Pump    bool `json:"pump"`
	UVLamp  bool `json:"uvLamp"`
	Peltier bool `json:"peltier"`
}

// Update flattens the set into its push payload.
func (c ControlSet) Update() ControlUpdate {
	return ControlUpdate{
		Pump:    c.Pump.Active,
		UVLamp:  c.UVLamp.Active,
		Peltier: c.Peltier.Active,
	}
}

// DefaultControlSet is the state of a rig that was never commanded.
func DefaultControlSet() ControlSet {
	return ControlSet{Peltier: Peltier{Heating: true}}
}

// Actuator names as used by the relay driver and the actuator log.
const (
	ActuatorPump    = "pump"
	ActuatorUVLamp  = "uv_lamp"
	ActuatorPeltier = "peltier"
)

// ActuatorNames lists every actuator in a stable order.
var ActuatorNames = []string{ActuatorPump, ActuatorUVLamp, ActuatorPeltier}

// States maps actuator names to their on/off state.
func (c ControlSet) States() map[string]bool {
	return map[string]bool{
		ActuatorPump:    c.Pump.Active,
		ActuatorUVLamp:  c.UVLamp.Active,
		ActuatorPeltier: c.Peltier.Active,
	}
}
