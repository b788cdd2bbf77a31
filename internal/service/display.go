package service

import (
	"strconv"
	"sync"
	"time"

	"agrobox/internal/models"
)

// DisplaySink receives what the control loop renders. Each method writes a
// disjoint part of the surface.
type DisplaySink interface {
	RenderSensors(s models.SensorSnapshot, status map[models.Channel]models.StatusBand)
	RenderActuators(cs models.ControlSet)
	RenderSeries(hs models.HistoricalSeries)
}

// SensorView is one sensor card.
type SensorView struct {
	Channel models.Channel    `json:"channel"`
	Value   float64           `json:"value"`
	Display string            `json:"display"` // one decimal
	Status  models.StatusBand `json:"status"`
}

// ActuatorView is one actuator switch. Disabled is always true: the dashboard
// shows decided states, it does not take manual overrides.
type ActuatorView struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
}

// ChannelSeries is one chart.
type ChannelSeries struct {
	Label  string      `json:"label"`
	Values []float64   `json:"values"`
	Stats  SeriesStats `json:"stats"`
}

// SeriesView holds the time-series charts.
type SeriesView struct {
	Labels   []string                         `json:"labels"`
	Channels map[models.Channel]ChannelSeries `json:"channels"`
}

// View is the whole rendered surface.
type View struct {
	Sensors            []SensorView   `json:"sensors"`
	Actuators          []ActuatorView `json:"actuators"`
	Series             *SeriesView    `json:"series,omitempty"`
	SensorsUpdatedAt   time.Time      `json:"sensors_updated_at,omitzero"`
	ActuatorsUpdatedAt time.Time      `json:"actuators_updated_at,omitzero"`
	SeriesUpdatedAt    time.Time      `json:"series_updated_at,omitzero"`
}

var chartLabels = map[models.Channel]string{
	models.ChannelMoisture:    "Moisture %",
	models.ChannelLight:       "Light (lux)",
	models.ChannelTemperature: "Temp (°C)",
	models.ChannelHumidity:    "Humidity %",
}

const timeOfDayLayout = "15:04:05"

// Dashboard keeps the last rendered view in memory and fans it out to subscribers.
// Values stay in place until the next successful render.
type Dashboard struct {
	mu   sync.RWMutex
	view View
	subs map[chan View]struct{}
	now  func() time.Time
}

func NewDashboard() *Dashboard {
	return &Dashboard{
		subs: make(map[chan View]struct{}),
		now:  time.Now,
	}
}

func (d *Dashboard) RenderSensors(s models.SensorSnapshot, status map[models.Channel]models.StatusBand) {
	cards := make([]SensorView, 0, len(models.Channels))
	for _, ch := range models.Channels {
		v, _ := s.Value(ch)
		st, ok := status[ch]
		if !ok {
			st = Classify(ch, v)
		}
		cards = append(cards, SensorView{
			Channel: ch,
			Value:   v,
			Display: strconv.FormatFloat(v, 'f', 1, 64),
			Status:  st,
		})
	}
	d.update(func(v *View) {
		v.Sensors = cards
		v.SensorsUpdatedAt = d.now().UTC()
	})
}

func (d *Dashboard) RenderActuators(cs models.ControlSet) {
	peltierMode := "Cooling"
	if cs.Peltier.Heating {
		peltierMode = "Heating"
	}
	switches := []ActuatorView{
		{Name: models.ActuatorPump, Label: "Water Pump", Active: cs.Pump.Active, Disabled: true},
		{Name: models.ActuatorUVLamp, Label: "UV Lamp", Active: cs.UVLamp.Active, Disabled: true},
		{Name: models.ActuatorPeltier, Label: "Peltier (" + peltierMode + ")", Active: cs.Peltier.Active, Disabled: true},
	}
	d.update(func(v *View) {
		v.Actuators = switches
		v.ActuatorsUpdatedAt = d.now().UTC()
	})
}

func (d *Dashboard) RenderSeries(hs models.HistoricalSeries) {
	labels := make([]string, 0, len(hs.Timestamps))
	for _, ts := range hs.Timestamps {
		labels = append(labels, ts.Local().Format(timeOfDayLayout))
	}
	charts := make(map[models.Channel]ChannelSeries, len(models.Channels))
	for _, ch := range models.Channels {
		vals := hs.Values(ch)
		charts[ch] = ChannelSeries{
			Label:  chartLabels[ch],
			Values: append([]float64(nil), vals...),
			Stats:  Summarize(vals),
		}
	}
	sv := &SeriesView{Labels: labels, Channels: charts}
	d.update(func(v *View) {
		v.Series = sv
		v.SeriesUpdatedAt = d.now().UTC()
	})
}

// View returns the current surface.
func (d *Dashboard) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Subscribe returns a channel that receives the view after every render,
// and a function that ends the subscription. Slow readers only see the latest view.
func (d *Dashboard) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
		})
	}
	return ch, cancel
}

// update applies fn and publishes the result while holding the lock, so
// subscribers never observe views out of order.
func (d *Dashboard) update(fn func(v *View)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.view)
	snapshot := d.view
	for ch := range d.subs {
		select {
		case ch <- snapshot:
		default:
			// drop the stale frame, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
