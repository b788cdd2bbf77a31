// Package metrics exposes Prometheus collectors for the control loop and the backend.
// All methods are safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for cycles and ingestion.
const (
	ResultOK         = "ok"
	ResultFailed     = "failed"
	ResultIncomplete = "incomplete"
)

type Metrics struct {
	reg *prometheus.Registry

	cycleRuns       *prometheus.CounterVec
	cycleDuration   *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	actuatorState   *prometheus.GaugeVec
	sensorValue     *prometheus.GaugeVec
	readingsIngest  *prometheus.CounterVec
	actuatorChanges *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		cycleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrobox_cycle_runs_total",
			Help: "Control loop runs by cycle (fast|slow) and result.",
		}, []string{"cycle", "result"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agrobox_cycle_duration_seconds",
			Help:    "Duration of control loop runs by cycle.",
			Buckets: prometheus.DefBuckets,
		}, []string{"cycle"}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrobox_backend_errors_total",
			Help: "Backend call failures by operation and kind (transport|decode).",
		}, []string{"op", "kind"}),
		actuatorState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agrobox_actuator_active",
			Help: "Last decided actuator state (1 on, 0 off).",
		}, []string{"actuator"}),
		sensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agrobox_sensor_value",
			Help: "Last observed sensor value by channel.",
		}, []string{"channel"}),
		readingsIngest: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrobox_readings_ingested_total",
			Help: "Sensor readings handled by the ingestion loop by result (stored|incomplete|failed).",
		}, []string{"result"}),
		actuatorChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrobox_actuator_changes_total",
			Help: "Actuator state changes applied by the backend.",
		}, []string{"actuator", "state"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cycleRuns,
		m.cycleDuration,
		m.backendErrors,
		m.actuatorState,
		m.sensorValue,
		m.readingsIngest,
		m.actuatorChanges,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCycle(cycle string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	m.cycleRuns.WithLabelValues(cycle, result).Inc()
	m.cycleDuration.WithLabelValues(cycle).Observe(took.Seconds())
}

func (m *Metrics) BackendError(op, kind string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(op, kind).Inc()
}

func (m *Metrics) SetActuator(name string, active bool) {
	if m == nil {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	m.actuatorState.WithLabelValues(name).Set(v)
}

func (m *Metrics) SetSensor(channel string, v float64) {
	if m == nil {
		return
	}
	m.sensorValue.WithLabelValues(channel).Set(v)
}

func (m *Metrics) IngestResult(result string) {
	if m == nil {
		return
	}
	m.readingsIngest.WithLabelValues(result).Inc()
}

func (m *Metrics) ActuatorChanged(name string, on bool) {
	if m == nil {
		return
	}
	m.actuatorChanges.WithLabelValues(name, strconv.FormatBool(on)).Inc()
}

// GinMiddleware records request counts and durations by route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
