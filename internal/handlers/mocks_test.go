package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"agrobox/internal/models"
	"agrobox/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSensors struct {
	current    models.SensorSnapshot
	currentErr error
	history    models.HistoricalSeries
	historyErr error
	seeded     int
	seedErr    error
	seedCalls  int
}

func (m *mockSensors) Current(ctx context.Context) (models.SensorSnapshot, error) {
	return m.current, m.currentErr
}
func (m *mockSensors) History(ctx context.Context) (models.HistoricalSeries, error) {
	return m.history, m.historyErr
}
func (m *mockSensors) Seed(ctx context.Context) (int, error) {
	m.seedCalls++
	return m.seeded, m.seedErr
}

type mockControls struct {
	cs          models.ControlSet
	getErr      error
	updateErr   error
	lastUpdate  models.ControlUpdate
	updateCalls int
}

func (m *mockControls) Get(ctx context.Context) (models.ControlSet, error) {
	return m.cs, m.getErr
}
func (m *mockControls) Update(ctx context.Context, u models.ControlUpdate) (models.ControlSet, error) {
	m.updateCalls++
	m.lastUpdate = u
	if m.updateErr != nil {
		return models.ControlSet{}, m.updateErr
	}
	m.cs.Pump.Active, m.cs.UVLamp.Active, m.cs.Peltier.Active = u.Pump, u.UVLamp, u.Peltier
	return m.cs, nil
}
func (m *mockControls) ShutdownActuators(ctx context.Context) error { return nil }

type mockActuatorLog struct {
	resp     []models.ActuatorEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastName string
	calls    int
}

func (m *mockActuatorLog) List(ctx context.Context, f service.LogFilter) ([]models.ActuatorEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastName = f.Name
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, nil).InitRoutes()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}
