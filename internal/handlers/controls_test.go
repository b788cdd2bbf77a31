package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"agrobox/internal/models"
	"agrobox/internal/service"
)

func TestGetControls(t *testing.T) {
	m := &mockControls{cs: models.DefaultControlSet()}
	r := newTestRouter(&service.Service{Controls: m})

	w := do(r, http.MethodGet, "/api/controls", "")
	want := `{"pump":{"active":false},"uvLamp":{"active":false},"peltier":{"active":false,"heating":true}}`
	if w.Code != http.StatusOK || w.Body.String() != want {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	m.getErr = errors.New("db down")
	if w := do(r, http.MethodGet, "/api/controls", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestUpdateControls(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		m := &mockControls{cs: models.DefaultControlSet()}
		r := newTestRouter(&service.Service{Controls: m})

		w := do(r, http.MethodPost, "/api/controls", `{"pump":true,"uvLamp":false,"peltier":true}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}
		if m.lastUpdate != (models.ControlUpdate{Pump: true, Peltier: true}) {
			t.Fatalf("unexpected update %+v", m.lastUpdate)
		}
		var out struct {
			Message  string            `json:"message"`
			Controls models.ControlSet `json:"controls"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out.Message != "Controls updated successfully" || !out.Controls.Peltier.Heating {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing keys are false", func(t *testing.T) {
		m := &mockControls{}
		r := newTestRouter(&service.Service{Controls: m})
		if w := do(r, http.MethodPost, "/api/controls", `{"uvLamp":true}`); w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if m.lastUpdate != (models.ControlUpdate{UVLamp: true}) {
			t.Fatalf("unexpected update %+v", m.lastUpdate)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		m := &mockControls{}
		r := newTestRouter(&service.Service{Controls: m})
		if w := do(r, http.MethodPost, "/api/controls", `{"pump":"yes"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if m.updateCalls != 0 {
			t.Fatalf("service must not be called on a bad body")
		}
	})

	t.Run("service error", func(t *testing.T) {
		m := &mockControls{updateErr: errors.New("db down")}
		r := newTestRouter(&service.Service{Controls: m})
		w := do(r, http.MethodPost, "/api/controls", `{"pump":true}`)
		if w.Code != http.StatusInternalServerError || w.Body.String() != `{"error":"failed to update controls"}` {
			t.Fatalf("got %d %s", w.Code, w.Body.String())
		}
	})
}
