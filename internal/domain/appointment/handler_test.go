package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestHandler_NextUpcoming(t *testing.T) {
	svc := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	pid := uuid.New()
	a := &Appointment{PatientID: pid, At: time.Now().Add(24 * time.Hour)}
	svc.CreateAppointment(context.Background(), a)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues(pid.String())

	if err := h.NextUpcoming(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var next NextAppointment
	json.Unmarshal(rec.Body.Bytes(), &next)
	if next.ID != a.ID {
		t.Error("unexpected appointment in response")
	}
}

func TestHandler_NextUpcoming_NoneScheduled(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues(uuid.New().String())

	if err := h.NextUpcoming(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An empty calendar is a normal outcome.
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "no upcoming appointments" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_ListByPatient_EmptyList(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues(uuid.New().String())

	if err := h.ListByPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("expected empty JSON array, got %s", rec.Body.String())
	}
}
