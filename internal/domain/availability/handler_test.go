package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(repo *mockRepo, lookup *mockLookup) (*Handler, *echo.Echo) {
	svc := newTestService(repo, lookup, nil)
	svc.SetClock(func() time.Time { return monday.Add(-24 * time.Hour) })
	return NewHandler(svc), echo.New()
}

func doRequest(e *echo.Echo, method, target, body string, fn echo.HandlerFunc, params map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := fn(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAddAvailabilityHandler(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	doctorID := uuid.New()

	rec := doRequest(e, http.MethodPost, "/doctors/"+doctorID.String()+"/availability",
		`{"weekday":1,"start":"09:00","end":"12:00"}`, h.AddAvailability,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		StartMinute int    `json:"start_minute"`
		Start       string `json:"start"`
		End         string `json:"end"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Start != "09:00" || resp.End != "12:00" {
		t.Errorf("formatted times %q-%q, want 09:00-12:00", resp.Start, resp.End)
	}
	if resp.StartMinute != 540 {
		t.Errorf("start_minute = %d, want 540", resp.StartMinute)
	}
}

func TestAddAvailabilityHandler_InvalidDoctorID(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	rec := doRequest(e, http.MethodPost, "/doctors/nope/availability",
		`{"weekday":1,"start":"09:00","end":"12:00"}`, h.AddAvailability,
		map[string]string{"id": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddAvailabilityHandler_InvalidClock(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	doctorID := uuid.New()
	rec := doRequest(e, http.MethodPost, "/doctors/"+doctorID.String()+"/availability",
		`{"weekday":1,"start":"25:00","end":"26:00"}`, h.AddAvailability,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestAddAvailabilityHandler_Overlap(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	doctorID := uuid.New()
	body := `{"weekday":1,"start":"09:00","end":"12:00"}`
	params := map[string]string{"id": doctorID.String()}

	rec := doRequest(e, http.MethodPost, "/doctors/"+doctorID.String()+"/availability", body, h.AddAvailability, params)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first add status = %d, want 201", rec.Code)
	}
	rec = doRequest(e, http.MethodPost, "/doctors/"+doctorID.String()+"/availability", body, h.AddAvailability, params)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second add status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestDaySlotsHandler(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, nil)
	doctorID := uuid.New()
	if err := h.svc.AddAvailability(context.Background(), monAvail(doctorID, 540, 720)); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/slots?date=2026-01-05", "", h.DaySlots,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Slots []Slot `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) != 6 {
		t.Errorf("expected 6 slots, got %d", len(resp.Slots))
	}
}

func TestDaySlotsHandler_GranularityOverride(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, nil)
	doctorID := uuid.New()
	if err := h.svc.AddAvailability(context.Background(), monAvail(doctorID, 540, 720)); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/slots?date=2026-01-05&granularity=60", "", h.DaySlots,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Slots []Slot `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) != 3 {
		t.Errorf("expected 3 slots at 60 minutes, got %d", len(resp.Slots))
	}

	rec = doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/slots?date=2026-01-05&granularity=-5", "", h.DaySlots,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDaySlotsHandler_MissingDate(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	doctorID := uuid.New()
	rec := doRequest(e, http.MethodGet, "/doctors/"+doctorID.String()+"/slots", "", h.DaySlots,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDaySlotsHandler_UpstreamDown(t *testing.T) {
	repo := newMockRepo()
	lookup := &mockLookup{err: errors.New("connection refused")}
	h, e := newTestHandler(repo, lookup)
	doctorID := uuid.New()
	if err := h.svc.AddAvailability(context.Background(), monAvail(doctorID, 540, 720)); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/slots?date=2026-01-05", "", h.DaySlots,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header on 503")
	}
}

func TestUpdateAvailabilityHandler_NotFound(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), nil)
	id := uuid.New()
	rec := doRequest(e, http.MethodPut, "/availability/"+id.String(),
		`{"weekday":1,"start":"09:00","end":"12:00"}`, h.UpdateAvailability,
		map[string]string{"id": id.String()})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteAvailabilityHandler(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, nil)
	a := monAvail(uuid.New(), 540, 720)
	if err := h.svc.AddAvailability(context.Background(), a); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := doRequest(e, http.MethodDelete, "/availability/"+a.ID.String(), "", h.DeleteAvailability,
		map[string]string{"id": a.ID.String()})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}
}

func TestTotalAvailableTimeHandler(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, nil)
	doctorID := uuid.New()
	if err := h.svc.AddAvailability(context.Background(), monAvail(doctorID, 540, 720)); err != nil {
		t.Fatalf("add: %v", err)
	}

	from := monday.Format(time.RFC3339)
	to := monday.AddDate(0, 0, 7).Format(time.RFC3339)
	rec := doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/availability/total?from="+from+"&to="+to, "", h.TotalAvailableTime,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TotalMinutes int `json:"total_minutes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalMinutes != 180 {
		t.Errorf("total_minutes = %d, want 180", resp.TotalMinutes)
	}

	rec = doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/availability/total", "", h.TotalAvailableTime,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without from/to", rec.Code)
	}
}

func TestCheckAvailabilityHandler(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, nil)
	doctorID := uuid.New()
	if err := h.svc.AddAvailability(context.Background(), monAvail(doctorID, 540, 720)); err != nil {
		t.Fatalf("add: %v", err)
	}

	at := monday.Add(10 * time.Hour).Format(time.RFC3339)
	rec := doRequest(e, http.MethodGet,
		"/doctors/"+doctorID.String()+"/availability/check?at="+at, "", h.CheckAvailability,
		map[string]string{"id": doctorID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Available {
		t.Error("expected doctor to be available")
	}
}
