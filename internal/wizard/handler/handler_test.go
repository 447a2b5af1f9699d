package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	availsvc "appraisal_portal_backend/internal/availability/service"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
	discountsvc "appraisal_portal_backend/internal/discounts/service"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	"appraisal_portal_backend/internal/submission"
	"appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/internal/wizard/service"
	"appraisal_portal_backend/internal/wizard/store"
	"appraisal_portal_backend/internal/wizard/transport"
	"appraisal_portal_backend/platform/logger"
	"appraisal_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type flatPricer struct{}

func (flatPricer) Quote(_ context.Context, ids []string, sqft int) pricingsvc.Quote {
	q := pricingsvc.Quote{SquareFootage: sqft}
	for _, id := range ids {
		q.Lines = append(q.Lines, pricingsvc.Line{ServiceID: id, Name: id, Price: 100})
		q.Subtotal += 100
	}
	return q
}

type noBusy struct{}

func (noBusy) BusySlots(context.Context, time.Time) ([]availability.BusySlot, error) {
	return nil, nil
}

type noDiscounts struct{}

func (noDiscounts) Resolve(_ context.Context, code string, _ float64) discounts.Resolution {
	return discounts.Invalid(code)
}

type okSubmitter struct{}

func (okSubmitter) Submit(context.Context, domain.QuoteFormData, properties.PropertyInfo, string) (submission.Result, error) {
	return submission.Result{Success: true, JobID: "job-1"}, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	checker := availsvc.New(noBusy{}, time.UTC, logger.Discard()).
		WithClock(func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) })
	svc := service.New(service.Deps{
		Store:        store.NewMemoryStore(time.Hour),
		Catalog:      catalog.Default(),
		Pricer:       flatPricer{},
		Availability: checker,
		Discounts:    noDiscounts{},
		Debouncer:    discountsvc.NewDebouncer(0),
		Submitter:    okSubmitter{},
		Log:          logger.Discard(),
	})
	h := New(svc, validator.New())

	r := gin.New()
	r.POST("/quote-sessions", h.Create)
	r.GET("/quote-sessions/:id", h.Get)
	r.POST("/quote-sessions/:id/actions", h.Apply)
	r.POST("/quote-sessions/:id/submit", h.Submit)
	r.DELETE("/quote-sessions/:id", h.Close)
	r.GET("/quote-sessions/:id/slots", h.Slots)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) transport.SessionResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/quote-sessions", `{"property":{"id":"p1","fullAddress":"18 Maple Ave","squareFootage":1800}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCreateRequiresAddress(t *testing.T) {
	r := newRouter()
	if w := do(r, http.MethodPost, "/quote-sessions", `{"property":{}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/quote-sessions", `{`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateAndGet(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)
	if s.ID == "" || s.Step != domain.StepContact || s.StepName == "" {
		t.Fatalf("unexpected session %+v", s)
	}

	if w := do(r, http.MethodGet, "/quote-sessions/"+s.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/quote-sessions/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	w := do(r, http.MethodPost, "/quote-sessions/"+s.ID+"/actions", `{"type":"teleport"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNextWithMissingFieldsIs422(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	w := do(r, http.MethodPost, "/quote-sessions/"+s.ID+"/actions", `{"type":"next"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var resp transport.ActionErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Details["firstName"] == "" || resp.Session.ID != s.ID {
		t.Fatalf("expected field errors and the session, got %+v", resp)
	}
}

func TestToggleServiceReturnsQuote(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	w := do(r, http.MethodPost, "/quote-sessions/"+s.ID+"/actions", `{"type":"toggleService","serviceId":"basic-photography"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 100 || len(resp.Form.SelectedServices) != 1 {
		t.Fatalf("unexpected session %+v", resp)
	}
}

func TestSlotsValidatesDate(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	if w := do(r, http.MethodGet, "/quote-sessions/"+s.ID+"/slots?date=tomorrow", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w := do(r, http.MethodGet, "/quote-sessions/"+s.ID+"/slots?date=2026-05-14", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp transport.SlotsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Selectable || len(resp.Slots) != 36 {
		t.Fatalf("expected 36 open slots, got %d", len(resp.Slots))
	}
}

func TestSubmitIncompleteIs422(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	if w := do(r, http.MethodPost, "/quote-sessions/"+s.ID+"/submit", ""); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestCloseEmptySession(t *testing.T) {
	r := newRouter()
	s := createSession(t, r)

	if w := do(r, http.MethodDelete, "/quote-sessions/"+s.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/quote-sessions/"+s.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", w.Code)
	}
}
