package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestCalendar(t *testing.T, handler http.HandlerFunc) *GoogleCalendar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	loc := time.FixedZone("EST", -5*3600)
	return NewGoogleCalendar(svc, "office@example.com", loc)
}

func TestBusySlotsParsesFreeBusy(t *testing.T) {
	var gotReq gcal.FreeBusyRequest
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "freeBusy") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"calendars": {
				"office@example.com": {
					"busy": [
						{"start": "2026-05-14T19:00:00Z", "end": "2026-05-14T19:30:00Z"},
						{"start": "bad", "end": "2026-05-14T20:00:00Z"}
					]
				}
			}
		}`))
	})

	date := time.Date(2026, 5, 14, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))
	busy, err := cal.BusySlots(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(busy) != 1 {
		t.Fatalf("expected 1 busy slot, got %d", len(busy))
	}
	if busy[0].Start.Hour() != 14 {
		t.Fatalf("expected 2 PM local start, got %v", busy[0].Start)
	}
	if gotReq.TimeMin != "2026-05-14T00:00:00-05:00" || gotReq.TimeMax != "2026-05-15T00:00:00-05:00" {
		t.Fatalf("unexpected window %s - %s", gotReq.TimeMin, gotReq.TimeMax)
	}
}

func TestBusySlotsSurfacesCalendarErrors(t *testing.T) {
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"calendars": {"office@example.com": {"errors": [{"domain": "global", "reason": "notFound"}]}}}`))
	})

	if _, err := cal.BusySlots(context.Background(), time.Now()); err == nil {
		t.Fatal("expected calendar error")
	}
}

func TestCreateEventUsesThirtyMinuteDefault(t *testing.T) {
	var got gcal.Event
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/events") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "evt-123"}`))
	})

	start := time.Date(2026, 5, 14, 14, 30, 0, 0, time.FixedZone("EST", -5*3600))
	id, err := cal.CreateEvent(context.Background(), Event{Summary: "Appraisal - Doe", Start: start})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "evt-123" {
		t.Fatalf("expected event id, got %q", id)
	}
	if got.Start.DateTime != "2026-05-14T14:30:00-05:00" || got.End.DateTime != "2026-05-14T15:00:00-05:00" {
		t.Fatalf("unexpected event window %s - %s", got.Start.DateTime, got.End.DateTime)
	}
}
