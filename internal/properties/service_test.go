package properties

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"appraisal_portal_backend/platform/logger"
)

type lookupConfig struct{ url, key string }

func (c lookupConfig) GetPropertyAPIURL() string { return c.url }
func (c lookupConfig) GetPropertyAPIKey() string { return c.key }

func TestHTTPLookupSendsQueryAndKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "18 Maple" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(countyPayload))
	}))
	defer srv.Close()

	svc := NewService(NewHTTPLookup(lookupConfig{url: srv.URL, key: "secret"}), logger.Discard())
	results, err := svc.Search(context.Background(), " 18 Maple ", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].SquareFootage != 1842 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestHTTPLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewService(NewHTTPLookup(lookupConfig{url: srv.URL}), logger.Discard())
	if _, err := svc.Search(context.Background(), "18 Maple", 5); err == nil {
		t.Fatal("expected upstream error")
	}
}

func TestHTTPLookupDisabled(t *testing.T) {
	svc := NewService(NewHTTPLookup(lookupConfig{}), logger.Discard())
	if _, err := svc.Search(context.Background(), "18 Maple", 5); !errors.Is(err, ErrLookupDisabled) {
		t.Fatalf("expected ErrLookupDisabled, got %v", err)
	}
}

type staticLookup struct{ raw []RawProperty }

func (s staticLookup) Search(context.Context, string, int) ([]RawProperty, error) {
	return s.raw, nil
}

func TestSearchDropsRecordsWithoutAddress(t *testing.T) {
	addr := "5 Oak Ct"
	svc := NewService(staticLookup{raw: []RawProperty{{}, {Address: &addr}}}, logger.Discard())

	results, err := svc.Search(context.Background(), "oak", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Address != addr {
		t.Fatalf("unexpected results %+v", results)
	}
}
