package properties

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"appraisal_portal_backend/platform/config"
	"appraisal_portal_backend/platform/logger"
)

const (
	defaultLimit = 10
	maxLimit     = 25
)

// ErrLookupDisabled is returned when no property API is configured.
var ErrLookupDisabled = errors.New("property lookup is not configured")

// Lookup fetches raw property records matching an address.
type Lookup interface {
	Search(ctx context.Context, address string, limit int) ([]RawProperty, error)
}

// HTTPLookup calls the county property records API.
type HTTPLookup struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPLookup(cfg config.PropertyLookupConfig) *HTTPLookup {
	return &HTTPLookup{
		baseURL: strings.TrimRight(cfg.GetPropertyAPIURL(), "/"),
		apiKey:  cfg.GetPropertyAPIKey(),
		client:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (l *HTTPLookup) Search(ctx context.Context, address string, limit int) ([]RawProperty, error) {
	if l.baseURL == "" {
		return nil, ErrLookupDisabled
	}

	params := url.Values{}
	params.Add("address", address)
	params.Add("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if l.apiKey != "" {
		req.Header.Set("X-API-Key", l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property api request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("property api error: %d", resp.StatusCode)
	}

	var raw []RawProperty
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode property payload: %w", err)
	}
	return raw, nil
}

// Service searches properties and returns normalised records.
type Service struct {
	lookup Lookup
	log    *logger.Logger
}

func NewService(lookup Lookup, log *logger.Logger) *Service {
	return &Service{lookup: lookup, log: log}
}

// Search returns up to limit properties matching address. Records without
// an address are dropped.
func (s *Service) Search(ctx context.Context, address string, limit int) ([]PropertyInfo, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	raw, err := s.lookup.Search(ctx, strings.TrimSpace(address), limit)
	if err != nil {
		s.log.WithContext(ctx).Error("property lookup failed", "error", err)
		return nil, err
	}

	out := make([]PropertyInfo, 0, len(raw))
	for _, r := range raw {
		info := Normalize(r)
		if info.Address == "" {
			continue
		}
		out = append(out, info)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
