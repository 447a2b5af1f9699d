// Package service resolves per-service prices for a living area.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/internal/pricing/repository"
	"appraisal_portal_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = time.Minute

// TierSource reads tier price rows.
type TierSource interface {
	ListByTier(ctx context.Context, tier domain.Tier) ([]repository.TierPrice, error)
}

// PriceSource tells where a line price came from.
type PriceSource string

const (
	PriceFromTable   PriceSource = "table"
	PriceFromStatic  PriceSource = "static"
	PriceFromBand    PriceSource = "appraisal_band"
	PriceUnavailable PriceSource = "none"
)

// Line is the resolved price of one service.
type Line struct {
	ServiceID string      `json:"serviceId"`
	Name      string      `json:"name"`
	Price     float64     `json:"price"`
	Source    PriceSource `json:"source"`
}

// Quote is the priced selection.
type Quote struct {
	Tier          domain.Tier `json:"tier"`
	SquareFootage int         `json:"squareFootage"`
	Lines         []Line      `json:"lines"`
	Subtotal      float64     `json:"subtotal"`
}

type cachedTier struct {
	prices    map[string]float64
	fetchedAt time.Time
}

// Resolver turns (service, square footage) into a price. Tier rows are
// memoised for a short TTL so repeated lookups with unchanged data return the
// same price without a round trip. Failed fetches are not cached.
type Resolver struct {
	source  TierSource
	catalog *catalog.Catalog
	log     *logger.Logger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	cache map[domain.Tier]cachedTier
	group singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCacheTTL overrides how long tier rows are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func New(source TierSource, c *catalog.Catalog, log *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		source:  source,
		catalog: c,
		log:     log,
		ttl:     defaultCacheTTL,
		now:     time.Now,
		cache:   make(map[domain.Tier]cachedTier),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePrice returns the price of one service at the given living area.
func (r *Resolver) ResolvePrice(ctx context.Context, serviceID string, sqft int) float64 {
	tier := domain.TierFor(sqft)
	return r.priceFrom(r.tierPrices(ctx, tier), serviceID, tier, sqft).Price
}

// Quote resolves every selected service with a single tier fetch.
func (r *Resolver) Quote(ctx context.Context, serviceIDs []string, sqft int) Quote {
	tier := domain.TierFor(sqft)
	prices := r.tierPrices(ctx, tier)

	q := Quote{Tier: tier, SquareFootage: sqft, Lines: make([]Line, 0, len(serviceIDs))}
	for _, id := range serviceIDs {
		line := r.priceFrom(prices, id, tier, sqft)
		q.Lines = append(q.Lines, line)
		q.Subtotal += line.Price
	}
	return q
}

// Invalidate drops the cached rows of a tier after an admin edit.
func (r *Resolver) Invalidate(tier domain.Tier) {
	r.mu.Lock()
	delete(r.cache, tier)
	r.mu.Unlock()
}

func (r *Resolver) priceFrom(prices map[string]float64, serviceID string, tier domain.Tier, sqft int) Line {
	line := Line{ServiceID: serviceID, Name: r.catalog.Name(serviceID)}

	if price, ok := prices[serviceID]; ok {
		line.Price, line.Source = price, PriceFromTable
		return line
	}
	if serviceID == catalog.AppraisalID {
		line.Price, line.Source = domain.AppraisalBandPrice(sqft), PriceFromBand
		return line
	}
	if price, ok := r.catalog.StaticPrice(serviceID, string(tier)); ok {
		line.Price, line.Source = price, PriceFromStatic
		return line
	}
	line.Source = PriceUnavailable
	return line
}

// tierPrices returns service -> price for a tier. On lookup failure it
// returns nil and the caller falls through to the static table.
func (r *Resolver) tierPrices(ctx context.Context, tier domain.Tier) map[string]float64 {
	if prices, ok := r.cached(tier); ok {
		return prices
	}

	v, err, _ := r.group.Do(string(tier), func() (any, error) {
		rows, err := r.source.ListByTier(ctx, tier)
		if err != nil {
			return nil, fmt.Errorf("list tier %s: %w", tier, err)
		}
		prices := make(map[string]float64, len(rows))
		for _, row := range rows {
			prices[row.ServiceID] = row.Price
		}
		r.store(tier, prices)
		return prices, nil
	})
	if err != nil {
		r.log.WithContext(ctx).LookupDegraded("pricing_tiers", err, "tier", string(tier))
		return nil
	}
	return v.(map[string]float64)
}

func (r *Resolver) cached(tier domain.Tier) (map[string]float64, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[tier]
	if !ok || r.now().Sub(entry.fetchedAt) >= r.ttl {
		return nil, false
	}
	return entry.prices, true
}

func (r *Resolver) store(tier domain.Tier, prices map[string]float64) {
	if r.ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[tier] = cachedTier{prices: prices, fetchedAt: r.now()}
	r.mu.Unlock()
}
