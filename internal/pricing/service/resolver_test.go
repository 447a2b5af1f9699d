package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/internal/pricing/repository"
	"appraisal_portal_backend/platform/logger"
)

type fakeTierSource struct {
	rows  map[domain.Tier][]repository.TierPrice
	err   error
	calls int
}

func (f *fakeTierSource) ListByTier(_ context.Context, tier domain.Tier) ([]repository.TierPrice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[tier], nil
}

func seededSource() *fakeTierSource {
	return &fakeTierSource{rows: map[domain.Tier][]repository.TierPrice{
		domain.Tier1500To2500: {
			{Tier: domain.Tier1500To2500, ServiceID: "appraisal", Price: 500},
			{Tier: domain.Tier1500To2500, ServiceID: "basic-photography", Price: 210},
		},
		domain.TierUnder1500: {
			{Tier: domain.TierUnder1500, ServiceID: "basic-photography", Price: 160},
		},
	}}
}

func newTestResolver(src TierSource, opts ...Option) *Resolver {
	return New(src, catalog.Default(), logger.Discard(), opts...)
}

func TestQuoteAppraisalOnlyAt1800SqFt(t *testing.T) {
	r := newTestResolver(seededSource())

	q := r.Quote(context.Background(), []string{"appraisal"}, 1800)

	if q.Tier != domain.Tier1500To2500 {
		t.Fatalf("expected middle tier, got %s", q.Tier)
	}
	if len(q.Lines) != 1 || q.Lines[0].Price != 500 || q.Lines[0].Source != PriceFromTable {
		t.Fatalf("expected appraisal 500 from table, got %+v", q.Lines)
	}
	if q.Subtotal != 500 {
		t.Fatalf("expected subtotal 500, got %v", q.Subtotal)
	}
}

func TestTabulatedAppraisalWinsOverBand(t *testing.T) {
	r := newTestResolver(seededSource())

	// The band rule says 450 below 2000 sq ft; the table row says 500.
	if band := domain.AppraisalBandPrice(1800); band != 450 {
		t.Fatalf("unexpected band price %v", band)
	}
	if got := r.ResolvePrice(context.Background(), "appraisal", 1800); got != 500 {
		t.Fatalf("expected table price 500, got %v", got)
	}
}

func TestUntabulatedAppraisalUsesBand(t *testing.T) {
	r := newTestResolver(seededSource())

	if got := r.ResolvePrice(context.Background(), "appraisal", 1200); got != 450 {
		t.Fatalf("expected band price 450, got %v", got)
	}
	if got := r.ResolvePrice(context.Background(), "appraisal", 4200); got != 600 {
		t.Fatalf("expected band price 600, got %v", got)
	}
}

func TestMissingRowFallsBackToStaticTable(t *testing.T) {
	r := newTestResolver(seededSource())

	q := r.Quote(context.Background(), []string{"floor-plan"}, 1200)
	if q.Lines[0].Price != 100 || q.Lines[0].Source != PriceFromStatic {
		t.Fatalf("expected static 100, got %+v", q.Lines[0])
	}
}

func TestUnknownServicePricesAtZero(t *testing.T) {
	r := newTestResolver(seededSource())

	q := r.Quote(context.Background(), []string{"helicopter-tour"}, 1800)
	if q.Lines[0].Price != 0 || q.Lines[0].Source != PriceUnavailable {
		t.Fatalf("expected 0 from none, got %+v", q.Lines[0])
	}
}

func TestLookupFailureDegradesToStaticPrices(t *testing.T) {
	src := &fakeTierSource{err: errors.New("connection refused")}
	r := newTestResolver(src)

	q := r.Quote(context.Background(), []string{"basic-photography", "appraisal"}, 1800)
	if q.Lines[0].Price != 200 || q.Lines[0].Source != PriceFromStatic {
		t.Fatalf("expected static basic-photography 200, got %+v", q.Lines[0])
	}
	if q.Lines[1].Price != 450 || q.Lines[1].Source != PriceFromBand {
		t.Fatalf("expected band appraisal 450, got %+v", q.Lines[1])
	}
	if q.Subtotal != 650 {
		t.Fatalf("expected subtotal 650, got %v", q.Subtotal)
	}
}

func TestResolvePriceIsIdempotentAndCached(t *testing.T) {
	src := seededSource()
	r := newTestResolver(src)
	ctx := context.Background()

	first := r.ResolvePrice(ctx, "basic-photography", 1200)
	second := r.ResolvePrice(ctx, "basic-photography", 1200)

	if first != second || first != 160 {
		t.Fatalf("expected 160 twice, got %v then %v", first, second)
	}
	if src.calls != 1 {
		t.Fatalf("expected one tier fetch, got %d", src.calls)
	}
}

func TestCacheExpiresAndInvalidates(t *testing.T) {
	src := seededSource()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := newTestResolver(src, WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	r.ResolvePrice(ctx, "basic-photography", 1200)
	now = now.Add(2 * time.Minute)
	r.ResolvePrice(ctx, "basic-photography", 1200)
	if src.calls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", src.calls)
	}

	r.Invalidate(domain.TierUnder1500)
	r.ResolvePrice(ctx, "basic-photography", 1200)
	if src.calls != 3 {
		t.Fatalf("expected refetch after invalidate, got %d calls", src.calls)
	}
}

func TestFailedLookupIsNotCached(t *testing.T) {
	src := &fakeTierSource{err: errors.New("timeout")}
	r := newTestResolver(src)
	ctx := context.Background()

	r.ResolvePrice(ctx, "basic-photography", 1200)
	src.err = nil
	src.rows = seededSource().rows
	if got := r.ResolvePrice(ctx, "basic-photography", 1200); got != 160 {
		t.Fatalf("expected table price after recovery, got %v", got)
	}
}
