package repository

import (
	"context"
	"fmt"

	"appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const selectTierPrice = `SELECT tier, service_id, price::float8, updated_at FROM pricing_tiers`

// ListByTier returns every service price of a tier.
func (r *Repo) ListByTier(ctx context.Context, tier domain.Tier) ([]TierPrice, error) {
	rows, err := r.pool.Query(ctx, selectTierPrice+` WHERE tier = $1 ORDER BY service_id`, string(tier))
	if err != nil {
		return nil, fmt.Errorf("list tier prices: %w", err)
	}
	return collectTierPrices(rows)
}

// ListAll returns the whole table ordered by tier then service.
func (r *Repo) ListAll(ctx context.Context) ([]TierPrice, error) {
	rows, err := r.pool.Query(ctx, selectTierPrice+` ORDER BY tier, service_id`)
	if err != nil {
		return nil, fmt.Errorf("list all tier prices: %w", err)
	}
	return collectTierPrices(rows)
}

// Upsert sets the price of a service in a tier.
func (r *Repo) Upsert(ctx context.Context, tier domain.Tier, serviceID string, price float64) (TierPrice, error) {
	query := `
		INSERT INTO pricing_tiers (tier, service_id, price, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tier, service_id) DO UPDATE
		SET price = EXCLUDED.price, updated_at = now()
		RETURNING tier, service_id, price::float8, updated_at`

	rows, err := r.pool.Query(ctx, query, string(tier), serviceID, price)
	if err != nil {
		return TierPrice{}, fmt.Errorf("upsert tier price: %w", err)
	}
	tp, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[TierPrice])
	if err != nil {
		return TierPrice{}, fmt.Errorf("upsert tier price: %w", err)
	}
	return tp, nil
}

// Delete removes a tier row so the service falls back to the static price.
func (r *Repo) Delete(ctx context.Context, tier domain.Tier, serviceID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pricing_tiers WHERE tier = $1 AND service_id = $2`, string(tier), serviceID)
	if err != nil {
		return fmt.Errorf("delete tier price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("tier price not found")
	}
	return nil
}

func collectTierPrices(rows pgx.Rows) ([]TierPrice, error) {
	prices, err := pgx.CollectRows(rows, pgx.RowToStructByName[TierPrice])
	if err != nil {
		return nil, fmt.Errorf("scan tier prices: %w", err)
	}
	return prices, nil
}
