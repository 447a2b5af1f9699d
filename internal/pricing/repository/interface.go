package repository

import (
	"context"
	"time"

	"appraisal_portal_backend/internal/pricing/domain"
)

// TierPrice is one row of the tier price table.
type TierPrice struct {
	Tier      domain.Tier `db:"tier"`
	ServiceID string      `db:"service_id"`
	Price     float64     `db:"price"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// Repository reads and edits the tier price table.
type Repository interface {
	ListByTier(ctx context.Context, tier domain.Tier) ([]TierPrice, error)
	ListAll(ctx context.Context) ([]TierPrice, error)
	Upsert(ctx context.Context, tier domain.Tier, serviceID string, price float64) (TierPrice, error)
	Delete(ctx context.Context, tier domain.Tier, serviceID string) error
}
