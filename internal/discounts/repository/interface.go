package repository

import (
	"context"
	"time"

	"appraisal_portal_backend/internal/discounts/domain"

	"github.com/google/uuid"
)

// DiscountCode is a stored discount code.
type DiscountCode struct {
	ID          uuid.UUID   `db:"id"`
	Code        string      `db:"code"`
	Type        domain.Type `db:"discount_type"`
	Value       float64     `db:"discount_value"`
	Description *string     `db:"description"`
	Active      bool        `db:"active"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

// CreateParams contains parameters for creating a discount code.
type CreateParams struct {
	Code        string
	Type        domain.Type
	Value       float64
	Description *string
	Active      bool
}

// UpdateParams contains the fields to change; nil fields are kept.
type UpdateParams struct {
	ID          uuid.UUID
	Code        *string
	Type        *domain.Type
	Value       *float64
	Description *string
}

// Reader provides read operations for discount codes.
type Reader interface {
	FindActiveByCode(ctx context.Context, code string) (DiscountCode, error)
	GetByID(ctx context.Context, id uuid.UUID) (DiscountCode, error)
	List(ctx context.Context) ([]DiscountCode, error)
}

// Writer provides write operations for discount codes.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (DiscountCode, error)
	Update(ctx context.Context, params UpdateParams) (DiscountCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (DiscountCode, error)
}

// Repository combines all discount code operations.
type Repository interface {
	Reader
	Writer
}
