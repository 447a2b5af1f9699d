package transport

import (
	"time"

	"github.com/google/uuid"
)

// ValidateDiscountRequest checks a code against a subtotal.
type ValidateDiscountRequest struct {
	Code     string  `json:"code" validate:"required,max=64"`
	Subtotal float64 `json:"subtotal" validate:"min=0"`
}

// CreateDiscountRequest contains data for creating a discount code.
type CreateDiscountRequest struct {
	Code        string  `json:"code" validate:"required,notblank,max=64,alphanumunicode"`
	Type        string  `json:"type" validate:"required,oneof=percentage fixed"`
	Value       float64 `json:"value" validate:"gt=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Active      *bool   `json:"active,omitempty"`
}

// UpdateDiscountRequest contains the fields to change.
type UpdateDiscountRequest struct {
	Code        *string  `json:"code,omitempty" validate:"omitempty,notblank,max=64,alphanumunicode"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	Value       *float64 `json:"value,omitempty" validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
}

// DiscountResponse represents a discount code in API responses.
type DiscountResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DiscountListResponse wraps a list of discount codes.
type DiscountListResponse struct {
	Items []DiscountResponse `json:"items"`
	Total int                `json:"total"`
}
