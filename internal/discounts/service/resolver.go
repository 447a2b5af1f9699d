// Package service resolves discount codes and manages the code registry.
package service

import (
	"context"
	"errors"

	"appraisal_portal_backend/internal/discounts/domain"
	"appraisal_portal_backend/internal/discounts/repository"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"
)

// Lookup finds active discount codes.
type Lookup interface {
	FindActiveByCode(ctx context.Context, code string) (repository.DiscountCode, error)
}

// Resolver checks a code against the registry and prices it.
type Resolver struct {
	lookup Lookup
	log    *logger.Logger
}

func NewResolver(lookup Lookup, log *logger.Logger) *Resolver {
	return &Resolver{lookup: lookup, log: log}
}

// Resolve never fails: unknown, inactive or unreachable codes resolve to
// an invalid result with a zero amount.
func (r *Resolver) Resolve(ctx context.Context, code string, subtotal float64) domain.Resolution {
	normalized := domain.NormalizeCode(code)
	if normalized == "" {
		return domain.Invalid(code)
	}

	record, err := r.lookup.FindActiveByCode(ctx, normalized)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) && !errors.Is(err, context.Canceled) {
			r.log.WithContext(ctx).LookupDegraded("discount_codes", err, "code", normalized)
		}
		return domain.Invalid(code)
	}
	if !record.Active || !record.Type.Valid() {
		return domain.Invalid(code)
	}

	res := domain.Resolution{
		IsValid: true,
		Code:    normalized,
		Type:    record.Type,
		Value:   record.Value,
		Amount:  domain.Amount(record.Type, record.Value, subtotal),
	}
	if record.Description != nil {
		res.Description = *record.Description
	}
	return res
}
