// Package store persists quote sessions between requests.
package store

import (
	"context"

	"appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/platform/apperr"
)

const sessionNotFoundMessage = "quote session not found or expired"

// UpdateFunc derives the next state. Returning an error aborts the update.
type UpdateFunc func(domain.State) (domain.State, error)

// Store keeps quote sessions for a limited time. Update is atomic per session.
type Store interface {
	Create(ctx context.Context, state domain.State) error
	Get(ctx context.Context, id string) (domain.State, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (domain.State, error)
	Delete(ctx context.Context, id string) error
}

func errNotFound() error {
	return apperr.NotFound(sessionNotFoundMessage)
}
