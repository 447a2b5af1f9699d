package service

import (
	"context"

	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/internal/pricing/repository"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"
)

// Admin edits the tier price table and keeps the resolver cache coherent.
type Admin struct {
	repo     repository.Repository
	resolver *Resolver
	catalog  *catalog.Catalog
	log      *logger.Logger
}

func NewAdmin(repo repository.Repository, resolver *Resolver, c *catalog.Catalog, log *logger.Logger) *Admin {
	return &Admin{repo: repo, resolver: resolver, catalog: c, log: log}
}

// List returns the full tier table.
func (a *Admin) List(ctx context.Context) ([]repository.TierPrice, error) {
	return a.repo.ListAll(ctx)
}

// Set stores the price of a service in a tier.
func (a *Admin) Set(ctx context.Context, rawTier, serviceID string, price float64) (repository.TierPrice, error) {
	tier, err := a.validateKey(rawTier, serviceID)
	if err != nil {
		return repository.TierPrice{}, err
	}
	if price < 0 {
		return repository.TierPrice{}, apperr.Validation("price must not be negative")
	}

	tp, err := a.repo.Upsert(ctx, tier, serviceID, price)
	if err != nil {
		return repository.TierPrice{}, err
	}
	a.resolver.Invalidate(tier)
	a.log.Info("tier price updated", "tier", tier, "service_id", serviceID, "price", price)
	return tp, nil
}

// Remove deletes a tier row; the service falls back to its static price.
func (a *Admin) Remove(ctx context.Context, rawTier, serviceID string) error {
	tier, err := a.validateKey(rawTier, serviceID)
	if err != nil {
		return err
	}
	if err := a.repo.Delete(ctx, tier, serviceID); err != nil {
		return err
	}
	a.resolver.Invalidate(tier)
	a.log.Info("tier price removed", "tier", tier, "service_id", serviceID)
	return nil
}

func (a *Admin) validateKey(rawTier, serviceID string) (domain.Tier, error) {
	tier, ok := domain.ParseTier(rawTier)
	if !ok {
		return "", apperr.Validation("unknown tier").WithDetails(map[string]string{"tier": rawTier})
	}
	if !a.catalog.Has(serviceID) {
		return "", apperr.Validation("unknown service").WithDetails(map[string]string{"serviceId": serviceID})
	}
	return tier, nil
}
