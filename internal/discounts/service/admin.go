package service

import (
	"context"

	"appraisal_portal_backend/internal/discounts/domain"
	"appraisal_portal_backend/internal/discounts/repository"
	"appraisal_portal_backend/internal/discounts/transport"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"
	"appraisal_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Admin manages the discount code registry.
type Admin struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewAdmin(repo repository.Repository, log *logger.Logger) *Admin {
	return &Admin{repo: repo, log: log}
}

func (a *Admin) List(ctx context.Context) ([]transport.DiscountResponse, error) {
	codes, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DiscountResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, toResponse(c))
	}
	return out, nil
}

func (a *Admin) Get(ctx context.Context, id uuid.UUID) (transport.DiscountResponse, error) {
	code, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DiscountResponse{}, err
	}
	return toResponse(code), nil
}

func (a *Admin) Create(ctx context.Context, req transport.CreateDiscountRequest) (transport.DiscountResponse, error) {
	t := domain.Type(req.Type)
	if err := validateValue(t, req.Value); err != nil {
		return transport.DiscountResponse{}, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	code, err := a.repo.Create(ctx, repository.CreateParams{
		Code:        domain.NormalizeCode(req.Code),
		Type:        t,
		Value:       req.Value,
		Description: sanitize.TextPtr(req.Description),
		Active:      active,
	})
	if err != nil {
		return transport.DiscountResponse{}, err
	}
	a.log.Info("discount code created", "code", code.Code, "type", code.Type, "value", code.Value)
	return toResponse(code), nil
}

func (a *Admin) Update(ctx context.Context, id uuid.UUID, req transport.UpdateDiscountRequest) (transport.DiscountResponse, error) {
	current, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DiscountResponse{}, err
	}

	params := repository.UpdateParams{ID: id, Value: req.Value, Description: sanitize.TextPtr(req.Description)}
	effectiveType, effectiveValue := current.Type, current.Value
	if req.Type != nil {
		t := domain.Type(*req.Type)
		params.Type = &t
		effectiveType = t
	}
	if req.Value != nil {
		effectiveValue = *req.Value
	}
	if req.Code != nil {
		normalized := domain.NormalizeCode(*req.Code)
		params.Code = &normalized
	}
	if err := validateValue(effectiveType, effectiveValue); err != nil {
		return transport.DiscountResponse{}, err
	}

	code, err := a.repo.Update(ctx, params)
	if err != nil {
		return transport.DiscountResponse{}, err
	}
	return toResponse(code), nil
}

func (a *Admin) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}
	a.log.Info("discount code deleted", "id", id)
	return nil
}

// ToggleActive flips the active flag.
func (a *Admin) ToggleActive(ctx context.Context, id uuid.UUID) (transport.DiscountResponse, error) {
	current, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DiscountResponse{}, err
	}
	code, err := a.repo.SetActive(ctx, id, !current.Active)
	if err != nil {
		return transport.DiscountResponse{}, err
	}
	return toResponse(code), nil
}

func validateValue(t domain.Type, value float64) error {
	if !t.Valid() {
		return apperr.Validation("type must be percentage or fixed")
	}
	if value <= 0 {
		return apperr.Validation("value must be positive")
	}
	if t == domain.TypePercentage && value > 100 {
		return apperr.Validation("percentage cannot exceed 100")
	}
	return nil
}

func toResponse(c repository.DiscountCode) transport.DiscountResponse {
	return transport.DiscountResponse{
		ID:          c.ID,
		Code:        c.Code,
		Type:        string(c.Type),
		Value:       c.Value,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
