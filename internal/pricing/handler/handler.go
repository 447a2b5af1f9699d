package handler

import (
	"net/http"
	"strings"

	"appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/internal/pricing/repository"
	"appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/pricing/transport"
	"appraisal_portal_backend/platform/httpkit"
	"appraisal_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the price preview and the admin tier table.
type Handler struct {
	resolver *service.Resolver
	admin    *service.Admin
	val      *validator.Validator
}

func New(resolver *service.Resolver, admin *service.Admin, val *validator.Validator) *Handler {
	return &Handler{resolver: resolver, admin: admin, val: val}
}

// Quote prices a comma separated service list for a living area. A missing
// or unusable area prices at the default tier.
// GET /api/v1/pricing/quote?sqft=1800&services=appraisal,floor-plan
func (h *Handler) Quote(c *gin.Context) {
	var req transport.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	sqft, _ := domain.ResolveSquareFootage(req.SquareFootage, "")
	httpkit.OK(c, h.resolver.Quote(c.Request.Context(), splitServices(req.Services), sqft))
}

// ListTiers returns the tier table.
// GET /api/v1/admin/pricing/tiers
func (h *Handler) ListTiers(c *gin.Context) {
	rows, err := h.admin.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	resp := transport.TierPriceListResponse{Items: make([]transport.TierPriceResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Items = append(resp.Items, toResponse(row))
	}
	httpkit.OK(c, resp)
}

// SetTierPrice upserts one cell of the tier table.
// PUT /api/v1/admin/pricing/tiers/:tier/:serviceId
func (h *Handler) SetTierPrice(c *gin.Context) {
	var req transport.SetTierPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	row, err := h.admin.Set(c.Request.Context(), c.Param("tier"), c.Param("serviceId"), *req.Price)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(row))
}

// DeleteTierPrice removes one cell of the tier table.
// DELETE /api/v1/admin/pricing/tiers/:tier/:serviceId
func (h *Handler) DeleteTierPrice(c *gin.Context) {
	if httpkit.HandleError(c, h.admin.Remove(c.Request.Context(), c.Param("tier"), c.Param("serviceId"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func toResponse(row repository.TierPrice) transport.TierPriceResponse {
	return transport.TierPriceResponse{
		Tier:      string(row.Tier),
		ServiceID: row.ServiceID,
		Price:     row.Price,
		UpdatedAt: row.UpdatedAt,
	}
}

func splitServices(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
