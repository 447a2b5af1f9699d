package handler

import (
	"net/http"

	"appraisal_portal_backend/internal/discounts/service"
	"appraisal_portal_backend/internal/discounts/transport"
	"appraisal_portal_backend/platform/httpkit"
	"appraisal_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid discount ID"
)

// Handler handles HTTP requests for discount codes.
type Handler struct {
	resolver *service.Resolver
	admin    *service.Admin
	val      *validator.Validator
}

func New(resolver *service.Resolver, admin *service.Admin, val *validator.Validator) *Handler {
	return &Handler{resolver: resolver, admin: admin, val: val}
}

// Validate resolves a code against a subtotal. Unknown codes are a normal
// answer (isValid=false), not an error.
// POST /api/v1/discounts/validate
func (h *Handler) Validate(c *gin.Context) {
	var req transport.ValidateDiscountRequest
	if !h.bind(c, &req) {
		return
	}
	httpkit.OK(c, h.resolver.Resolve(c.Request.Context(), req.Code, req.Subtotal))
}

// List returns every discount code.
// GET /api/v1/admin/discounts
func (h *Handler) List(c *gin.Context) {
	items, err := h.admin.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DiscountListResponse{Items: items, Total: len(items)})
}

// GET /api/v1/admin/discounts/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.admin.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/discounts
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateDiscountRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.admin.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// PUT /api/v1/admin/discounts/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateDiscountRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.admin.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/admin/discounts/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.admin.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/v1/admin/discounts/:id/toggle-active
func (h *Handler) ToggleActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.admin.ToggleActive(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
