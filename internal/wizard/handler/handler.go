package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"appraisal_portal_backend/internal/wizard/service"
	"appraisal_portal_backend/internal/wizard/transport"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/httpkit"
	"appraisal_portal_backend/platform/logger"
	"appraisal_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgPropertyRequired = "property address is required"
)

// Handler serves the public quote wizard.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create opens a session for the property picked in the address search.
// POST /api/v1/quote-sessions
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if strings.TrimSpace(req.Property.FullAddress) == "" && strings.TrimSpace(req.Property.Address) == "" {
		httpkit.Error(c, http.StatusBadRequest, msgPropertyRequired, nil)
		return
	}

	state, err := h.svc.Create(c.Request.Context(), req.Property)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToSessionResponse(state))
}

// GET /api/v1/quote-sessions/:id
func (h *Handler) Get(c *gin.Context) {
	state, err := h.svc.Get(sessionContext(c), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(state))
}

// Apply runs one wizard action. A step that does not validate answers 422
// with the field errors and the session.
// POST /api/v1/quote-sessions/:id/actions
func (h *Handler) Apply(c *gin.Context) {
	var req transport.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	state, err := h.svc.Apply(sessionContext(c), c.Param("id"), req.ToAction())
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnprocessable {
		httpkit.JSON(c, http.StatusUnprocessableEntity, transport.ActionErrorResponse{
			Error:   appErr.Message,
			Details: state.Errors,
			Session: transport.ToSessionResponse(state),
		})
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(state))
}

// Submit runs the submission workflow for the session.
// POST /api/v1/quote-sessions/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	result, err := h.svc.Submit(sessionContext(c), c.Param("id"))
	var appErr *apperr.Error
	if err != nil && result.Message != "" && !errors.As(err, &appErr) {
		// Nothing was created; the body carries the retry message.
		_ = c.Error(err)
		httpkit.JSON(c, http.StatusInternalServerError, result)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Close asks to close the session; confirm=true discards entered data.
// DELETE /api/v1/quote-sessions/:id?confirm=true
func (h *Handler) Close(c *gin.Context) {
	var req transport.CloseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	state, err := h.svc.Close(sessionContext(c), c.Param("id"), req.Confirm)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(state))
}

// Slots returns the appointment grid of a day for the session.
// GET /api/v1/quote-sessions/:id/slots?date=2026-05-14
func (h *Handler) Slots(c *gin.Context) {
	var req transport.SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD", validator.FieldErrors(err))
		return
	}

	selectable, slots, err := h.svc.Slots(sessionContext(c), c.Param("id"), req.Date)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SlotsResponse{Date: req.Date, Selectable: selectable, Slots: slots})
}

// GET /api/v1/appraisal-options
func (h *Handler) AppraisalOptions(c *gin.Context) {
	httpkit.OK(c, transport.AppraisalOptions())
}

func sessionContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), logger.SessionIDKey, c.Param("id"))
}
