package handler

import (
	"net/http"

	"appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/availability/service"
	"appraisal_portal_backend/internal/availability/transport"
	"appraisal_portal_backend/platform/httpkit"
	"appraisal_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	checker *service.Checker
	val     *validator.Validator
}

func New(checker *service.Checker, val *validator.Validator) *Handler {
	return &Handler{checker: checker, val: val}
}

// Slots returns the appointment grid of a day. Days outside the booking
// window come back with no slots.
// GET /api/v1/availability/slots?date=2026-05-14
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

	date, err := h.checker.ParseDate(req.Date)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	resp := transport.SlotsResponse{Date: req.Date, Slots: []domain.Slot{}}
	if h.checker.DateSelectable(date) {
		resp.Selectable = true
		busy := h.checker.BusySlots(c.Request.Context(), date)
		resp.Slots = h.checker.DaySlots(date, busy)
	}
	httpkit.OK(c, resp)
}
