package transport

import "appraisal_portal_backend/internal/availability/domain"

// SlotsRequest selects the day to evaluate.
type SlotsRequest struct {
	Date string `form:"date" validate:"required,datetime=2006-01-02"`
}

// SlotsResponse is the bookable grid of one day.
type SlotsResponse struct {
	Date       string        `json:"date"`
	Selectable bool          `json:"selectable"`
	Slots      []domain.Slot `json:"slots"`
}
