package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ListJobsRequest filters the admin job list.
type ListJobsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending scheduled completed cancelled"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending scheduled completed cancelled"`
}

type JobResponse struct {
	ID               uuid.UUID       `json:"id"`
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	CustomerPhone    string          `json:"customerPhone"`
	Company          *string         `json:"company,omitempty"`
	PropertyAddress  string          `json:"propertyAddress"`
	ServiceType      string          `json:"serviceType"`
	Services         []string        `json:"services"`
	ScheduledAt      time.Time       `json:"scheduledAt"`
	SquareFootage    int             `json:"squareFootage"`
	Subtotal         float64         `json:"subtotal"`
	DiscountCode     *string         `json:"discountCode,omitempty"`
	DiscountAmount   float64         `json:"discountAmount"`
	Total            float64         `json:"total"`
	Description      string          `json:"description"`
	AppraisalDetails json.RawMessage `json:"appraisalDetails,omitempty"`
	Status           string          `json:"status"`
	CalendarEventID  *string         `json:"calendarEventId,omitempty"`
	HasQuotePDF      bool            `json:"hasQuotePdf"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type JobListResponse struct {
	Items      []JobResponse `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

type QuotePDFResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
