package repository

import (
	"context"
	"time"

	"appraisal_portal_backend/internal/jobs/domain"

	"github.com/google/uuid"
)

// Job is a booked request as stored in the jobs table.
type Job struct {
	ID               uuid.UUID          `db:"id"`
	CustomerName     string             `db:"customer_name"`
	CustomerEmail    string             `db:"customer_email"`
	CustomerPhone    string             `db:"customer_phone"`
	Company          *string            `db:"company"`
	PropertyAddress  string             `db:"property_address"`
	ServiceType      domain.ServiceType `db:"service_type"`
	Services         []string           `db:"services"`
	ScheduledAt      time.Time          `db:"scheduled_at"`
	SquareFootage    int                `db:"square_footage"`
	Subtotal         float64            `db:"subtotal"`
	DiscountCode     *string            `db:"discount_code"`
	DiscountAmount   float64            `db:"discount_amount"`
	Total            float64            `db:"total"`
	Description      string             `db:"description"`
	AppraisalDetails []byte             `db:"appraisal_details"`
	Status           domain.Status      `db:"status"`
	CalendarEventID  *string            `db:"calendar_event_id"`
	QuotePDFKey      *string            `db:"quote_pdf_key"`
	CreatedAt        time.Time          `db:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at"`
}

// CreateParams contains everything needed to insert a job.
type CreateParams struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Company          *string
	PropertyAddress  string
	ServiceType      domain.ServiceType
	Services         []string
	ScheduledAt      time.Time
	SquareFootage    int
	Subtotal         float64
	DiscountCode     *string
	DiscountAmount   float64
	Total            float64
	Description      string
	AppraisalDetails []byte
}

// ListParams filters and pages the job list. Status nil means all.
type ListParams struct {
	Status *domain.Status
	Offset int
	Limit  int
}

type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, params ListParams) ([]Job, int, error)
}

type Writer interface {
	Create(ctx context.Context, params CreateParams) (Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (Job, error)
	SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error
	SetQuotePDFKey(ctx context.Context, id uuid.UUID, key string) error
}

type Repository interface {
	Reader
	Writer
}
