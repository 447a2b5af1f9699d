package repository

import (
	"context"
	"errors"
	"fmt"

	"appraisal_portal_backend/internal/jobs/domain"
	"appraisal_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	jobNotFoundMessage = "job not found"

	jobColumns = `id, customer_name, customer_email, customer_phone, company, property_address,
		service_type, services, scheduled_at, square_footage, subtotal::float8 AS subtotal,
		discount_code, discount_amount::float8 AS discount_amount, total::float8 AS total,
		description, appraisal_details, status, calendar_event_id, quote_pdf_key,
		created_at, updated_at`
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, params CreateParams) (Job, error) {
	query := `
		INSERT INTO jobs (
			id, customer_name, customer_email, customer_phone, company, property_address,
			service_type, services, scheduled_at, square_footage, subtotal,
			discount_code, discount_amount, total, description, appraisal_details, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + jobColumns

	services := params.Services
	if services == nil {
		services = []string{}
	}

	return r.one(ctx, "create job", query,
		uuid.New(), params.CustomerName, params.CustomerEmail, params.CustomerPhone, params.Company,
		params.PropertyAddress, string(params.ServiceType), services, params.ScheduledAt,
		params.SquareFootage, params.Subtotal, params.DiscountCode, params.DiscountAmount,
		params.Total, params.Description, params.AppraisalDetails, string(domain.StatusPending),
	)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Job, error) {
	return r.one(ctx, "get job", `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

// List returns a page of jobs, newest first, and the total matching count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Job, int, error) {
	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ($1::text IS NULL OR status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, status, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[Job])
	if err != nil {
		return nil, 0, fmt.Errorf("scan jobs: %w", err)
	}
	return jobs, total, nil
}

// UpdateStatus moves a job from one status to another. It fails with a
// conflict when the stored status no longer equals from.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (Job, error) {
	query := `UPDATE jobs SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + jobColumns

	job, err := r.one(ctx, "update job status", query, id, string(from), string(to))
	if apperr.Is(err, apperr.KindNotFound) {
		return Job{}, apperr.Conflict("job status changed concurrently")
	}
	return job, err
}

func (r *Repo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return r.exec(ctx, "set calendar event", `UPDATE jobs SET calendar_event_id = $2, updated_at = now() WHERE id = $1`, id, eventID)
}

func (r *Repo) SetQuotePDFKey(ctx context.Context, id uuid.UUID, key string) error {
	return r.exec(ctx, "set quote pdf key", `UPDATE jobs SET quote_pdf_key = $2, updated_at = now() WHERE id = $1`, id, key)
}

func (r *Repo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMessage)
	}
	return nil
}

func (r *Repo) one(ctx context.Context, op, query string, args ...any) (Job, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Job{}, fmt.Errorf("%s: %w", op, err)
	}
	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("%s: %w", op, err)
	}
	return job, nil
}
