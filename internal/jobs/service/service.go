// Package service implements the job back office: creation from submitted
// quotes, listing and status changes.
package service

import (
	"context"

	"appraisal_portal_backend/internal/adapters/storage"
	"appraisal_portal_backend/internal/jobs/domain"
	"appraisal_portal_backend/internal/jobs/repository"
	"appraisal_portal_backend/internal/jobs/transport"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Presigner hands out download links for archived quote PDFs.
type Presigner interface {
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

type Service struct {
	repo   repository.Repository
	files  Presigner
	bucket string
	log    *logger.Logger
}

type Option func(*Service)

// WithQuotePDFs enables quote PDF download links.
func WithQuotePDFs(files Presigner, bucket string) Option {
	return func(s *Service) {
		s.files = files
		s.bucket = bucket
	}
}

func New(repo repository.Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new pending job.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.Job, error) {
	job, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Job{}, err
	}
	s.log.WithContext(ctx).Info("job created", "job_id", job.ID, "service_type", job.ServiceType, "total", job.Total)
	return job, nil
}

func (s *Service) AttachCalendarEvent(ctx context.Context, id uuid.UUID, eventID string) error {
	return s.repo.SetCalendarEventID(ctx, id, eventID)
}

func (s *Service) AttachQuotePDF(ctx context.Context, id uuid.UUID, key string) error {
	return s.repo.SetQuotePDFKey(ctx, id, key)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.JobResponse{}, err
	}
	return toJobResponse(job), nil
}

func (s *Service) List(ctx context.Context, req transport.ListJobsRequest) (transport.JobListResponse, error) {
	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	params := repository.ListParams{Offset: (page - 1) * pageSize, Limit: pageSize}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.Valid() {
			return transport.JobListResponse{}, apperr.Validation("unknown status")
		}
		params.Status = &status
	}

	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.JobListResponse{}, err
	}

	items := make([]transport.JobResponse, len(jobs))
	for i, job := range jobs {
		items[i] = toJobResponse(job)
	}
	return transport.JobListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// UpdateStatus applies a lifecycle transition. Setting the current status
// again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (transport.JobResponse, error) {
	to := domain.Status(rawStatus)
	if !to.Valid() {
		return transport.JobResponse{}, apperr.Validation("unknown status")
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.JobResponse{}, err
	}
	if job.Status == to {
		return toJobResponse(job), nil
	}
	if !domain.CanTransition(job.Status, to) {
		return transport.JobResponse{}, apperr.Conflict("cannot move job from " + string(job.Status) + " to " + string(to))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, job.Status, to)
	if err != nil {
		return transport.JobResponse{}, err
	}
	s.log.WithContext(ctx).Info("job status changed", "job_id", id, "from", job.Status, "to", to)
	return toJobResponse(updated), nil
}

// QuotePDFURL returns a short-lived link to the archived quote PDF.
func (s *Service) QuotePDFURL(ctx context.Context, id uuid.UUID) (transport.QuotePDFResponse, error) {
	if s.files == nil {
		return transport.QuotePDFResponse{}, apperr.NotFound("quote PDF archive is not configured")
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuotePDFResponse{}, err
	}
	if job.QuotePDFKey == nil || *job.QuotePDFKey == "" {
		return transport.QuotePDFResponse{}, apperr.NotFound("no quote PDF archived for this job")
	}
	link, err := s.files.GenerateDownloadURL(ctx, s.bucket, *job.QuotePDFKey)
	if err != nil {
		return transport.QuotePDFResponse{}, err
	}
	return transport.QuotePDFResponse{URL: link.URL, ExpiresAt: link.ExpiresAt}, nil
}

func toJobResponse(job repository.Job) transport.JobResponse {
	return transport.JobResponse{
		ID:               job.ID,
		CustomerName:     job.CustomerName,
		CustomerEmail:    job.CustomerEmail,
		CustomerPhone:    job.CustomerPhone,
		Company:          job.Company,
		PropertyAddress:  job.PropertyAddress,
		ServiceType:      string(job.ServiceType),
		Services:         job.Services,
		ScheduledAt:      job.ScheduledAt,
		SquareFootage:    job.SquareFootage,
		Subtotal:         job.Subtotal,
		DiscountCode:     job.DiscountCode,
		DiscountAmount:   job.DiscountAmount,
		Total:            job.Total,
		Description:      job.Description,
		AppraisalDetails: job.AppraisalDetails,
		Status:           string(job.Status),
		CalendarEventID:  job.CalendarEventID,
		HasQuotePDF:      job.QuotePDFKey != nil && *job.QuotePDFKey != "",
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
}
