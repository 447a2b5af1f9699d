package service

import (
	"context"
	"testing"
	"time"

	"appraisal_portal_backend/internal/adapters/storage"
	"appraisal_portal_backend/internal/jobs/domain"
	"appraisal_portal_backend/internal/jobs/repository"
	"appraisal_portal_backend/internal/jobs/transport"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	jobs       map[uuid.UUID]repository.Job
	lastList   repository.ListParams
	listResult []repository.Job
	listTotal  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: map[uuid.UUID]repository.Job{}}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return job, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Job, int, error) {
	f.lastList = params
	return f.listResult, f.listTotal, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Job, error) {
	job := repository.Job{ID: uuid.New(), CustomerName: params.CustomerName, Status: domain.StatusPending, Total: params.Total}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.Status) (repository.Job, error) {
	job := f.jobs[id]
	if job.Status != from {
		return repository.Job{}, apperr.Conflict("changed")
	}
	job.Status = to
	f.jobs[id] = job
	return job, nil
}

func (f *fakeRepo) SetCalendarEventID(_ context.Context, id uuid.UUID, eventID string) error {
	job := f.jobs[id]
	job.CalendarEventID = &eventID
	f.jobs[id] = job
	return nil
}

func (f *fakeRepo) SetQuotePDFKey(_ context.Context, id uuid.UUID, key string) error {
	job := f.jobs[id]
	job.QuotePDFKey = &key
	f.jobs[id] = job
	return nil
}

type fakePresigner struct{ bucket, key string }

func (p *fakePresigner) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	p.bucket, p.key = bucket, key
	return &storage.PresignedURL{URL: "https://files.example.com/" + key, FileKey: key, ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.Discard())
	ctx := context.Background()

	job, _ := svc.Create(ctx, repository.CreateParams{CustomerName: "Jane"})

	if _, err := svc.UpdateStatus(ctx, job.ID, "completed"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for pending->completed, got %v", err)
	}

	resp, err := svc.UpdateStatus(ctx, job.ID, "scheduled")
	if err != nil {
		t.Fatalf("pending->scheduled: %v", err)
	}
	if resp.Status != "scheduled" {
		t.Fatalf("expected scheduled, got %s", resp.Status)
	}

	if _, err := svc.UpdateStatus(ctx, job.ID, "scheduled"); err != nil {
		t.Fatalf("same status should be a no-op: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, job.ID, "archived"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPaging(t *testing.T) {
	repo := newFakeRepo()
	repo.listResult = []repository.Job{{ID: uuid.New(), Status: domain.StatusPending}}
	repo.listTotal = 45
	svc := New(repo, logger.Discard())

	resp, err := svc.List(context.Background(), transport.ListJobsRequest{Status: "pending", Page: 3, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastList.Offset != 40 || repo.lastList.Limit != 20 {
		t.Fatalf("unexpected paging %+v", repo.lastList)
	}
	if repo.lastList.Status == nil || *repo.lastList.Status != domain.StatusPending {
		t.Fatal("expected status filter")
	}
	if resp.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", resp.TotalPages)
	}

	resp, _ = svc.List(context.Background(), transport.ListJobsRequest{})
	if resp.Page != 1 || resp.PageSize != defaultPageSize || repo.lastList.Status != nil {
		t.Fatalf("unexpected defaults %+v", resp)
	}
}

func TestQuotePDFURL(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	disabled := New(repo, logger.Discard())
	job, _ := disabled.Create(ctx, repository.CreateParams{})
	if _, err := disabled.QuotePDFURL(ctx, job.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found when archive disabled, got %v", err)
	}

	files := &fakePresigner{}
	svc := New(repo, logger.Discard(), WithQuotePDFs(files, "quote-pdfs"))
	if _, err := svc.QuotePDFURL(ctx, job.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found without archived pdf, got %v", err)
	}

	_ = svc.AttachQuotePDF(ctx, job.ID, "jobs/x/quote.pdf")
	resp, err := svc.QuotePDFURL(ctx, job.ID)
	if err != nil {
		t.Fatalf("quote pdf url: %v", err)
	}
	if files.bucket != "quote-pdfs" || files.key != "jobs/x/quote.pdf" || resp.URL == "" {
		t.Fatalf("unexpected presign call %+v %+v", files, resp)
	}
}
