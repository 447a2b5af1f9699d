package adapters

import (
	"bytes"
	"context"

	"appraisal_portal_backend/internal/adapters/storage"
	"appraisal_portal_backend/internal/submission"

	"github.com/google/uuid"
)

// QuotePDFLinker records where a job's quote PDF was stored.
type QuotePDFLinker interface {
	AttachQuotePDF(ctx context.Context, id uuid.UUID, key string) error
}

// QuoteArchiver uploads quote PDFs to object storage and links them to the job.
type QuoteArchiver struct {
	storage storage.StorageService
	bucket  string
	jobs    QuotePDFLinker
}

func NewQuoteArchiver(storageSvc storage.StorageService, bucket string, jobs QuotePDFLinker) *QuoteArchiver {
	return &QuoteArchiver{storage: storageSvc, bucket: bucket, jobs: jobs}
}

// ArchiveQuotePDF stores the PDF under quotes/<job id>/ and saves the key on the job.
func (a *QuoteArchiver) ArchiveQuotePDF(ctx context.Context, jobID uuid.UUID, fileName string, pdf []byte) error {
	key, err := a.storage.UploadFile(ctx, a.bucket, "quotes/"+jobID.String(), fileName, "application/pdf", bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return err
	}
	return a.jobs.AttachQuotePDF(ctx, jobID, key)
}

// Compile-time check that QuoteArchiver implements submission.Archiver.
var _ submission.Archiver = (*QuoteArchiver)(nil)
