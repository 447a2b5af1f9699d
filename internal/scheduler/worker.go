package scheduler

import (
	"context"
	"fmt"

	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/email"
	"appraisal_portal_backend/internal/jobs/repository"
	"appraisal_portal_backend/platform/config"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// AppointmentLayout formats appointment times in customer e-mails.
const AppointmentLayout = "Mon, Jan 2 at 3:04 PM"

// JobReader loads the job a reminder belongs to.
type JobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Job, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders *ReminderHandler
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminders *ReminderHandler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		reminders: reminders,
		log:       log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.reminders.Handle)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// ReminderHandler turns a due reminder task into a reminder e-mail.
type ReminderHandler struct {
	jobs    JobReader
	sender  email.Sender
	catalog *catalog.Catalog
	cfg     config.BusinessConfig
	log     *logger.Logger
}

func NewReminderHandler(jobs JobReader, sender email.Sender, cat *catalog.Catalog, cfg config.BusinessConfig, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{jobs: jobs, sender: sender, catalog: cat, cfg: cfg, log: log}
}

// Handle sends the reminder unless the job was cancelled or completed in
// the meantime.
func (h *ReminderHandler) Handle(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	job, err := h.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	if !job.Status.Open() {
		h.log.Info("reminder skipped", "job_id", jobID, "status", job.Status)
		return nil
	}

	services := make([]string, 0, len(job.Services))
	for _, id := range job.Services {
		services = append(services, h.catalog.Name(id))
	}

	reference := job.ID.String()[:8]
	return h.sender.SendAppointmentReminder(ctx, email.AppointmentReminder{
		ToEmail:         job.CustomerEmail,
		CustomerName:    job.CustomerName,
		JobReference:    reference,
		PropertyAddress: job.PropertyAddress,
		Appointment:     job.ScheduledAt.In(h.cfg.GetBusinessLocation()).Format(AppointmentLayout),
		Services:        services,
	})
}
