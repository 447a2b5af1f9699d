package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/email"
	"appraisal_portal_backend/internal/jobs/domain"
	"appraisal_portal_backend/internal/jobs/repository"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeJobs map[uuid.UUID]repository.Job

func (f fakeJobs) GetByID(_ context.Context, id uuid.UUID) (repository.Job, error) {
	job, ok := f[id]
	if !ok {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return job, nil
}

type recordingSender struct {
	email.NoopSender
	reminders []email.AppointmentReminder
}

func (r *recordingSender) SendAppointmentReminder(_ context.Context, msg email.AppointmentReminder) error {
	r.reminders = append(r.reminders, msg)
	return nil
}

type businessConfig struct{ loc *time.Location }

func (b businessConfig) GetBusinessName() string             { return "Biz" }
func (b businessConfig) GetBusinessLocation() *time.Location { return b.loc }
func (b businessConfig) GetAppBaseURL() string               { return "" }

func reminderTask(t *testing.T, id uuid.UUID) *asynq.Task {
	t.Helper()
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{JobID: id.String()})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestReminderHandlerSendsForOpenJob(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	id := uuid.New()
	jobs := fakeJobs{id: {
		ID:              id,
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		PropertyAddress: "18 Maple Ave",
		Services:        []string{"drone-photography"},
		ScheduledAt:     time.Date(2026, 5, 14, 18, 30, 0, 0, time.UTC),
		Status:          domain.StatusPending,
	}}
	sender := &recordingSender{}
	h := NewReminderHandler(jobs, sender, catalog.Default(), businessConfig{loc: loc}, logger.Discard())

	if err := h.Handle(context.Background(), reminderTask(t, id)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.reminders) != 1 {
		t.Fatalf("expected one reminder, got %d", len(sender.reminders))
	}
	got := sender.reminders[0]
	if got.Appointment != "Thu, May 14 at 2:30 PM" {
		t.Fatalf("unexpected appointment %q", got.Appointment)
	}
	if len(got.Services) != 1 || got.Services[0] != "Drone Photography" {
		t.Fatalf("unexpected services %v", got.Services)
	}
}

func TestReminderHandlerSkipsClosedJob(t *testing.T) {
	id := uuid.New()
	jobs := fakeJobs{id: {ID: id, Status: domain.StatusCancelled}}
	sender := &recordingSender{}
	h := NewReminderHandler(jobs, sender, catalog.Default(), businessConfig{loc: time.UTC}, logger.Discard())

	if err := h.Handle(context.Background(), reminderTask(t, id)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.reminders) != 0 {
		t.Fatal("expected no reminder for a cancelled job")
	}
}

func TestReminderHandlerBadPayloadSkipsRetry(t *testing.T) {
	h := NewReminderHandler(fakeJobs{}, &recordingSender{}, catalog.Default(), businessConfig{loc: time.UTC}, logger.Discard())
	err := h.Handle(context.Background(), asynq.NewTask(TaskAppointmentReminder, []byte(`{"jobId":"nope"}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestReminderTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	runAt, ok := ReminderTime(now.Add(72*time.Hour), now)
	if !ok || !runAt.Equal(now.Add(48*time.Hour)) {
		t.Fatalf("unexpected reminder time %v %v", runAt, ok)
	}

	if _, ok := ReminderTime(now.Add(10*time.Hour), now); ok {
		t.Fatal("expected no reminder for an appointment within 24h")
	}
}
