package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"appraisal_portal_backend/internal/calendar"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
	"appraisal_portal_backend/internal/email"
	jobrepo "appraisal_portal_backend/internal/jobs/repository"
	pricing "appraisal_portal_backend/internal/pricing/domain"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	wizard "appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakePricer struct{}

func (fakePricer) Quote(_ context.Context, ids []string, sqft int) pricingsvc.Quote {
	q := pricingsvc.Quote{Tier: pricing.TierFor(sqft), SquareFootage: sqft}
	for _, id := range ids {
		price := 250.0
		if id == catalog.AppraisalID {
			price = 500
		}
		q.Lines = append(q.Lines, pricingsvc.Line{ServiceID: id, Name: catalog.Default().Name(id), Price: price})
		q.Subtotal += price
	}
	return q
}

type fakeDiscounts struct {
	codes map[string]float64
	calls int
}

func (f *fakeDiscounts) Resolve(_ context.Context, code string, subtotal float64) discounts.Resolution {
	f.calls++
	norm := discounts.NormalizeCode(code)
	pct, ok := f.codes[norm]
	if !ok {
		return discounts.Invalid(norm)
	}
	return discounts.Resolution{
		IsValid: true,
		Code:    norm,
		Type:    discounts.TypePercentage,
		Value:   pct,
		Amount:  discounts.Amount(discounts.TypePercentage, pct, subtotal),
	}
}

type fakeJobs struct {
	mu       sync.Mutex
	err      error
	created  []jobrepo.CreateParams
	eventIDs map[uuid.UUID]string
}

func (f *fakeJobs) Create(_ context.Context, p jobrepo.CreateParams) (jobrepo.Job, error) {
	if f.err != nil {
		return jobrepo.Job{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return jobrepo.Job{ID: uuid.New(), CustomerName: p.CustomerName, Total: p.Total}, nil
}

func (f *fakeJobs) AttachCalendarEvent(_ context.Context, id uuid.UUID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventIDs == nil {
		f.eventIDs = map[uuid.UUID]string{}
	}
	f.eventIDs[id] = eventID
	return nil
}

type fakeCalendar struct {
	err    error
	events []calendar.Event
}

func (f *fakeCalendar) CreateEvent(_ context.Context, e calendar.Event) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, e)
	return "evt-1", nil
}

type fakeNotifier struct {
	err  error
	sent []email.QuoteConfirmation
}

func (f *fakeNotifier) SendQuoteConfirmation(_ context.Context, msg email.QuoteConfirmation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeArchiver struct {
	files []string
}

func (f *fakeArchiver) ArchiveQuotePDF(_ context.Context, _ uuid.UUID, fileName string, pdf []byte) error {
	if len(pdf) == 0 {
		return errors.New("empty pdf")
	}
	f.files = append(f.files, fileName)
	return nil
}

type fakeReminders struct {
	runAt []time.Time
}

func (f *fakeReminders) ScheduleAppointmentReminder(_ context.Context, _ uuid.UUID, runAt time.Time) error {
	f.runAt = append(f.runAt, runAt)
	return nil
}

type harness struct {
	svc       *Service
	discounts *fakeDiscounts
	jobs      *fakeJobs
	calendar  *fakeCalendar
	notifier  *fakeNotifier
	archiver  *fakeArchiver
	reminders *fakeReminders
}

var testLoc = time.FixedZone("EST", -5*3600)

func newHarness() *harness {
	h := &harness{
		discounts: &fakeDiscounts{codes: map[string]float64{"SAVE10": 10}},
		jobs:      &fakeJobs{},
		calendar:  &fakeCalendar{},
		notifier:  &fakeNotifier{},
		archiver:  &fakeArchiver{},
		reminders: &fakeReminders{},
	}
	h.svc = New(Deps{
		Pricer:       fakePricer{},
		Discounts:    h.discounts,
		Jobs:         h.jobs,
		Calendar:     h.calendar,
		Notifier:     h.notifier,
		Archiver:     h.archiver,
		Reminders:    h.reminders,
		Catalog:      catalog.Default(),
		BusinessName: "Garden State Appraisals",
		Location:     testLoc,
		Log:          logger.Discard(),
	})
	h.svc.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, testLoc) }
	return h
}

func validForm() wizard.QuoteFormData {
	return wizard.QuoteFormData{
		FirstName:        "Dana",
		LastName:         "Reyes",
		Email:            "Dana@Example.com ",
		Phone:            "908-232-4500",
		ReferralSource:   "google",
		SelectedServices: []string{catalog.AppraisalID},
		SelectedDate:     "2026-03-10",
		SelectedTime:     "10:00 AM",
		Appraisal: wizard.Appraisal{
			PropertyType:      "Single Family",
			InterestAppraised: "Fee Simple",
			IntendedUse:       "Estate Planning",
			IntendedUsers:     []wizard.IntendedUser{{Name: "Dana Reyes", Email: "dana@example.com"}},
			TypeOfValue:       "Market Value",
			EffectiveDate:     "2026-03-01",
			ReportOption:      "Summary Report",
		},
	}
}

func testProperty() properties.PropertyInfo {
	return properties.PropertyInfo{
		ID:            "p-1",
		Address:       "12 Oak St",
		FullAddress:   "12 Oak St, Montclair, NJ 07042",
		County:        "Essex",
		SquareFootage: 1800,
		YearBuilt:     1931,
		Block:         "101",
		Lot:           "7",
	}
}

func TestSubmitSuccess(t *testing.T) {
	h := newHarness()

	res, err := h.svc.Submit(context.Background(), validForm(), testProperty(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || !res.CalendarCreated || !res.EmailSent {
		t.Fatalf("expected full success, got %+v", res)
	}
	if res.Total != 500 || res.Message != msgSuccess || len(res.Warnings) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	if len(h.jobs.created) != 1 {
		t.Fatalf("expected one job, got %d", len(h.jobs.created))
	}
	job := h.jobs.created[0]
	if job.CustomerEmail != "dana@example.com" || job.CustomerPhone != "+19082324500" {
		t.Fatalf("contact not normalised: %q %q", job.CustomerEmail, job.CustomerPhone)
	}
	if job.PropertyAddress != "12 Oak St, Montclair, NJ 07042" {
		t.Fatalf("unexpected address %q", job.PropertyAddress)
	}
	if want := time.Date(2026, 3, 10, 10, 0, 0, 0, testLoc); !job.ScheduledAt.Equal(want) {
		t.Fatalf("scheduled at %v, want %v", job.ScheduledAt, want)
	}
	if len(job.AppraisalDetails) == 0 {
		t.Fatal("expected appraisal details to be stored")
	}

	if len(h.calendar.events) != 1 || h.calendar.events[0].Duration != 30*time.Minute {
		t.Fatalf("expected one 30 minute event, got %+v", h.calendar.events)
	}
	if h.jobs.eventIDs[uuid.MustParse(res.JobID)] != "evt-1" {
		t.Fatal("expected calendar event to be linked to the job")
	}

	if len(h.notifier.sent) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(h.notifier.sent))
	}
	msg := h.notifier.sent[0]
	if msg.ToEmail != "dana@example.com" || len(msg.Attachments) != 1 {
		t.Fatalf("unexpected confirmation %+v", msg)
	}
	if !strings.HasPrefix(msg.Attachments[0].FileName, "quote-") {
		t.Fatalf("unexpected attachment name %q", msg.Attachments[0].FileName)
	}
	if len(msg.Appraisal) == 0 {
		t.Fatal("expected appraisal details in the confirmation")
	}

	if len(h.archiver.files) != 1 {
		t.Fatal("expected the quote pdf to be archived")
	}
	if len(h.reminders.runAt) != 1 {
		t.Fatal("expected a reminder to be scheduled")
	}
	if want := time.Date(2026, 3, 9, 10, 0, 0, 0, testLoc); !h.reminders.runAt[0].Equal(want) {
		t.Fatalf("reminder at %v, want %v", h.reminders.runAt[0], want)
	}
}

func TestSubmitJobFailureIsHard(t *testing.T) {
	h := newHarness()
	h.jobs.err = errors.New("connection refused")

	res, err := h.svc.Submit(context.Background(), validForm(), testProperty(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Success || res.Message != msgFailed {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(h.calendar.events) != 0 || len(h.notifier.sent) != 0 || len(h.archiver.files) != 0 || len(h.reminders.runAt) != 0 {
		t.Fatal("no follow-up step may run when the job was not created")
	}
}

func TestSubmitRejectsInvalidContact(t *testing.T) {
	h := newHarness()
	form := validForm()
	form.Email = "not-an-email"
	form.LastName = "  "

	_, err := h.svc.Submit(context.Background(), form, testProperty(), "")
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
	if len(h.jobs.created) != 0 {
		t.Fatal("job must not be created")
	}
}

func TestSubmitRejectsMissingServicesAndBadTime(t *testing.T) {
	h := newHarness()

	form := validForm()
	form.SelectedServices = nil
	if _, err := h.svc.Submit(context.Background(), form, testProperty(), ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for no services, got %v", err)
	}

	form = validForm()
	form.SelectedTime = "6:00 PM"
	if _, err := h.svc.Submit(context.Background(), form, testProperty(), ""); err == nil {
		t.Fatal("expected error for off-grid time")
	}
	if len(h.jobs.created) != 0 {
		t.Fatal("job must not be created")
	}
}

func TestSubmitSoftFailuresDegrade(t *testing.T) {
	h := newHarness()
	h.calendar.err = errors.New("calendar down")
	h.notifier.err = errors.New("smtp timeout")

	res, err := h.svc.Submit(context.Background(), validForm(), testProperty(), "")
	if err != nil {
		t.Fatalf("soft failures must not fail the submission: %v", err)
	}
	if !res.Success || res.CalendarCreated || res.EmailSent {
		t.Fatalf("unexpected flags %+v", res)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", res.Warnings)
	}
	if !strings.Contains(res.Message, Reference(uuid.MustParse(res.JobID))) {
		t.Fatalf("degraded message should carry the reference: %q", res.Message)
	}
	if len(h.jobs.created) != 1 {
		t.Fatal("job must still be created")
	}
}

func TestSubmitReResolvesDiscount(t *testing.T) {
	h := newHarness()

	res, err := h.svc.Submit(context.Background(), validForm(), testProperty(), " save10 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.discounts.calls != 1 {
		t.Fatalf("expected one discount lookup, got %d", h.discounts.calls)
	}
	if res.Total != 450 {
		t.Fatalf("expected total 450, got %v", res.Total)
	}
	job := h.jobs.created[0]
	if job.DiscountCode == nil || *job.DiscountCode != "SAVE10" || job.DiscountAmount != 50 {
		t.Fatalf("unexpected discount on job: %v %v", job.DiscountCode, job.DiscountAmount)
	}
}

func TestSubmitIgnoresUnknownDiscount(t *testing.T) {
	h := newHarness()

	res, err := h.svc.Submit(context.Background(), validForm(), testProperty(), "BOGUS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 500 || h.jobs.created[0].DiscountCode != nil {
		t.Fatalf("unknown code must not discount: %+v", res)
	}
}

func TestSubmitSkipsReminderForSoonAppointment(t *testing.T) {
	h := newHarness()
	form := validForm()
	form.SelectedDate = "2026-03-02"
	form.SelectedTime = "3:00 PM"

	if _, err := h.svc.Submit(context.Background(), form, testProperty(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.reminders.runAt) != 0 {
		t.Fatal("reminder time already passed; nothing should be scheduled")
	}
}

func TestBuildDescription(t *testing.T) {
	a := validForm().Appraisal
	a.IntendedUse = wizard.IntendedUseOther
	a.IntendedUseOther = "Divorce settlement"

	desc := BuildDescription(DescriptionInput{
		Contact:        "Dana Reyes",
		Email:          "dana@example.com",
		Company:        "Reyes Realty",
		ReferralSource: "Other: neighbour",
		Lines: []pricingsvc.Line{
			{Name: "Appraisal", Price: 500},
			{Name: "Drone Photography", Price: 1250.5},
		},
		Subtotal:       1750.5,
		DiscountCode:   "SAVE10",
		DiscountAmount: 175,
		Total:          1575.5,
		Appointment:    time.Date(2026, 3, 10, 14, 30, 0, 0, testLoc),
		SquareFootage:  2500,
		SqftSource:     pricing.SourceDefault,
		Appraisal:      &a,
		Property:       testProperty(),
	})

	for _, want := range []string{
		"- Appraisal: $500.00",
		"- Drone Photography: $1,250.50",
		"Subtotal: $1,750.50",
		"Discount (SAVE10): -$175.00",
		"Total: $1,575.50",
		"Appointment: Tuesday, March 10, 2026 at 2:30 PM",
		"Square footage: 2,500 (default, not verified)",
		"Company: Reyes Realty",
		"Referral source: Other: neighbour",
		"Appraisal Details:",
		"Intended use: Other (Divorce settlement)",
		"Intended users: Dana Reyes <dana@example.com>",
		"Parcel: Block 101, Lot 7",
		"Year built: 1931",
	} {
		if !strings.Contains(desc, want) {
			t.Errorf("description missing %q\n%s", want, desc)
		}
	}
	if strings.Contains(desc, "Notes:") {
		t.Error("empty fields must be skipped")
	}
}

func TestBuildDescriptionWithoutAppraisalOrDiscount(t *testing.T) {
	desc := BuildDescription(DescriptionInput{
		Contact:    "Dana Reyes",
		Lines:      []pricingsvc.Line{{Name: "Basic Photography", Price: 150}},
		Subtotal:   150,
		Total:      150,
		SqftSource: pricing.SourceProperty,
	})
	if strings.Contains(desc, "Appraisal Details") || strings.Contains(desc, "Discount") {
		t.Fatalf("unexpected sections:\n%s", desc)
	}
	if !strings.Contains(desc, "(property records)") {
		t.Fatalf("missing square footage source:\n%s", desc)
	}
}
