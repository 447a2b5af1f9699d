// Package submission turns a completed quote wizard into a job. Creating the
// job is the only step that can fail the submission; calendar, e-mail, PDF
// archive and reminder are attempted afterwards and only produce warnings.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/calendar"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
	"appraisal_portal_backend/internal/email"
	jobs "appraisal_portal_backend/internal/jobs/domain"
	jobrepo "appraisal_portal_backend/internal/jobs/repository"
	pricing "appraisal_portal_backend/internal/pricing/domain"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	"appraisal_portal_backend/internal/quotepdf"
	"appraisal_portal_backend/internal/scheduler"
	wizard "appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"
	"appraisal_portal_backend/platform/phone"
	"appraisal_portal_backend/platform/sanitize"
	"appraisal_portal_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	msgSuccess  = "Thank you! Your request has been received and a confirmation email is on its way."
	msgDegraded = "Your request has been received (reference %s), but we could not complete every step. Our office will contact you to confirm your appointment."
	msgFailed   = "We could not save your request. Please try again in a few minutes or call our office."

	warnCalendar = "calendar event could not be created"
	warnEmail    = "confirmation email could not be sent"
	warnPDF      = "quote summary PDF could not be generated"
	warnArchive  = "quote summary PDF could not be archived"
	warnReminder = "appointment reminder could not be scheduled"
)

// Pricer prices the selected services.
type Pricer interface {
	Quote(ctx context.Context, serviceIDs []string, sqft int) pricingsvc.Quote
}

// DiscountResolver re-checks the discount code at submission time.
type DiscountResolver interface {
	Resolve(ctx context.Context, code string, subtotal float64) discounts.Resolution
}

// JobStore creates jobs and records what happened after creation.
type JobStore interface {
	Create(ctx context.Context, params jobrepo.CreateParams) (jobrepo.Job, error)
	AttachCalendarEvent(ctx context.Context, id uuid.UUID, eventID string) error
}

type CalendarCreator interface {
	CreateEvent(ctx context.Context, event calendar.Event) (string, error)
}

type Notifier interface {
	SendQuoteConfirmation(ctx context.Context, msg email.QuoteConfirmation) error
}

// Archiver stores the quote PDF with the job.
type Archiver interface {
	ArchiveQuotePDF(ctx context.Context, jobID uuid.UUID, fileName string, pdf []byte) error
}

// Result is what the customer is told after submitting.
type Result struct {
	Success         bool     `json:"success"`
	JobID           string   `json:"jobId,omitempty"`
	Total           float64  `json:"total"`
	Message         string   `json:"message"`
	Warnings        []string `json:"warnings,omitempty"`
	CalendarCreated bool     `json:"calendarCreated"`
	EmailSent       bool     `json:"emailSent"`
}

// Deps wires the submission workflow. Archiver and Reminders are optional.
type Deps struct {
	Pricer       Pricer
	Discounts    DiscountResolver
	Jobs         JobStore
	Calendar     CalendarCreator
	Notifier     Notifier
	Archiver     Archiver
	Reminders    scheduler.ReminderScheduler
	Catalog      *catalog.Catalog
	BusinessName string
	Location     *time.Location
	Log          *logger.Logger
}

type Service struct {
	deps Deps
	now  func() time.Time
}

func New(deps Deps) *Service {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &Service{deps: deps, now: time.Now}
}

// contact is the normalised client.
type contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
}

func (c contact) fullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// priced is the final price calculation.
type priced struct {
	quote         pricingsvc.Quote
	sqftSource    pricing.SquareFootageSource
	discount      discounts.Resolution
	discountTotal float64
	total         float64
}

// Submit runs the workflow once. The returned error is set only for hard
// failures, in which case nothing was created.
func (s *Service) Submit(ctx context.Context, form wizard.QuoteFormData, property properties.PropertyInfo, discountCode string) (Result, error) {
	log := s.deps.Log.WithContext(ctx)

	c, err := normalizeContact(form)
	if err != nil {
		return Result{Message: err.Error()}, err
	}
	// The wizard has already checked services and appointment. No job can
	// be created without them, so they stop the submission like the contact.
	if len(form.SelectedServices) == 0 {
		err := apperr.Validation("select at least one service")
		return Result{Message: err.Error()}, err
	}
	appointment, err := s.appointmentTime(form)
	if err != nil {
		return Result{Message: err.Error()}, err
	}

	p := s.price(ctx, form, property, discountCode)
	description := BuildDescription(DescriptionInput{
		Contact:        c.fullName(),
		Email:          c.Email,
		Phone:          phone.Display(c.Phone),
		Company:        c.Company,
		ReferralSource: referral(form),
		Lines:          p.quote.Lines,
		Subtotal:       p.quote.Subtotal,
		DiscountCode:   appliedCode(p.discount),
		DiscountAmount: p.discountTotal,
		Total:          p.total,
		Appointment:    appointment,
		SquareFootage:  p.quote.SquareFootage,
		SqftSource:     p.sqftSource,
		Appraisal:      appraisalFor(form),
		Property:       property,
	})

	params := jobrepo.CreateParams{
		CustomerName:    c.fullName(),
		CustomerEmail:   c.Email,
		CustomerPhone:   c.Phone,
		PropertyAddress: addressOf(property),
		ServiceType:     jobs.ServiceTypeFor(form.SelectedServices),
		Services:        form.SelectedServices,
		ScheduledAt:     appointment,
		SquareFootage:   p.quote.SquareFootage,
		Subtotal:        p.quote.Subtotal,
		DiscountAmount:  p.discountTotal,
		Total:           p.total,
		Description:     description,
	}
	if c.Company != "" {
		params.Company = &c.Company
	}
	if code := appliedCode(p.discount); code != "" {
		params.DiscountCode = &code
	}
	if a := appraisalFor(form); a != nil {
		if data, err := json.Marshal(a); err == nil {
			params.AppraisalDetails = data
		}
	}

	job, err := s.deps.Jobs.Create(ctx, params)
	if err != nil {
		log.Error("job creation failed", "error", err)
		return Result{Message: msgFailed}, fmt.Errorf("create job: %w", err)
	}

	result := Result{Success: true, JobID: job.ID.String(), Total: p.total}
	jobID := job.ID.String()
	reference := Reference(job.ID)

	summary := quotepdf.Summary{
		Reference:       reference,
		BusinessName:    s.deps.BusinessName,
		CustomerName:    c.fullName(),
		CustomerEmail:   c.Email,
		CustomerPhone:   phone.Display(c.Phone),
		PropertyAddress: params.PropertyAddress,
		Appointment:     appointment.Format(scheduler.AppointmentLayout),
		SquareFootage:   p.quote.SquareFootage,
		Subtotal:        p.quote.Subtotal,
		DiscountCode:    appliedCode(p.discount),
		DiscountAmount:  p.discountTotal,
		Total:           p.total,
		GeneratedAt:     s.now().In(s.deps.Location),
	}
	for _, l := range p.quote.Lines {
		summary.Lines = append(summary.Lines, quotepdf.Line{Name: l.Name, Price: l.Price})
	}
	for _, d := range appraisalDetails(appraisalFor(form)) {
		summary.Appraisal = append(summary.Appraisal, quotepdf.Detail{Label: d.label, Value: d.value})
	}

	pdf, pdfErr := quotepdf.Render(summary)
	if pdfErr != nil {
		log.SoftFailure("quote_pdf", jobID, pdfErr)
		result.Warnings = append(result.Warnings, warnPDF)
	}

	var wg sync.WaitGroup
	var calendarErr, emailErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		calendarErr = s.createCalendarEvent(ctx, job.ID, c, params, description)
	}()
	go func() {
		defer wg.Done()
		emailErr = s.sendConfirmation(ctx, c, reference, summary, pdf)
	}()
	wg.Wait()

	result.CalendarCreated = calendarErr == nil
	result.EmailSent = emailErr == nil
	if calendarErr != nil {
		log.SoftFailure("calendar_event", jobID, calendarErr)
		result.Warnings = append(result.Warnings, warnCalendar)
	}
	if emailErr != nil {
		log.SoftFailure("confirmation_email", jobID, emailErr)
		result.Warnings = append(result.Warnings, warnEmail)
	}

	if pdf != nil && s.deps.Archiver != nil {
		if err := s.deps.Archiver.ArchiveQuotePDF(ctx, job.ID, quotepdf.FileName(reference), pdf); err != nil {
			log.SoftFailure("quote_pdf_archive", jobID, err)
			result.Warnings = append(result.Warnings, warnArchive)
		}
	}

	if s.deps.Reminders != nil {
		if runAt, ok := scheduler.ReminderTime(appointment, s.now()); ok {
			if err := s.deps.Reminders.ScheduleAppointmentReminder(ctx, job.ID, runAt); err != nil {
				log.SoftFailure("appointment_reminder", jobID, err)
				result.Warnings = append(result.Warnings, warnReminder)
			}
		}
	}

	if len(result.Warnings) == 0 {
		result.Message = msgSuccess
	} else {
		result.Message = fmt.Sprintf(msgDegraded, reference)
	}
	log.Info("quote submitted", "job_id", jobID, "total", p.total, "warnings", len(result.Warnings))
	return result, nil
}

// Reference is the short job reference shown to customers.
func Reference(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func (s *Service) price(ctx context.Context, form wizard.QuoteFormData, property properties.PropertyInfo, code string) priced {
	sqft, source := pricing.ResolveSquareFootage(property.SquareFootage, form.UserSquareFootage)
	quote := s.deps.Pricer.Quote(ctx, form.SelectedServices, sqft)

	p := priced{quote: quote, sqftSource: source}
	if discounts.NormalizeCode(code) != "" {
		p.discount = s.deps.Discounts.Resolve(ctx, code, quote.Subtotal)
		if p.discount.IsValid {
			p.discountTotal = p.discount.Amount
		}
	}
	p.total = max(quote.Subtotal-p.discountTotal, 0)
	return p
}

func (s *Service) appointmentTime(form wizard.QuoteFormData) (time.Time, error) {
	date, err := availability.ParseDate(form.SelectedDate, s.deps.Location)
	if err != nil {
		return time.Time{}, apperr.InvalidFields("appointment is invalid", apperr.FieldErrors{"date": "invalid date"})
	}
	start, err := availability.SlotStart(date, form.SelectedTime)
	if err != nil {
		return time.Time{}, apperr.InvalidFields("appointment is invalid", apperr.FieldErrors{"time": "invalid time"})
	}
	return start, nil
}

func (s *Service) createCalendarEvent(ctx context.Context, jobID uuid.UUID, c contact, params jobrepo.CreateParams, description string) error {
	names := make([]string, 0, len(params.Services))
	for _, id := range params.Services {
		names = append(names, s.deps.Catalog.Name(id))
	}
	eventID, err := s.deps.Calendar.CreateEvent(ctx, calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", c.fullName(), strings.Join(names, ", ")),
		Description: fmt.Sprintf("Client: %s <%s>\n\n%s", c.fullName(), c.Email, description),
		Location:    params.PropertyAddress,
		Start:       params.ScheduledAt,
		Duration:    availability.SlotDuration,
	})
	if err != nil {
		return err
	}
	if eventID == "" {
		return nil
	}
	// The event exists; failing to link it is logged but does not count as
	// a failed calendar step.
	if err := s.deps.Jobs.AttachCalendarEvent(ctx, jobID, eventID); err != nil {
		s.deps.Log.WithContext(ctx).SoftFailure("link_calendar_event", jobID.String(), err)
	}
	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, c contact, reference string, summary quotepdf.Summary, pdf []byte) error {
	msg := email.QuoteConfirmation{
		ToEmail:         c.Email,
		CustomerName:    c.FirstName,
		JobReference:    reference,
		PropertyAddress: summary.PropertyAddress,
		Appointment:     summary.Appointment,
		Subtotal:        summary.Subtotal,
		DiscountCode:    summary.DiscountCode,
		DiscountAmount:  summary.DiscountAmount,
		Total:           summary.Total,
	}
	for _, l := range summary.Lines {
		msg.Lines = append(msg.Lines, email.PriceLine{Name: l.Name, Price: l.Price})
	}
	for _, d := range summary.Appraisal {
		msg.Appraisal = append(msg.Appraisal, email.Detail{Label: d.Label, Value: d.Value})
	}
	if pdf != nil {
		msg.Attachments = []email.Attachment{{
			Content:  bytes.Clone(pdf),
			FileName: quotepdf.FileName(reference),
			MIMEType: "application/pdf",
		}}
	}
	return s.deps.Notifier.SendQuoteConfirmation(ctx, msg)
}

// normalizeContact trims and validates the client. Only the name and email
// are hard requirements at this point.
func normalizeContact(form wizard.QuoteFormData) (contact, error) {
	c := contact{
		FirstName: sanitize.Line(form.FirstName),
		LastName:  sanitize.Line(form.LastName),
		Email:     strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:     phone.NormalizeE164(form.Phone),
		Company:   sanitize.Line(form.Company),
	}

	fields := apperr.FieldErrors{}
	if c.FirstName == "" {
		fields["firstName"] = "required"
	}
	if c.LastName == "" {
		fields["lastName"] = "required"
	}
	if !validator.IsEmail(c.Email) {
		fields["email"] = "invalid email"
	}
	if len(fields) > 0 {
		return contact{}, apperr.InvalidFields("contact details are invalid", fields)
	}
	return c, nil
}

func appliedCode(r discounts.Resolution) string {
	if !r.IsValid {
		return ""
	}
	return r.Code
}

func referral(form wizard.QuoteFormData) string {
	if strings.EqualFold(form.ReferralSource, wizard.ReferralOther) && form.ReferralOther != "" {
		return "Other: " + sanitize.Line(form.ReferralOther)
	}
	return sanitize.Line(form.ReferralSource)
}

func addressOf(p properties.PropertyInfo) string {
	if p.FullAddress != "" {
		return p.FullAddress
	}
	return p.Address
}

func appraisalFor(form wizard.QuoteFormData) *wizard.Appraisal {
	if !form.AppraisalSelected() {
		return nil
	}
	a := form.Appraisal
	a.Notes = sanitize.Text(a.Notes)
	return &a
}
