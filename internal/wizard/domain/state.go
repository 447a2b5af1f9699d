// Package domain is the quote wizard state machine. Reduce is the only way a
// State changes; it performs no I/O. Results of lookups (prices, busy
// intervals, discount checks, submission) enter as actions.
package domain

import (
	"strings"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
	pricing "appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/internal/properties"
)

// Step is a wizard screen.
type Step int

const (
	StepContact      Step = 1
	StepQuoteDetails Step = 2
	StepAppraisal    Step = 3
	StepReview       Step = 4
	// StepSubmitted is terminal; the caller shows the thank-you view.
	StepSubmitted Step = 5
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepQuoteDetails:
		return "quote_details"
	case StepAppraisal:
		return "appraisal"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	}
	return "unknown"
}

// ReferralOther requires a free-text description.
const ReferralOther = "other"

type IntendedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Appraisal is the appraisal sub-record, only relevant when the appraisal
// service is selected.
type Appraisal struct {
	PropertyType      string         `json:"propertyType"`
	InterestAppraised string         `json:"interestAppraised"`
	IntendedUse       string         `json:"intendedUse"`
	IntendedUseOther  string         `json:"intendedUseOther"`
	IntendedUsers     []IntendedUser `json:"intendedUsers"`
	TypeOfValue       string         `json:"typeOfValue"`
	EffectiveDate     string         `json:"effectiveDate"`
	DateOfValueType   string         `json:"dateOfValueType"`
	ReportOption      string         `json:"reportOption"`
	Notes             string         `json:"notes"`
}

// QuoteFormData is everything the customer has entered.
type QuoteFormData struct {
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Company           string    `json:"company"`
	ReferralSource    string    `json:"referralSource"`
	ReferralOther     string    `json:"referralOther"`
	SelectedServices  []string  `json:"selectedServices"`
	SelectedDate      string    `json:"selectedDate"`
	SelectedTime      string    `json:"selectedTime"`
	UserSquareFootage string    `json:"userSquareFootage"`
	Appraisal         Appraisal `json:"appraisal"`
}

// HasService reports whether id is selected.
func (f QuoteFormData) HasService(id string) bool {
	for _, s := range f.SelectedServices {
		if s == id {
			return true
		}
	}
	return false
}

// AppraisalSelected reports whether the appraisal step applies.
func (f QuoteFormData) AppraisalSelected() bool {
	return f.HasService(catalog.AppraisalID)
}

func (f QuoteFormData) hasContactInput() bool {
	for _, v := range []string{f.FirstName, f.LastName, f.Email, f.Phone, f.Company} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// PriceLine is one priced service as shown on the review step.
type PriceLine struct {
	ServiceID string  `json:"serviceId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
}

// PriceQuote is the last price resolution for the current selection.
type PriceQuote struct {
	Tier                string      `json:"tier"`
	SquareFootage       int         `json:"squareFootage"`
	SquareFootageSource string      `json:"squareFootageSource"`
	Lines               []PriceLine `json:"lines"`
	Subtotal            float64     `json:"subtotal"`
}

// DiscountState tracks the code being typed and the last accepted check.
type DiscountState struct {
	Code       string                `json:"code"`
	Pending    bool                  `json:"pending"`
	Resolution *discounts.Resolution `json:"resolution,omitempty"`
}

// SubmissionOutcome is what the submission workflow reported.
type SubmissionOutcome struct {
	Success         bool     `json:"success"`
	JobID           string   `json:"jobId,omitempty"`
	Total           float64  `json:"total"`
	Message         string   `json:"message"`
	Warnings        []string `json:"warnings,omitempty"`
	CalendarCreated bool     `json:"calendarCreated"`
	EmailSent       bool     `json:"emailSent"`
}

// State is one quote session.
type State struct {
	ID            string                             `json:"id"`
	Step          Step                               `json:"step"`
	Form          QuoteFormData                      `json:"form"`
	Property      properties.PropertyInfo            `json:"property"`
	Errors        map[string]string                  `json:"errors,omitempty"`
	ClosePending  bool                               `json:"closePending"`
	Closed        bool                               `json:"closed"`
	TermsAccepted bool                               `json:"termsAccepted"`
	Submitting    bool                               `json:"submitting"`
	Quote         PriceQuote                         `json:"quote"`
	Discount      DiscountState                      `json:"discount"`
	BusyByDate    map[string][]availability.BusySlot `json:"busyByDate,omitempty"`
	Outcome       *SubmissionOutcome                 `json:"outcome,omitempty"`
	CreatedAt     time.Time                          `json:"createdAt"`
	UpdatedAt     time.Time                          `json:"updatedAt"`
}

// NewState opens a wizard for the property chosen in the search.
func NewState(id string, property properties.PropertyInfo, now time.Time) State {
	return State{
		ID:        id,
		Step:      StepContact,
		Property:  property,
		Form:      QuoteFormData{Appraisal: Appraisal{IntendedUsers: []IntendedUser{}}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether the session accepts no further actions.
func (s State) Terminal() bool {
	return s.Closed || s.Step == StepSubmitted
}

// DiscountAmount is the discount applied to the current subtotal. Only a
// valid resolution for the code currently entered counts.
func (s State) DiscountAmount() float64 {
	r := s.Discount.Resolution
	if r == nil || !r.IsValid || s.Discount.Pending {
		return 0
	}
	if r.Code != discounts.NormalizeCode(s.Discount.Code) {
		return 0
	}
	return r.Amount
}

// Total is the subtotal less the discount.
func (s State) Total() float64 {
	return max(s.Quote.Subtotal-s.DiscountAmount(), 0)
}

// NeedsSquareFootage reports whether the property data is unusable for pricing.
func (s State) NeedsSquareFootage() bool {
	return pricing.NeedsUserSquareFootage(s.Property.SquareFootage)
}

func (s State) clone() State {
	out := s
	out.Form.SelectedServices = append([]string(nil), s.Form.SelectedServices...)
	out.Form.Appraisal.IntendedUsers = append([]IntendedUser(nil), s.Form.Appraisal.IntendedUsers...)
	out.Quote.Lines = append([]PriceLine(nil), s.Quote.Lines...)
	if s.Errors != nil {
		out.Errors = make(map[string]string, len(s.Errors))
		for k, v := range s.Errors {
			out.Errors[k] = v
		}
	}
	if s.BusyByDate != nil {
		out.BusyByDate = make(map[string][]availability.BusySlot, len(s.BusyByDate))
		for k, v := range s.BusyByDate {
			out.BusyByDate[k] = v
		}
	}
	if s.Discount.Resolution != nil {
		r := *s.Discount.Resolution
		out.Discount.Resolution = &r
	}
	if s.Outcome != nil {
		o := *s.Outcome
		o.Warnings = append([]string(nil), s.Outcome.Warnings...)
		out.Outcome = &o
	}
	return out
}

func (s *State) clearErrors(keys ...string) {
	for _, k := range keys {
		delete(s.Errors, k)
	}
	if len(s.Errors) == 0 {
		s.Errors = nil
	}
}
