package domain

import (
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// MergeContact updates the contact step. Nil fields are left alone.
type MergeContact struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Company        *string
	ReferralSource *string
	ReferralOther  *string
}

// ToggleService selects or deselects a service. Unknown ids are ignored.
type ToggleService struct {
	ServiceID string
	Catalog   *catalog.Catalog
}

// SelectDate picks a YYYY-MM-DD date. Changing the date clears the time.
type SelectDate struct {
	Date string
}

type SelectTime struct {
	Time string
}

// SetSquareFootage records the user's living area entry.
type SetSquareFootage struct {
	Value string
}

// UpdateAppraisal merges appraisal fields. Today is needed to derive the
// date-of-value type.
type UpdateAppraisal struct {
	PropertyType      *string
	InterestAppraised *string
	IntendedUse       *string
	IntendedUseOther  *string
	TypeOfValue       *string
	EffectiveDate     *string
	ReportOption      *string
	Notes             *string
	Today             time.Time
}

type AddIntendedUser struct{}

type RemoveIntendedUser struct {
	Index int
}

type UpdateIntendedUser struct {
	Index int
	Name  *string
	Email *string
}

// Next validates the current step and advances when it passes.
type Next struct {
	Today time.Time
}

type Back struct{}

// GoToStep jumps back to an earlier step.
type GoToStep struct {
	Step Step
}

// SetDiscountCode records the code as typed; a lookup is now pending.
type SetDiscountCode struct {
	Code string
}

// DiscountResolved carries a finished lookup. It is dropped unless it is for
// the code currently entered.
type DiscountResolved struct {
	Resolution discounts.Resolution
}

type AcceptTerms struct {
	Accepted bool
}

type RequestClose struct{}

type ConfirmClose struct{}

type CancelClose struct{}

// PricesResolved replaces the quote after a price lookup.
type PricesResolved struct {
	Quote PriceQuote
}

// BusyResolved stores the busy intervals of one date.
type BusyResolved struct {
	Date string
	Busy []availability.BusySlot
}

// SubmitStarted validates the whole form and marks the submission in flight.
type SubmitStarted struct {
	Today time.Time
}

type SubmitFinished struct {
	Outcome SubmissionOutcome
}

func (MergeContact) isAction()       {}
func (ToggleService) isAction()      {}
func (SelectDate) isAction()         {}
func (SelectTime) isAction()         {}
func (SetSquareFootage) isAction()   {}
func (UpdateAppraisal) isAction()    {}
func (AddIntendedUser) isAction()    {}
func (RemoveIntendedUser) isAction() {}
func (UpdateIntendedUser) isAction() {}
func (Next) isAction()               {}
func (Back) isAction()               {}
func (GoToStep) isAction()           {}
func (SetDiscountCode) isAction()    {}
func (DiscountResolved) isAction()   {}
func (AcceptTerms) isAction()        {}
func (RequestClose) isAction()       {}
func (ConfirmClose) isAction()       {}
func (CancelClose) isAction()        {}
func (PricesResolved) isAction()     {}
func (BusyResolved) isAction()       {}
func (SubmitStarted) isAction()      {}
func (SubmitFinished) isAction()     {}
