package domain

import (
	"strings"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
)

// Reduce applies a to s and returns the new state. s is not modified.
// Closed and submitted sessions ignore every action; while a submission is
// in flight only its result is accepted.
func Reduce(s State, a Action) State {
	if s.Terminal() {
		return s
	}
	if _, finished := a.(SubmitFinished); s.Submitting && !finished {
		return s
	}
	next := s.clone()

	switch a := a.(type) {
	case MergeContact:
		mergeContact(&next, a)
	case ToggleService:
		if a.Catalog == nil || !a.Catalog.Has(a.ServiceID) {
			return s
		}
		next.Form.SelectedServices = toggleService(next.Form.SelectedServices, a.ServiceID, a.Catalog)
		next.clearErrors("services")
	case SelectDate:
		date := strings.TrimSpace(a.Date)
		if date != next.Form.SelectedDate {
			next.Form.SelectedDate = date
			next.Form.SelectedTime = ""
		}
		next.clearErrors("date", "time")
	case SelectTime:
		next.Form.SelectedTime = strings.TrimSpace(a.Time)
		next.clearErrors("time")
	case SetSquareFootage:
		next.Form.UserSquareFootage = strings.TrimSpace(a.Value)
		next.clearErrors("squareFootage")
	case UpdateAppraisal:
		updateAppraisal(&next, a)
	case AddIntendedUser:
		if len(next.Form.Appraisal.IntendedUsers) < MaxIntendedUsers {
			next.Form.Appraisal.IntendedUsers = append(next.Form.Appraisal.IntendedUsers, IntendedUser{})
		}
	case RemoveIntendedUser:
		// Entry 0 is the client and cannot be removed.
		users := next.Form.Appraisal.IntendedUsers
		if a.Index >= 1 && a.Index < len(users) {
			next.Form.Appraisal.IntendedUsers = append(users[:a.Index], users[a.Index+1:]...)
			next.clearIntendedUserErrors()
		}
	case UpdateIntendedUser:
		users := next.Form.Appraisal.IntendedUsers
		if a.Index >= 0 && a.Index < len(users) {
			if a.Name != nil {
				users[a.Index].Name = strings.TrimSpace(*a.Name)
			}
			if a.Email != nil {
				users[a.Index].Email = strings.TrimSpace(*a.Email)
			}
			next.clearErrors(intendedUserKey(a.Index, "name"), intendedUserKey(a.Index, "email"))
		}
	case Next:
		advance(&next, a)
	case Back:
		next.Step = previousStep(next.Step, next.Form.AppraisalSelected())
		next.Errors = nil
		if next.Step == StepAppraisal {
			seedIntendedUsers(&next.Form)
		}
	case GoToStep:
		if canJumpTo(next, a.Step) {
			next.Step = a.Step
			next.Errors = nil
			if next.Step == StepAppraisal {
				seedIntendedUsers(&next.Form)
			}
		}
	case SetDiscountCode:
		next.Discount = DiscountState{
			Code:    strings.TrimSpace(a.Code),
			Pending: discounts.NormalizeCode(a.Code) != "",
		}
	case DiscountResolved:
		if discounts.NormalizeCode(a.Resolution.Code) != discounts.NormalizeCode(next.Discount.Code) {
			return s
		}
		r := a.Resolution
		next.Discount.Resolution = &r
		next.Discount.Pending = false
		// The lookup ran against an earlier subtotal.
		rescaleDiscount(&next)
	case AcceptTerms:
		next.TermsAccepted = a.Accepted
		next.clearErrors("terms")
	case RequestClose:
		if next.Step == StepContact && !next.Form.hasContactInput() {
			next.Closed = true
		} else {
			next.ClosePending = true
		}
	case ConfirmClose:
		if next.ClosePending {
			next.ClosePending = false
			next.Closed = true
		}
	case CancelClose:
		next.ClosePending = false
	case PricesResolved:
		next.Quote = a.Quote
		next.Quote.Lines = append([]PriceLine(nil), a.Quote.Lines...)
		rescaleDiscount(&next)
	case BusyResolved:
		if next.BusyByDate == nil {
			next.BusyByDate = map[string][]availability.BusySlot{}
		}
		next.BusyByDate[a.Date] = a.Busy
	case SubmitStarted:
		if next.Submitting {
			return s
		}
		if next.Form.AppraisalSelected() {
			enterAppraisal(&next, a.Today)
		}
		errs := ValidateForSubmit(next, a.Today)
		next.Errors = errs
		if len(errs) > 0 {
			next.Step = firstStepWithErrors(errs, next.Step)
			return next
		}
		next.Submitting = true
		next.Outcome = nil
	case SubmitFinished:
		next.Submitting = false
		outcome := a.Outcome
		next.Outcome = &outcome
		if outcome.Success {
			next.Step = StepSubmitted
			next.Errors = nil
		} else {
			next.Errors = map[string]string{"submit": outcome.Message}
		}
	default:
		return s
	}

	return next
}

func mergeContact(s *State, a MergeContact) {
	set := func(dst *string, v *string, key string) {
		if v == nil {
			return
		}
		*dst = strings.TrimSpace(*v)
		s.clearErrors(key)
	}
	set(&s.Form.FirstName, a.FirstName, "firstName")
	set(&s.Form.LastName, a.LastName, "lastName")
	set(&s.Form.Email, a.Email, "email")
	set(&s.Form.Phone, a.Phone, "phone")
	set(&s.Form.Company, a.Company, "company")
	set(&s.Form.ReferralSource, a.ReferralSource, "referralSource")
	set(&s.Form.ReferralOther, a.ReferralOther, "referralOther")
}

// toggleService applies the selection rules: a package replaces every other
// package and all individual services, an individual service removes any
// package, appraisal combines with anything. Selecting a chosen service
// deselects it.
func toggleService(selected []string, serviceID string, cat *catalog.Catalog) []string {
	for i, id := range selected {
		if id == serviceID {
			return append(selected[:i], selected[i+1:]...)
		}
	}

	kind := cat.KindOf(serviceID)
	out := make([]string, 0, len(selected)+1)
	for _, id := range selected {
		switch {
		case kind == catalog.KindPackage && cat.KindOf(id) != catalog.KindAppraisal:
			continue
		case kind == catalog.KindIndividual && cat.KindOf(id) == catalog.KindPackage:
			continue
		}
		out = append(out, id)
	}
	return append(out, serviceID)
}

func updateAppraisal(s *State, a UpdateAppraisal) {
	ap := &s.Form.Appraisal
	set := func(dst *string, v *string, key string) {
		if v == nil {
			return
		}
		*dst = strings.TrimSpace(*v)
		s.clearErrors("appraisal." + key)
	}
	set(&ap.PropertyType, a.PropertyType, "propertyType")
	set(&ap.InterestAppraised, a.InterestAppraised, "interestAppraised")
	set(&ap.IntendedUse, a.IntendedUse, "intendedUse")
	set(&ap.IntendedUseOther, a.IntendedUseOther, "intendedUseOther")
	set(&ap.TypeOfValue, a.TypeOfValue, "typeOfValue")
	set(&ap.EffectiveDate, a.EffectiveDate, "effectiveDate")
	set(&ap.ReportOption, a.ReportOption, "reportOption")
	set(&ap.Notes, a.Notes, "notes")
	if a.EffectiveDate != nil {
		ap.DateOfValueType = DateOfValueType(ap.EffectiveDate, a.Today)
	}
}

func (s *State) clearIntendedUserErrors() {
	for k := range s.Errors {
		if strings.HasPrefix(k, "appraisal.intendedUsers") {
			delete(s.Errors, k)
		}
	}
	if len(s.Errors) == 0 {
		s.Errors = nil
	}
}

func advance(s *State, a Next) {
	errs := ValidateStep(*s, s.Step, a.Today)
	if len(errs) > 0 {
		s.Errors = errs
		return
	}
	s.Errors = nil

	to := nextStep(s.Step, s.Form.AppraisalSelected())
	if to == StepAppraisal {
		enterAppraisal(s, a.Today)
	}
	s.Step = to
}

// enterAppraisal prepares the appraisal sub-form: the client becomes intended
// user 0 unless that entry was already filled in.
func enterAppraisal(s *State, today time.Time) {
	seedIntendedUsers(&s.Form)
	s.Form.Appraisal.DateOfValueType = DateOfValueType(s.Form.Appraisal.EffectiveDate, today)
}

// nextStep skips the appraisal step when appraisal is not selected. The
// review step has no Next; submission moves on from there.
func nextStep(step Step, appraisal bool) Step {
	switch step {
	case StepContact:
		return StepQuoteDetails
	case StepQuoteDetails:
		if appraisal {
			return StepAppraisal
		}
		return StepReview
	case StepAppraisal:
		return StepReview
	}
	return step
}

func previousStep(step Step, appraisal bool) Step {
	switch step {
	case StepQuoteDetails:
		return StepContact
	case StepAppraisal:
		return StepQuoteDetails
	case StepReview:
		if appraisal {
			return StepAppraisal
		}
		return StepQuoteDetails
	}
	return step
}

// canJumpTo allows only backward jumps to steps that apply to the selection.
func canJumpTo(s State, to Step) bool {
	if to < StepContact || to >= s.Step || s.Step == StepSubmitted {
		return false
	}
	if to == StepAppraisal && !s.Form.AppraisalSelected() {
		return false
	}
	return true
}

// rescaleDiscount recomputes a valid discount against a new subtotal so the
// cap keeps holding without another lookup.
func rescaleDiscount(s *State) {
	r := s.Discount.Resolution
	if r == nil || !r.IsValid {
		return
	}
	r.Amount = discounts.Amount(r.Type, r.Value, s.Quote.Subtotal)
}

func firstStepWithErrors(errs map[string]string, current Step) Step {
	first := current
	for key := range errs {
		if step := stepOfField(key); step < first {
			first = step
		}
	}
	return first
}
