package domain

import (
	"fmt"
	"strings"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	pricing "appraisal_portal_backend/internal/pricing/domain"
	"appraisal_portal_backend/platform/phone"
	"appraisal_portal_backend/platform/validator"
)

// Field error messages shown next to the inputs.
const (
	msgRequired      = "This field is required"
	msgInvalidEmail  = "Please enter a valid email address"
	msgInvalidPhone  = "Please enter a valid phone number"
	msgNoService     = "Please select at least one service"
	msgNoDate        = "Please select a date"
	msgNoTime        = "Please select a time"
	msgDateRange     = "Please choose a date between today and one month from today"
	msgTimeOffGrid   = "Please choose one of the available times"
	msgTimeTaken     = "This time is no longer available, please choose another"
	msgSquareFootage = "Please enter the living area (at least 200 sq ft)"
	msgReportOption  = "Please select a report option"
	msgTooManyUsers  = "At most 5 intended users can be listed"
	msgTermsRequired = "Please accept the terms and conditions"
	msgEffectiveDate = "Please enter a valid date"
)

// ValidateStep checks the fields of one step. today is midnight in the
// business time zone. An empty result means the step passes.
func ValidateStep(s State, step Step, today time.Time) map[string]string {
	errs := map[string]string{}
	switch step {
	case StepContact:
		validateContact(s.Form, errs)
	case StepQuoteDetails:
		validateQuoteDetails(s, today, errs)
	case StepAppraisal:
		validateAppraisal(s.Form.Appraisal, errs)
	case StepReview:
		if !s.TermsAccepted {
			errs["terms"] = msgTermsRequired
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateForSubmit checks every step that applies to the selection.
func ValidateForSubmit(s State, today time.Time) map[string]string {
	steps := []Step{StepContact, StepQuoteDetails}
	if s.Form.AppraisalSelected() {
		steps = append(steps, StepAppraisal)
	}
	steps = append(steps, StepReview)

	all := map[string]string{}
	for _, step := range steps {
		for k, v := range ValidateStep(s, step, today) {
			all[k] = v
		}
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

func validateContact(f QuoteFormData, errs map[string]string) {
	if f.FirstName == "" {
		errs["firstName"] = msgRequired
	}
	if f.LastName == "" {
		errs["lastName"] = msgRequired
	}
	switch {
	case f.Email == "":
		errs["email"] = msgRequired
	case !validator.IsEmail(f.Email):
		errs["email"] = msgInvalidEmail
	}
	switch {
	case f.Phone == "":
		errs["phone"] = msgRequired
	case !phone.IsValid(f.Phone):
		errs["phone"] = msgInvalidPhone
	}
	if strings.EqualFold(f.ReferralSource, ReferralOther) && f.ReferralOther == "" {
		errs["referralOther"] = msgRequired
	}
}

func validateQuoteDetails(s State, today time.Time, errs map[string]string) {
	f := s.Form
	if len(f.SelectedServices) == 0 {
		errs["services"] = msgNoService
	}

	if s.NeedsSquareFootage() {
		if v, ok := pricing.ParseSquareFootage(f.UserSquareFootage); !ok || v < pricing.MinSquareFootage {
			errs["squareFootage"] = msgSquareFootage
		}
	}

	if f.SelectedDate == "" {
		errs["date"] = msgNoDate
	}
	if f.SelectedTime == "" {
		errs["time"] = msgNoTime
	}
	if f.SelectedDate == "" {
		return
	}

	date, err := availability.ParseDate(f.SelectedDate, today.Location())
	if err != nil || !availability.DateSelectable(date, today) {
		errs["date"] = msgDateRange
		return
	}
	if f.SelectedTime == "" {
		return
	}
	if !availability.IsOnGrid(f.SelectedTime) {
		errs["time"] = msgTimeOffGrid
		return
	}
	if availability.IsSlotBlocked(date, f.SelectedTime, s.BusyByDate[f.SelectedDate]) {
		errs["time"] = msgTimeTaken
	}
}

func validateAppraisal(a Appraisal, errs map[string]string) {
	if a.PropertyType == "" {
		errs["appraisal.propertyType"] = msgRequired
	}
	if a.IntendedUse == "" {
		errs["appraisal.intendedUse"] = msgRequired
	} else if a.IntendedUse == IntendedUseOther && a.IntendedUseOther == "" {
		errs["appraisal.intendedUseOther"] = msgRequired
	}
	if a.EffectiveDate == "" {
		errs["appraisal.effectiveDate"] = msgRequired
	} else if _, err := time.Parse(availability.DateLayout, a.EffectiveDate); err != nil {
		errs["appraisal.effectiveDate"] = msgEffectiveDate
	}
	if a.ReportOption == "" || a.ReportOption == ReportOptionPlaceholder {
		errs["appraisal.reportOption"] = msgReportOption
	}
	validateIntendedUsers(a.IntendedUsers, errs)
}

// validateIntendedUsers: entry 0 needs a name and a valid email; later
// entries need a valid email once they have a name.
func validateIntendedUsers(users []IntendedUser, errs map[string]string) {
	if len(users) > MaxIntendedUsers {
		errs["appraisal.intendedUsers"] = msgTooManyUsers
	}
	if len(users) == 0 {
		errs[intendedUserKey(0, "name")] = msgRequired
		errs[intendedUserKey(0, "email")] = msgRequired
		return
	}
	for i, u := range users {
		if i == 0 && u.Name == "" {
			errs[intendedUserKey(i, "name")] = msgRequired
		}
		if i > 0 && u.Name == "" {
			continue
		}
		switch {
		case u.Email == "":
			errs[intendedUserKey(i, "email")] = msgRequired
		case !validator.IsEmail(u.Email):
			errs[intendedUserKey(i, "email")] = msgInvalidEmail
		}
	}
}

func intendedUserKey(i int, field string) string {
	return fmt.Sprintf("appraisal.intendedUsers.%d.%s", i, field)
}

// stepOfField maps an error key to the step showing that field.
func stepOfField(key string) Step {
	switch {
	case strings.HasPrefix(key, "appraisal."):
		return StepAppraisal
	case key == "terms":
		return StepReview
	}
	switch key {
	case "services", "date", "time", "squareFootage":
		return StepQuoteDetails
	case "firstName", "lastName", "email", "phone", "company", "referralSource", "referralOther":
		return StepContact
	}
	return StepReview
}
