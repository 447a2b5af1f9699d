package domain

import (
	"strings"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
)

const (
	// MaxIntendedUsers caps the intended users list.
	MaxIntendedUsers = 5

	// IntendedUseOther requires a free-text description.
	IntendedUseOther = "Other"

	// ReportOptionPlaceholder is the unselected value of the report option
	// dropdown. It is never a valid choice.
	ReportOptionPlaceholder = "Select a report option"
)

const (
	DateOfValueRetrospective = "Retrospective"
	DateOfValueCurrent       = "Current"
	DateOfValueProspective   = "Prospective"
)

// Options offered by the appraisal step.
var (
	PropertyTypes = []string{
		"Single Family", "Condominium", "Townhouse", "Multi-Family (2-4 units)", "Manufactured Home", "Vacant Land",
	}
	InterestsAppraised = []string{"Fee Simple", "Leasehold", "Leased Fee"}
	IntendedUses       = []string{
		"Purchase", "Refinance", "Estate Settlement", "Divorce", "Tax Appeal", "PMI Removal", IntendedUseOther,
	}
	ValueTypes    = []string{"Market Value", "Insurable Value", "Liquidation Value"}
	ReportOptions = []string{"Standard Report", "Expedited Report", "Desktop Appraisal", "Exterior-Only Appraisal"}
)

// DateOfValueType classifies an effective date against today. It returns ""
// when the date is missing or unreadable.
func DateOfValueType(effectiveDate string, today time.Time) string {
	if strings.TrimSpace(effectiveDate) == "" {
		return ""
	}
	loc := today.Location()
	d, err := availability.ParseDate(effectiveDate, loc)
	if err != nil {
		return ""
	}
	t := availability.StartOfDay(today)
	switch {
	case d.Before(t):
		return DateOfValueRetrospective
	case d.After(t):
		return DateOfValueProspective
	default:
		return DateOfValueCurrent
	}
}

// seedIntendedUsers makes sure entry 0 exists and, when still blank, holds
// the requesting client.
func seedIntendedUsers(f *QuoteFormData) {
	client := IntendedUser{
		Name:  strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName)),
		Email: strings.TrimSpace(f.Email),
	}
	users := f.Appraisal.IntendedUsers
	if len(users) == 0 {
		f.Appraisal.IntendedUsers = []IntendedUser{client}
		return
	}
	if strings.TrimSpace(users[0].Name) == "" && strings.TrimSpace(users[0].Email) == "" {
		users[0] = client
	}
}
