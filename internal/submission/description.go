package submission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	pricing "appraisal_portal_backend/internal/pricing/domain"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	wizard "appraisal_portal_backend/internal/wizard/domain"
)

const descriptionDateLayout = "Monday, January 2, 2006 at 3:04 PM"

// DescriptionInput is everything written into the job description.
type DescriptionInput struct {
	Contact        string
	Email          string
	Phone          string
	Company        string
	ReferralSource string
	Lines          []pricingsvc.Line
	Subtotal       float64
	DiscountCode   string
	DiscountAmount float64
	Total          float64
	Appointment    time.Time
	SquareFootage  int
	SqftSource     pricing.SquareFootageSource
	Appraisal      *wizard.Appraisal
	Property       properties.PropertyInfo
}

// BuildDescription renders the plain-text job description read by the office.
func BuildDescription(in DescriptionInput) string {
	var b strings.Builder

	b.WriteString("Services:\n")
	for _, l := range in.Lines {
		fmt.Fprintf(&b, "- %s: %s\n", l.Name, usd(l.Price))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", usd(in.Subtotal))
	if in.DiscountCode != "" && in.DiscountAmount > 0 {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", in.DiscountCode, usd(in.DiscountAmount))
	}
	fmt.Fprintf(&b, "Total: %s\n", usd(in.Total))

	fmt.Fprintf(&b, "\nAppointment: %s\n", in.Appointment.Format(descriptionDateLayout))
	fmt.Fprintf(&b, "Square footage: %s (%s)\n", thousands(in.SquareFootage), sqftSourceLabel(in.SqftSource))

	b.WriteString("\nContact:\n")
	writeField(&b, "Name", in.Contact)
	writeField(&b, "Email", in.Email)
	writeField(&b, "Phone", in.Phone)
	writeField(&b, "Company", in.Company)
	writeField(&b, "Referral source", in.ReferralSource)

	if details := appraisalDetails(in.Appraisal); len(details) > 0 {
		b.WriteString("\nAppraisal Details:\n")
		for _, d := range details {
			writeField(&b, d.label, d.value)
		}
	}

	b.WriteString("\nProperty:\n")
	p := in.Property
	writeField(&b, "Address", addressOf(p))
	writeField(&b, "County", p.County)
	writeField(&b, "Municipality", p.Municipality)
	if p.Block != "" || p.Lot != "" {
		parcel := "Block " + p.Block + ", Lot " + p.Lot
		if p.Qualifier != "" {
			parcel += ", Qualifier " + p.Qualifier
		}
		writeField(&b, "Parcel", parcel)
	}
	if p.SquareFootage > 0 {
		writeField(&b, "Recorded living area", thousands(p.SquareFootage)+" sq ft")
	}
	if p.YearBuilt > 0 {
		writeField(&b, "Year built", strconv.Itoa(p.YearBuilt))
	}
	writeField(&b, "Property class", p.PropertyClass)
	writeField(&b, "Owner", p.Owner)
	if p.LastSalePrice > 0 {
		sale := usd(p.LastSalePrice)
		if p.LastSaleDate != "" {
			sale += " on " + p.LastSaleDate
		}
		writeField(&b, "Last sale", sale)
	}
	if p.AssessedValue > 0 {
		writeField(&b, "Assessed value", usd(p.AssessedValue))
	}
	if p.Acreage > 0 {
		writeField(&b, "Acreage", strconv.FormatFloat(p.Acreage, 'f', -1, 64))
	}

	return strings.TrimRight(b.String(), "\n")
}

type detail struct {
	label string
	value string
}

// appraisalDetails flattens the appraisal sub-record for the description,
// e-mail and PDF. Empty fields are skipped.
func appraisalDetails(a *wizard.Appraisal) []detail {
	if a == nil {
		return nil
	}

	use := a.IntendedUse
	if use == wizard.IntendedUseOther && a.IntendedUseOther != "" {
		use = "Other (" + a.IntendedUseOther + ")"
	}
	effective := a.EffectiveDate
	if effective != "" && a.DateOfValueType != "" {
		effective += " (" + a.DateOfValueType + ")"
	}

	var users []string
	for _, u := range a.IntendedUsers {
		if u.Name == "" {
			continue
		}
		if u.Email != "" {
			users = append(users, fmt.Sprintf("%s <%s>", u.Name, u.Email))
		} else {
			users = append(users, u.Name)
		}
	}

	candidates := []detail{
		{"Property type", a.PropertyType},
		{"Interest appraised", a.InterestAppraised},
		{"Intended use", use},
		{"Intended users", strings.Join(users, "; ")},
		{"Type of value", a.TypeOfValue},
		{"Effective date", effective},
		{"Report option", a.ReportOption},
		{"Notes", a.Notes},
	}
	out := candidates[:0]
	for _, d := range candidates {
		if strings.TrimSpace(d.value) != "" {
			out = append(out, d)
		}
	}
	return out
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func sqftSourceLabel(s pricing.SquareFootageSource) string {
	switch s {
	case pricing.SourceProperty:
		return "property records"
	case pricing.SourceUser:
		return "entered by client"
	default:
		return "default, not verified"
	}
}

func usd(amount float64) string {
	return "$" + thousandsFloat(amount)
}

func thousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + thousands(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func thousandsFloat(v float64) string {
	whole := int(v)
	cents := int((v-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s.%02d", thousands(whole), cents)
}
