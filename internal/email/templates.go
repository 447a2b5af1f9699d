package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title        string
	Heading      string
	Subheading   string
	BusinessName string
}

type quoteConfirmationEmailData struct {
	baseEmailData
	QuoteConfirmation
	HasAttachments bool
}

type appointmentReminderEmailData struct {
	baseEmailData
	AppointmentReminder
}

var templateFuncs = template.FuncMap{
	"usd": formatCurrencyUSD,
}

func renderQuoteConfirmation(businessName string, msg QuoteConfirmation) (string, error) {
	return renderEmailTemplate("quote_confirmation.html", quoteConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:        "Appointment request received",
			Heading:      "Thanks, we received your request",
			Subheading:   "We will confirm your appointment shortly.",
			BusinessName: businessName,
		},
		QuoteConfirmation: msg,
		HasAttachments:    len(msg.Attachments) > 0,
	})
}

func renderAppointmentReminder(businessName string, msg AppointmentReminder) (string, error) {
	return renderEmailTemplate("appointment_reminder.html", appointmentReminderEmailData{
		baseEmailData: baseEmailData{
			Title:        "Appointment reminder",
			Heading:      "See you tomorrow",
			BusinessName: businessName,
		},
		AppointmentReminder: msg,
	})
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
