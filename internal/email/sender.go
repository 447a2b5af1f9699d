// Package email renders and delivers customer e-mails.
package email

import (
	"context"

	"appraisal_portal_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string // e.g. "quote-4f1c2a.pdf"
	MIMEType string // e.g. "application/pdf"
}

// PriceLine is one priced service in an e-mail.
type PriceLine struct {
	Name  string
	Price float64
}

// Detail is a labelled value, used for the appraisal section.
type Detail struct {
	Label string
	Value string
}

// QuoteConfirmation is sent to the customer, with the office in Bcc, once
// a job has been created.
type QuoteConfirmation struct {
	ToEmail         string
	CustomerName    string
	JobReference    string
	PropertyAddress string
	Appointment     string
	Lines           []PriceLine
	Subtotal        float64
	DiscountCode    string
	DiscountAmount  float64
	Total           float64
	Appraisal       []Detail
	Attachments     []Attachment
}

// AppointmentReminder is sent the day before the appointment.
type AppointmentReminder struct {
	ToEmail         string
	CustomerName    string
	JobReference    string
	PropertyAddress string
	Appointment     string
	Services        []string
}

type Sender interface {
	SendQuoteConfirmation(ctx context.Context, msg QuoteConfirmation) error
	SendAppointmentReminder(ctx context.Context, msg AppointmentReminder) error
}

// NewSender returns an SMTP sender when e-mail is enabled and a no-op
// sender otherwise.
func NewSender(cfg config.EmailConfig, businessName string) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(SMTPSettings{
		Host:        cfg.GetSMTPHost(),
		Port:        cfg.GetSMTPPort(),
		Username:    cfg.GetSMTPUsername(),
		Password:    cfg.GetSMTPPassword(),
		FromEmail:   cfg.GetEmailFromAddress(),
		FromName:    cfg.GetEmailFromName(),
		OfficeEmail: cfg.GetOfficeEmail(),
	}, businessName), nil
}

type NoopSender struct{}

func (NoopSender) SendQuoteConfirmation(context.Context, QuoteConfirmation) error     { return nil }
func (NoopSender) SendAppointmentReminder(context.Context, AppointmentReminder) error { return nil }
