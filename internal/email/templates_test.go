package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderQuoteConfirmation(t *testing.T) {
	html, err := renderQuoteConfirmation("Garden State Appraisals", QuoteConfirmation{
		CustomerName:    "Jane <b>Doe</b>",
		JobReference:    "4F1C2A",
		PropertyAddress: "18 Maple Ave, Westfield, NJ 07090",
		Appointment:     "Thu, May 14 at 2:30 PM",
		Lines:           []PriceLine{{Name: "Residential Appraisal", Price: 500}},
		Subtotal:        500,
		DiscountCode:    "SAVE10",
		DiscountAmount:  50,
		Total:           450,
		Appraisal:       []Detail{{Label: "Intended use", Value: "Refinance"}},
		Attachments:     []Attachment{{FileName: "quote.pdf"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"$500.00", "-$50.00", "$450.00", "SAVE10", "Refinance", "attached as a PDF", "Garden State Appraisals"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected rendered e-mail to contain %q", want)
		}
	}
	if strings.Contains(html, "<b>Doe</b>") {
		t.Fatal("expected customer name to be escaped")
	}
}

func TestRenderConfirmationWithoutDiscount(t *testing.T) {
	html, err := renderQuoteConfirmation("Biz", QuoteConfirmation{Subtotal: 200, Total: 200})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Discount") {
		t.Fatal("expected no discount row")
	}
}

func TestRenderAppointmentReminder(t *testing.T) {
	html, err := renderAppointmentReminder("Biz", AppointmentReminder{
		CustomerName: "Jane",
		Appointment:  "Thu, May 14 at 2:30 PM",
		Services:     []string{"Drone Photography"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "Drone Photography") || !strings.Contains(html, "2:30 PM") {
		t.Fatal("expected services and appointment in reminder")
	}
}

type emailConfig struct{ enabled bool }

func (c emailConfig) GetEmailEnabled() bool       { return c.enabled }
func (c emailConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (c emailConfig) GetSMTPPort() int            { return 587 }
func (c emailConfig) GetSMTPUsername() string     { return "" }
func (c emailConfig) GetSMTPPassword() string     { return "" }
func (c emailConfig) GetEmailFromName() string    { return "Office" }
func (c emailConfig) GetEmailFromAddress() string { return "office@example.com" }
func (c emailConfig) GetOfficeEmail() string      { return "" }

func TestNewSenderDisabledIsNoop(t *testing.T) {
	sender, err := NewSender(emailConfig{enabled: false}, "Biz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	if err := sender.SendQuoteConfirmation(context.Background(), QuoteConfirmation{}); err != nil {
		t.Fatalf("noop send failed: %v", err)
	}
}

func TestNewSenderEnabledIsSMTP(t *testing.T) {
	sender, err := NewSender(emailConfig{enabled: true}, "Biz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*SMTPSender); !ok {
		t.Fatalf("expected *SMTPSender, got %T", sender)
	}
}
