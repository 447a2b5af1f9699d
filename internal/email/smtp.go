package email

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSettings holds the SMTP server and envelope settings.
type SMTPSettings struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromEmail   string
	FromName    string
	OfficeEmail string // Bcc'd on confirmations when set
}

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	settings     SMTPSettings
	businessName string
}

func NewSMTPSender(settings SMTPSettings, businessName string) *SMTPSender {
	return &SMTPSender{settings: settings, businessName: businessName}
}

func (s *SMTPSender) SendQuoteConfirmation(ctx context.Context, msg QuoteConfirmation) error {
	content, err := renderQuoteConfirmation(s.businessName, msg)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectQuoteConfirmationFmt, msg.Appointment)
	return s.send(ctx, msg.ToEmail, s.settings.OfficeEmail, subject, content, msg.Attachments...)
}

func (s *SMTPSender) SendAppointmentReminder(ctx context.Context, msg AppointmentReminder) error {
	content, err := renderAppointmentReminder(s.businessName, msg)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectAppointmentReminderFmt, msg.Appointment)
	return s.send(ctx, msg.ToEmail, "", subject, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, bccEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.settings.FromName, s.settings.FromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	if bccEmail != "" {
		if err := msg.Bcc(bccEmail); err != nil {
			return fmt.Errorf("smtp bcc: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		opts := []gomail.FileOption{}
		if att.MIMEType != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(att.MIMEType)))
		}
		if err := msg.AttachReader(att.FileName, bytes.NewReader(att.Content), opts...); err != nil {
			return fmt.Errorf("smtp attach %s: %w", att.FileName, err)
		}
	}

	client, err := gomail.NewClient(s.settings.Host,
		gomail.WithPort(s.settings.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.settings.Username),
		gomail.WithPassword(s.settings.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
