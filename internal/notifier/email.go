package notifier

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
)

// Mailer sends the PDF report by SMTP.
type Mailer interface {
	SendReport(ctx context.Context, to, name, pdfPath string) error
}

// EmailSender is an SMTP Mailer with STARTTLS and plain auth.
type EmailSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// dial is replaced in tests.
	dial func(ctx context.Context, msg *mail.Msg) error
}

// NewEmailSender creates an SMTP sender.
func NewEmailSender(host string, port int, username, password, from string) *EmailSender {
	return &EmailSender{Host: host, Port: port, Username: username, Password: password, From: from}
}

// ReportBody is the markdown body of the report email.
func ReportBody(name string) string {
	return fmt.Sprintf("Hi **%s**,\n\nPlease find attached your visual portfolio report.\n\n"+
		"- Holdings table with P&L and P&L%%\n- Allocation pie chart\n- Profit & loss bar chart\n", name)
}

// BuildMessage assembles the email with an HTML body rendered from markdown and a plain-text alternative.
func (e *EmailSender) BuildMessage(to, name, pdfPath string) (*mail.Msg, error) {
	md := ReportBody(name)
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(md), &html); err != nil {
		return nil, fmt.Errorf("render email body: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(e.From); err != nil {
		return nil, fmt.Errorf("email from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("email to: %w", err)
	}
	m.Subject("Stock Report - " + name)
	m.SetBodyString(mail.TypeTextHTML, html.String())
	m.AddAlternativeString(mail.TypeTextPlain, md)
	m.AttachFile(pdfPath)
	return m, nil
}

// SendReport emails the PDF at pdfPath to one holder.
func (e *EmailSender) SendReport(ctx context.Context, to, name, pdfPath string) error {
	m, err := e.BuildMessage(to, name, pdfPath)
	if err != nil {
		return err
	}
	if e.dial != nil {
		return e.dial(ctx, m)
	}

	c, err := mail.NewClient(e.Host,
		mail.WithPort(e.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithUsername(e.Username),
		mail.WithPassword(e.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
