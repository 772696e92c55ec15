package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// Enabled reports whether SMTP is configured. When false, sends are skipped.
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// ReceiptEmail holds the data for a plain-text receipt email.
type ReceiptEmail struct {
	StoreName     string
	InvoiceNumber string
	Date          string
	Lines         []ReceiptEmailLine
	Subtotal      string
	Discount      string
	Total         string
	PaymentMethod string
}

// ReceiptEmailLine is one purchased title on the emailed receipt.
type ReceiptEmailLine struct {
	Title    string
	Quantity int
	Total    string
}

// SendReceipt emails a plain-text copy of a receipt to a customer.
func (s *EmailService) SendReceipt(toEmail string, r *ReceiptEmail) error {
	if !s.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("Your receipt from %s (Invoice %s)", r.StoreName, r.InvoiceNumber)
	message := s.buildTextEmail(toEmail, subject, renderReceiptBody(r))
	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildTextEmail builds a plain-text email message
func (s *EmailService) buildTextEmail(to, subject, body string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + body)
}

func renderReceiptBody(r *ReceiptEmail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\r\n", r.StoreName)
	fmt.Fprintf(&b, "Invoice %s  %s\r\n\r\n", r.InvoiceNumber, r.Date)

	for _, line := range r.Lines {
		fmt.Fprintf(&b, "%dx %s  %s\r\n", line.Quantity, line.Title, line.Total)
	}

	fmt.Fprintf(&b, "\r\nSubtotal: %s\r\n", r.Subtotal)
	if r.Discount != "" {
		fmt.Fprintf(&b, "Discount: %s\r\n", r.Discount)
	}
	fmt.Fprintf(&b, "Total: %s\r\n", r.Total)
	if r.PaymentMethod != "" {
		fmt.Fprintf(&b, "Paid by: %s\r\n", r.PaymentMethod)
	}

	b.WriteString("\r\nThank you for shopping with us!\r\n")
	return b.String()
}
