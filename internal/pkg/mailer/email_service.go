// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// UpgradeReceipt is what the buyer sees after a plan is granted.
type UpgradeReceipt struct {
	OrderId  string
	Plan     string
	Amount   int64
	Currency string
}

type IEmailService interface {
	SendUpgradeReceipt(toEmail string, r UpgradeReceipt) error
}

// messageSender is satisfied by *gomail.Dialer.
type messageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      messageSender
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string) IEmailService {
	return &emailService{
		sender:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendUpgradeReceipt(toEmail string, r UpgradeReceipt) error {
	m := buildReceipt(s.senderEmail, toEmail, s.frontendURL, r)

	if err := s.sender.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Upgrade receipt sent to %s (order %s)\n", toEmail, r.OrderId)
	return nil
}

func buildReceipt(from, to, frontendURL string, r UpgradeReceipt) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your RAW.AI %s plan is active", r.Plan))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for upgrading!</h2>
			<p>Your account is now on the <strong>%s</strong> plan.</p>
			<p>Amount: %s %s</p>
			<p>Order reference: %s</p>
			<a href="%s/dashboard" style="background-color: #111; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open dashboard</a>
		</div>
	`, r.Plan, formatAmount(r.Amount), r.Currency, r.OrderId, frontendURL)

	m.SetBody("text/html", body)
	return m
}

// formatAmount renders minor units, e.g. 500 -> 5.00.
func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
