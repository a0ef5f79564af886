package services

import (
	"fmt"
	"log"

	"rentora-server/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email through SendGrid. With no API key
// configured it logs the message and drops it, which keeps local development
// working without credentials.
type Mailer struct {
	apiKey string
	from   string
}

func NewMailer() *Mailer {
	cfg := config.Get()
	return &Mailer{apiKey: cfg.SendgridAPIKey, from: cfg.EmailFrom}
}

func (m *Mailer) Send(toEmail, toName, subject, plainText, htmlContent string) error {
	if m.apiKey == "" {
		log.Printf("mailer: no API key, dropping email to %s (%s)", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("Rentora", m.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (m *Mailer) SendWelcome(toEmail, firstName string) error {
	subject := "Welcome to Rentora"
	text := fmt.Sprintf("Hi %s,\n\nWelcome to Rentora! Browse properties, book stays and find local services all in one place.", firstName)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to Rentora! Browse properties, book stays and find local services all in one place.</p>", firstName)
	return m.Send(toEmail, firstName, subject, text, html)
}

func (m *Mailer) SendPasswordReset(toEmail, firstName, token string) error {
	subject := "Reset your Rentora password"
	text := fmt.Sprintf("Hi %s,\n\nUse this token to reset your password: %s\n\nIt expires in 10 minutes.", firstName, token)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Use this token to reset your password: <strong>%s</strong></p><p>It expires in 10 minutes.</p>", firstName, token)
	return m.Send(toEmail, firstName, subject, text, html)
}

func (m *Mailer) SendBookingConfirmed(toEmail, firstName, propertyTitle string) error {
	subject := "Your booking is confirmed"
	text := fmt.Sprintf("Hi %s,\n\nYour booking for %s has been confirmed by the host. See you there!", firstName, propertyTitle)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your booking for <strong>%s</strong> has been confirmed by the host. See you there!</p>", firstName, propertyTitle)
	return m.Send(toEmail, firstName, subject, text, html)
}
