package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Config carries the SMTP settings for the organizer-desk notifications.
type Config struct {
	Addr      string
	Host      string
	From      string
	Password  string
	DeskEmail string
}

// SendRegistrationNotice mails the organizer desk about a freshly issued
// ticket. Failures are reported but never block issuance.
func SendRegistrationNotice(log *zerolog.Logger, cfg Config, ticketID, name, instagram, phone string) error {
	subject := fmt.Sprintf("New registration %s", ticketID)
	body := fmt.Sprintf(
		"A new ticket has been issued.\n\nTicket: %s\nName: %s\nInstagram: %s\nPhone: %s\n",
		ticketID, name, instagram, phone,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, cfg.DeskEmail, subject, body,
	)

	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(cfg.Addr, auth, cfg.From, []string{cfg.DeskEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send desk notification for %s: %v", ticketID, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("Desk notified about %s", ticketID)
	return nil
}
