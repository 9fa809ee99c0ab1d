package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/club-service/internal/config"
	"github.com/Dan9191/club-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// implicitTLSPort is the SMTPS port; other ports negotiate STARTTLS
const implicitTLSPort = "465"

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.deliver
	return s
}

// NotifyContact emails the club about a contact-form submission
func (s *Sender) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.ClubEmail
	e.To = []string{s.cfg.ClubEmail}
	e.ReplyTo = []string{msg.Email}
	e.Subject = ContactSubject(s.cfg.ClubName)
	e.Text = []byte(ContactBody(msg))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.EmailPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.ClubEmail, s.cfg.EmailPassword, s.cfg.SMTPHost)
	}

	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send contact notification for message %d: %v", msg.ID, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Contact notification sent for message %d", msg.ID)
	return nil
}

func (s *Sender) deliver(e *email.Email, addr string, auth smtp.Auth) error {
	if s.cfg.SMTPPort == implicitTLSPort {
		return e.SendWithTLS(addr, auth, &tls.Config{ServerName: s.cfg.SMTPHost})
	}
	return e.Send(addr, auth)
}

// ContactSubject is the subject line of contact notifications
func ContactSubject(clubName string) string {
	return fmt.Sprintf("New Contact Message - %s", clubName)
}

// ContactBody renders the plain-text body of a contact notification
func ContactBody(msg *models.ContactMessage) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s\n", msg.Name, msg.Email, msg.Message)
}

// Notifier delivers contact-form notifications to the club
type Notifier interface {
	NotifyContact(ctx context.Context, msg *models.ContactMessage) error
}

// NewNotifier selects the transport configured by EMAIL_PROVIDER
func NewNotifier(cfg *config.Config, logger *logrus.Logger) (Notifier, error) {
	switch cfg.EmailProvider {
	case config.EmailProviderSMTP:
		return NewSender(cfg, logger), nil
	case config.EmailProviderMailgun:
		return NewMailgunSender(cfg, logger), nil
	case config.EmailProviderNone:
		return NewDiscard(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
