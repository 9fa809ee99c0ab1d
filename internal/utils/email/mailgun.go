package email

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/club-service/internal/config"
	"github.com/Dan9191/club-service/internal/models"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
)

// mailgunClient is the subset of *mailgun.MailgunImpl used for sending
type mailgunClient interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// MailgunSender handles sending emails via the Mailgun API
type MailgunSender struct {
	mg       mailgunClient
	from     string
	to       string
	clubName string
	logger   *logrus.Logger
}

// NewMailgunSender creates a Mailgun-backed sender
func NewMailgunSender(cfg *config.Config, logger *logrus.Logger) *MailgunSender {
	return &MailgunSender{
		mg:       mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		from:     fmt.Sprintf("%s <%s>", cfg.ClubName, cfg.ClubEmail),
		to:       cfg.ClubEmail,
		clubName: cfg.ClubName,
		logger:   logger,
	}
}

// NotifyContact emails the club about a contact-form submission
func (s *MailgunSender) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	message := s.mg.NewMessage(s.from, ContactSubject(s.clubName), ContactBody(msg), s.to)
	message.AddHeader("Reply-To", msg.Email)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, id, err := s.mg.Send(ctxWithTimeout, message)
	if err != nil {
		s.logger.Errorf("Failed to send contact notification for message %d: %v", msg.ID, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithField("mailgun_id", id).Infof("Contact notification sent for message %d", msg.ID)
	return nil
}

// Discard drops notifications. Used when EMAIL_PROVIDER=none.
type Discard struct {
	logger *logrus.Logger
}

// NewDiscard creates a notifier that only logs
func NewDiscard(logger *logrus.Logger) *Discard {
	return &Discard{logger: logger}
}

// NotifyContact logs the message id and reports success
func (d *Discard) NotifyContact(_ context.Context, msg *models.ContactMessage) error {
	d.logger.Debugf("Email disabled, contact message %d not forwarded", msg.ID)
	return nil
}
