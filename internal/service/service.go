package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Dan9191/club-service/internal/auth"
	"github.com/Dan9191/club-service/internal/models"
	"github.com/Dan9191/club-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// ErrInvalidInput indicates a request body failed a presence or format check
var ErrInvalidInput = errors.New("invalid input")

// MaxNotifyAttempts bounds how many times the club is emailed about one contact message
const MaxNotifyAttempts = 5

// Store is the persistence the service depends on
type Store interface {
	Ping(ctx context.Context) error
	GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetActivePresident(ctx context.Context) (*models.President, error)
	CreatePresident(ctx context.Context, president *models.President) error
	ListMembers(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, member *models.Member) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	ListPendingContactMessages(ctx context.Context, maxAttempts, limit int) ([]models.ContactMessage, error)
	RecordNotifyAttempt(ctx context.Context, id int64) (int, error)
	MarkContactMessageNotified(ctx context.Context, id int64) error
}

// Notifier forwards contact messages to the club
type Notifier interface {
	NotifyContact(ctx context.Context, msg *models.ContactMessage) error
}

// TokenIssuer mints admin tokens
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// Service handles business logic
type Service struct {
	store    Store
	notifier Notifier
	tokens   TokenIssuer
	log      *logrus.Logger
}

// NewService initializes a new service
func NewService(store Store, notifier Notifier, tokens TokenIssuer, log *logrus.Logger) *Service {
	return &Service{store: store, notifier: notifier, tokens: tokens, log: log}
}

// Login authenticates an admin and returns a signed token.
// Unknown usernames and wrong passwords both yield auth.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		auth.VerifyAgainstDummy(password)
		s.log.WithField("username", username).Warn("Admin login failed")
		return "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if !auth.VerifyPassword(password, admin.PasswordHash) {
		s.log.WithField("username", username).Warn("Admin login failed")
		return "", auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.WithField("username", admin.Username).Info("Admin logged in")
	return token, nil
}

// Health reports whether the backing store is reachable
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// GetPresident returns the active president, or nil when none is set
func (s *Service) GetPresident(ctx context.Context) (*models.President, error) {
	p, err := s.store.GetActivePresident(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// AddPresident stores a new active president
func (s *Service) AddPresident(ctx context.Context, p *models.President) error {
	if err := requireFields(map[string]string{"name": p.Name, "year": p.Year}); err != nil {
		return err
	}
	if err := s.store.CreatePresident(ctx, p); err != nil {
		return err
	}
	s.log.Infof("President added: %d", p.ID)
	return nil
}

// ListMembers returns all club members
func (s *Service) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.store.ListMembers(ctx)
}

// AddMember stores a new member
func (s *Service) AddMember(ctx context.Context, m *models.Member) error {
	if err := requireFields(map[string]string{"name": m.Name, "role": m.Role}); err != nil {
		return err
	}
	err := s.store.CreateMember(ctx, m)
	if errors.Is(err, repository.ErrInvalidReference) {
		return fmt.Errorf("%w: president_id does not exist", ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	s.log.Infof("Member added: %d", m.ID)
	return nil
}

// ListEvents returns all events, newest first
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEvents(ctx)
}

// AddEvent stores a new event
func (s *Service) AddEvent(ctx context.Context, e *models.Event) error {
	if err := requireFields(map[string]string{"title": e.Title, "event_date": e.EventDate}); err != nil {
		return err
	}
	if _, err := time.Parse(models.EventDateLayout, e.EventDate); err != nil {
		return fmt.Errorf("%w: event_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return err
	}
	s.log.Infof("Event added: %d", e.ID)
	return nil
}

// SubmitContact persists a contact message and tries to notify the club.
// A failed notification is not an error: the message stays pending for the retry job
// and notified is false.
func (s *Service) SubmitContact(ctx context.Context, msg *models.ContactMessage) (notified bool, err error) {
	if err := requireFields(map[string]string{"name": msg.Name, "email": msg.Email, "message": msg.Message}); err != nil {
		return false, err
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return false, err
	}

	if err := s.deliver(ctx, msg); err != nil {
		s.log.WithError(err).Warnf("Contact message %d left pending", msg.ID)
		return false, nil
	}
	return true, nil
}

// RetryPendingNotifications re-sends up to limit contact messages that were never delivered.
// Messages already attempted MaxNotifyAttempts times are left alone.
func (s *Service) RetryPendingNotifications(ctx context.Context, limit int) (int, error) {
	pending, err := s.store.ListPendingContactMessages(ctx, MaxNotifyAttempts, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		if err := s.deliver(ctx, &pending[i]); err != nil {
			s.log.WithError(err).Warnf("Retry failed for contact message %d", pending[i].ID)
			continue
		}
		sent++
	}
	return sent, nil
}

// deliver counts the attempt before sending, so a message is emailed at most
// MaxNotifyAttempts times even when marking it notified keeps failing
func (s *Service) deliver(ctx context.Context, msg *models.ContactMessage) error {
	attempts, err := s.store.RecordNotifyAttempt(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	msg.NotifyAttempts = attempts
	entry := s.log.WithFields(logrus.Fields{"contact_id": msg.ID, "attempt": attempts})

	if err := s.notifier.NotifyContact(ctx, msg); err != nil {
		if attempts >= MaxNotifyAttempts {
			entry.WithError(err).Error("Giving up on contact notification")
		}
		return err
	}
	if err := s.store.MarkContactMessageNotified(ctx, msg.ID); err != nil {
		entry.WithError(err).Error("Failed to mark contact message notified")
	}
	return nil
}

// requireFields checks that every named field is non-blank
func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
}
