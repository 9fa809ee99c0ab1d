package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/club-service/internal/models"
	"github.com/Dan9191/club-service/internal/repository"
)

// Store is an in-memory stand-in for repository.Repository.
// Set an Err field to make the matching operation fail.
type Store struct {
	mu sync.Mutex

	Admins     map[string]models.AdminUser
	Presidents []models.President
	Members    []models.Member
	Events     []models.Event
	Contacts   []models.ContactMessage

	PingErr    error
	LookupErr  error
	CreateErr  error
	MarkErr    error
	ListErr    error
	AttemptErr error
	nextID     int64

	// Call tracking
	Calls map[string]int
}

// NewStore creates an empty mock store
func NewStore() *Store {
	return &Store{
		Admins: make(map[string]models.AdminUser),
		Calls:  make(map[string]int),
	}
}

// AddAdmin seeds an admin account
func (s *Store) AddAdmin(username, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.Admins[username] = models.AdminUser{ID: s.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
}

func (s *Store) track(name string) {
	s.Calls[name]++
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("Ping")
	return s.PingErr
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("GetAdminByUsername")
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	admin, ok := s.Admins[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

func (s *Store) GetActivePresident(ctx context.Context) (*models.President, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("GetActivePresident")
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	for i := len(s.Presidents) - 1; i >= 0; i-- {
		if s.Presidents[i].Active {
			p := s.Presidents[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreatePresident(ctx context.Context, president *models.President) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("CreatePresident")
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for i := range s.Presidents {
		s.Presidents[i].Active = false
	}
	s.nextID++
	president.ID = s.nextID
	president.Active = true
	s.Presidents = append(s.Presidents, *president)
	return nil
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("ListMembers")
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	members := make([]models.Member, 0, len(s.Members))
	for _, m := range s.Members {
		if m.PresidentID != nil {
			for _, p := range s.Presidents {
				if p.ID == *m.PresidentID {
					name := p.Name
					m.PresidentName = &name
				}
			}
		}
		members = append(members, m)
	}
	return members, nil
}

func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("CreateMember")
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if member.PresidentID != nil {
		found := false
		for _, p := range s.Presidents {
			if p.ID == *member.PresidentID {
				found = true
			}
		}
		if !found {
			return repository.ErrInvalidReference
		}
	}
	s.nextID++
	member.ID = s.nextID
	s.Members = append(s.Members, *member)
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("ListEvents")
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	events := append([]models.Event{}, s.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].EventDate == events[j].EventDate {
			return events[i].ID > events[j].ID
		}
		return events[i].EventDate > events[j].EventDate
	})
	return events, nil
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("CreateEvent")
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.nextID++
	event.ID = s.nextID
	s.Events = append(s.Events, *event)
	return nil
}

func (s *Store) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("CreateContactMessage")
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.nextID++
	msg.ID = s.nextID
	msg.CreatedAt = time.Now()
	s.Contacts = append(s.Contacts, *msg)
	return nil
}

func (s *Store) ListPendingContactMessages(ctx context.Context, maxAttempts, limit int) ([]models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("ListPendingContactMessages")
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var pending []models.ContactMessage
	for _, m := range s.Contacts {
		if m.NotifiedAt == nil && m.NotifyAttempts < maxAttempts && len(pending) < limit {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

func (s *Store) RecordNotifyAttempt(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("RecordNotifyAttempt")
	if s.AttemptErr != nil {
		return 0, s.AttemptErr
	}
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			s.Contacts[i].NotifyAttempts++
			return s.Contacts[i].NotifyAttempts, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (s *Store) MarkContactMessageNotified(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track("MarkContactMessageNotified")
	if s.MarkErr != nil {
		return s.MarkErr
	}
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			now := time.Now()
			s.Contacts[i].NotifiedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

// Pending returns the number of contact messages not yet notified
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.Contacts {
		if m.NotifiedAt == nil {
			n++
		}
	}
	return n
}
