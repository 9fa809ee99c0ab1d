package mock

import (
	"context"
	"sync"

	"github.com/Dan9191/club-service/internal/models"
)

// Notifier records contact notifications instead of sending them
type Notifier struct {
	mu   sync.Mutex
	Err  error
	Sent []models.ContactMessage
}

func (n *Notifier) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, *msg)
	return nil
}

// SetErr changes the failure returned by subsequent notifications
func (n *Notifier) SetErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Err = err
}

// Count returns the number of notifications sent
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}
