package models

import "time"

// ContactMessage is a public contact-form submission
type ContactMessage struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	NotifyAttempts int        `json:"-"`
}
