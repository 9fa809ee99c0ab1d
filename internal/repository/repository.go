package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/club-service/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound indicates the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference indicates a foreign key points at a missing row
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks that a pooled connection can reach the database
func (r *Repository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return r.db.PingContext(ctx)
}

// GetAdminByUsername retrieves an admin by exact (case-sensitive) username
func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return admin, nil
}

// GetActivePresident retrieves the currently active president
func (r *Repository) GetActivePresident(ctx context.Context) (*models.President, error) {
	president := &models.President{Active: true}
	query := `
		SELECT id, name, year, photo_url
		FROM presidents
		WHERE active = TRUE
		ORDER BY id DESC
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).
		Scan(&president.ID, &president.Name, &president.Year, &president.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active president: %w", err)
	}
	return president, nil
}

// CreatePresident inserts a new active president and deactivates the previous one
func (r *Repository) CreatePresident(ctx context.Context, president *models.President) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE presidents SET active = FALSE WHERE active = TRUE`); err != nil {
		return fmt.Errorf("failed to deactivate president: %w", err)
	}

	query := `
		INSERT INTO presidents (name, year, photo_url, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, query, president.Name, president.Year, president.PhotoURL).
		Scan(&president.ID); err != nil {
		return fmt.Errorf("failed to create president: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	president.Active = true
	return nil
}

// ListMembers retrieves all members with the name of their president
func (r *Repository) ListMembers(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT cm.id, cm.name, cm.role, cm.photo_url, cm.president_id, p.name
		FROM club_members cm
		LEFT JOIN presidents p ON cm.president_id = p.id
		ORDER BY cm.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var (
			m             models.Member
			presidentID   sql.NullInt64
			presidentName sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.PhotoURL, &presidentID, &presidentName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if presidentID.Valid {
			m.PresidentID = &presidentID.Int64
		}
		if presidentName.Valid {
			m.PresidentName = &presidentName.String
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateMember inserts a new member
func (r *Repository) CreateMember(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO club_members (name, role, photo_url, president_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, member.Name, member.Role, member.PhotoURL, member.PresidentID).
		Scan(&member.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// ListEvents retrieves all events, newest first
func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, description, event_date, gform_link
		FROM events
		ORDER BY event_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var (
			e    models.Event
			date time.Time
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &date, &e.GFormLink); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.EventDate = date.Format(models.EventDateLayout)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CreateEvent inserts a new event
func (r *Repository) CreateEvent(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, gform_link)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, event.Title, event.Description, event.EventDate, event.GFormLink).
		Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// CreateContactMessage stores a contact-form submission
func (r *Repository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Message).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// ListPendingContactMessages retrieves the oldest messages the club was not yet notified about
// and that have been attempted fewer than maxAttempts times
func (r *Repository) ListPendingContactMessages(ctx context.Context, maxAttempts, limit int) ([]models.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, created_at, notify_attempts
		FROM contact_messages
		WHERE notified_at IS NULL AND notify_attempts < $1
		ORDER BY created_at
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt, &m.NotifyAttempts); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pending contact messages: %w", err)
	}
	return msgs, nil
}

// RecordNotifyAttempt increments the notification attempt counter and returns its new value
func (r *Repository) RecordNotifyAttempt(ctx context.Context, id int64) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE contact_messages SET notify_attempts = notify_attempts + 1 WHERE id = $1 RETURNING notify_attempts`, id).
		Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return attempts, nil
}

// MarkContactMessageNotified records that the club was emailed about a message
func (r *Repository) MarkContactMessageNotified(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET notified_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact message notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark contact message notified: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
