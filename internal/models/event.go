package models

// EventDateLayout is the wire and storage format of Event.EventDate
const EventDateLayout = "2006-01-02"

// Event represents a club event
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"` // Format: YYYY-MM-DD
	GFormLink   string `json:"gform_link"`
}
