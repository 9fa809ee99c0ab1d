package models

// Member represents a club member, optionally attached to the president of their term
type Member struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	PhotoURL      string  `json:"photo_url"`
	PresidentID   *int64  `json:"president_id,omitempty"`
	PresidentName *string `json:"president_name"`
}
