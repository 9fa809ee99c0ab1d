package models

// President represents a club president
type President struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Year     string `json:"year"`
	PhotoURL string `json:"photo_url"`
	Active   bool   `json:"-"`
}
