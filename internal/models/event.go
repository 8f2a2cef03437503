package models

import "time"

// Event is a single entry in the activity feed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g. "book_created", "book_deleted", "backup"
	Message   string    `json:"message"`
	BookID    *int      `json:"bookId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
