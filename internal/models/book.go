package models

import "errors"

// ErrMissingFields is returned when a book is created without a title or author.
var ErrMissingFields = errors.New("both 'title' and 'author' are required")

// Book represents a single book record.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	// Owner is the username that created the record. Seeded records carry no
	// owner and can never be modified through the API.
	Owner string `json:"owner,omitempty"`
}

// Validate checks the fields required at creation time.
func (b Book) Validate() error {
	if b.Title == "" || b.Author == "" {
		return ErrMissingFields
	}
	return nil
}

// BookUpdate describes a partial update. Nil fields keep their current value.
// Owner is deliberately absent: it is fixed at creation.
type BookUpdate struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

// Apply returns a copy of b with the non-nil fields replaced.
func (u BookUpdate) Apply(b Book) Book {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	return b
}
