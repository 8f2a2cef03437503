// Package store provides the persistence layer. Two backends exist: flat JSON
// files rewritten in full on every mutation, and an embedded sqlite database.
// Both assign book ids as max(existing)+1, recomputed on each insert, so the
// highest id becomes reusable once its record is deleted.
package store

import (
	"errors"

	"bookshelf/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the given key.
	ErrNotFound = errors.New("not found")

	// ErrUserExists is returned when registering an already-taken username.
	ErrUserExists = errors.New("username already exists")
)

// BookStore abstracts book persistence.
type BookStore interface {
	// List returns all books in insertion order.
	List() ([]models.Book, error)

	// Get returns the book with the given id, or ErrNotFound.
	Get(id int) (models.Book, error)

	// Insert assigns an id to the record, appends it and persists the store.
	Insert(b models.Book) (models.Book, error)

	// Update applies the non-nil fields of upd to the book with the given id,
	// or returns ErrNotFound. The owner is never touched.
	Update(id int, upd models.BookUpdate) (models.Book, error)

	// Delete removes the book with the given id, or returns ErrNotFound.
	Delete(id int) error
}

// UserStore abstracts credential persistence.
type UserStore interface {
	// Find returns the user with the given username, or ErrNotFound.
	Find(username string) (models.User, error)

	// Create persists a new user, or returns ErrUserExists.
	Create(u models.User) error
}
