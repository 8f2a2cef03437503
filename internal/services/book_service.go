package services

import (
	"errors"
	"fmt"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
	"bookshelf/internal/websocket"
)

// ErrForbidden is returned when the requesting identity does not own the
// record it tries to mutate.
var ErrForbidden = errors.New("you do not own this book")

// BookServiceProvider defines the interface for book services.
type BookServiceProvider interface {
	ListBooks() ([]models.Book, error)
	GetBook(id int) (models.Book, error)
	CreateBook(title, author, identity string) (models.Book, error)
	UpdateBook(id int, upd models.BookUpdate, identity string) (models.Book, error)
	DeleteBook(id int, identity string) error
}

// BookService provides CRUD over the book store and enforces ownership on
// mutation. Mutations are recorded in the activity feed and broadcast to
// websocket clients.
type BookService struct {
	books  store.BookStore
	events EventServiceProvider
	hub    *websocket.Hub
}

// NewBookService creates a new BookService. hub may be nil when no live feed
// is wired up.
func NewBookService(books store.BookStore, events EventServiceProvider, hub *websocket.Hub) *BookService {
	return &BookService{books: books, events: events, hub: hub}
}

// ListBooks returns all books.
func (s *BookService) ListBooks() ([]models.Book, error) {
	return s.books.List()
}

// GetBook returns a single book by id.
func (s *BookService) GetBook(id int) (models.Book, error) {
	return s.books.Get(id)
}

// CreateBook validates and stores a new book owned by identity.
func (s *BookService) CreateBook(title, author, identity string) (models.Book, error) {
	book := models.Book{Title: title, Author: author, Owner: identity}
	if err := book.Validate(); err != nil {
		return models.Book{}, err
	}

	created, err := s.books.Insert(book)
	if err != nil {
		return models.Book{}, err
	}

	s.publish("book_created", fmt.Sprintf("%q added by %s", created.Title, identity), created)
	return created, nil
}

// UpdateBook applies a partial update to a book owned by identity. The owner
// check is strict equality: a book with no owner can never be updated.
func (s *BookService) UpdateBook(id int, upd models.BookUpdate, identity string) (models.Book, error) {
	book, err := s.books.Get(id)
	if err != nil {
		return models.Book{}, err
	}
	if book.Owner != identity {
		return models.Book{}, ErrForbidden
	}

	updated, err := s.books.Update(id, upd)
	if err != nil {
		return models.Book{}, err
	}

	s.publish("book_updated", fmt.Sprintf("%q updated by %s", updated.Title, identity), updated)
	return updated, nil
}

// DeleteBook removes a book owned by identity. Same ownership rule as update.
func (s *BookService) DeleteBook(id int, identity string) error {
	book, err := s.books.Get(id)
	if err != nil {
		return err
	}
	if book.Owner != identity {
		return ErrForbidden
	}

	if err := s.books.Delete(id); err != nil {
		return err
	}

	s.publish("book_deleted", fmt.Sprintf("%q deleted by %s", book.Title, identity), book)
	return nil
}

func (s *BookService) publish(eventType, message string, book models.Book) {
	if s.events != nil {
		id := book.ID
		s.events.Record(eventType, message, &id)
	}
	if s.hub != nil {
		if msg := websocket.NewMessage(eventType, book); msg != nil {
			s.hub.Broadcast <- msg
		}
	}
}
