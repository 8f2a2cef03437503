package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/models"
)

// defaultBooks are seeded whenever the book store is empty after load.
var defaultBooks = []models.Book{
	{ID: 1, Title: "The Pragmatic Programmer", Author: "Andrew Hunt"},
	{ID: 2, Title: "Clean Code", Author: "Robert C. Martin"},
}

// JSONBookStore keeps all books in memory and rewrites a single JSON file in
// full on every mutation. The mutex serializes the load-mutate-persist
// sequence so concurrent requests cannot lose updates.
type JSONBookStore struct {
	path  string
	mu    sync.Mutex
	books []models.Book
}

// NewJSONBookStore loads the store from path. A missing or corrupt file is
// treated as an empty store; an empty store is seeded with the default
// records.
func NewJSONBookStore(path string) (*JSONBookStore, error) {
	s := &JSONBookStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// start empty
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.books); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Book file is corrupt, starting empty")
			s.books = nil
		}
	}

	if len(s.books) == 0 {
		s.books = append([]models.Book(nil), defaultBooks...)
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// List returns all books in insertion order.
func (s *JSONBookStore) List() ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

// Get returns the book with the given id.
func (s *JSONBookStore) Get(id int) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Book{}, ErrNotFound
}

// nextID computes max(ids)+1, or 1 for an empty store. It is recomputed on
// every insert rather than cached: deleting the highest record frees its id.
func (s *JSONBookStore) nextID() int {
	next := 1
	for _, b := range s.books {
		if b.ID >= next {
			next = b.ID + 1
		}
	}
	return next
}

// Insert assigns the next id, appends the record and persists the store.
func (s *JSONBookStore) Insert(b models.Book) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID()
	s.books = append(s.books, b)
	if err := s.persist(); err != nil {
		s.books = s.books[:len(s.books)-1]
		return models.Book{}, err
	}
	return b, nil
}

// Update applies the non-nil fields of upd to the book with the given id.
func (s *JSONBookStore) Update(id int, upd models.BookUpdate) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.books {
		if b.ID != id {
			continue
		}
		updated := upd.Apply(b)
		s.books[i] = updated
		if err := s.persist(); err != nil {
			s.books[i] = b
			return models.Book{}, err
		}
		return updated, nil
	}
	return models.Book{}, ErrNotFound
}

// Delete removes the book with the given id and persists the store.
func (s *JSONBookStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.books {
		if b.ID != id {
			continue
		}
		prev := s.books
		s.books = append(append([]models.Book(nil), prev[:i]...), prev[i+1:]...)
		if err := s.persist(); err != nil {
			s.books = prev
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *JSONBookStore) persist() error {
	return writeFileAtomic(s.path, s.books, 0644)
}

// credentials is the on-disk value of the users mapping.
type credentials struct {
	PasswordHash string `json:"password_hash"`
}

// JSONUserStore persists the username -> password hash mapping as a single
// JSON object, rewritten in full on every registration.
type JSONUserStore struct {
	path  string
	mu    sync.Mutex
	users map[string]credentials
}

// NewJSONUserStore loads the credential mapping from path. A missing or
// corrupt file is treated as an empty store.
func NewJSONUserStore(path string) (*JSONUserStore, error) {
	s := &JSONUserStore{path: path, users: make(map[string]credentials)}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("User file is corrupt, starting empty")
		s.users = make(map[string]credentials)
	}
	return s, nil
}

// Find returns the user with the given username.
func (s *JSONUserStore) Find(username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.users[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return models.User{Username: username, PasswordHash: c.PasswordHash}, nil
}

// Create persists a new user. The username must not already exist.
func (s *JSONUserStore) Create(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Username]; ok {
		return ErrUserExists
	}
	s.users[u.Username] = credentials{PasswordHash: u.PasswordHash}
	if err := writeFileAtomic(s.path, s.users, 0600); err != nil {
		delete(s.users, u.Username)
		return err
	}
	return nil
}

// writeFileAtomic marshals v and replaces path via a temp file + rename, so a
// crash mid-write never leaves a truncated store behind.
func writeFileAtomic(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
