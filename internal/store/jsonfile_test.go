package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bookshelf/internal/models"
)

func tempBookStore(t *testing.T) (*JSONBookStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	s, err := NewJSONBookStore(path)
	if err != nil {
		t.Fatalf("new book store: %v", err)
	}
	return s, path
}

func strPtr(s string) *string { return &s }

func TestBookStoreSeedsDefaults(t *testing.T) {
	s, path := tempBookStore(t)

	books, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("want 2 seeded books, got %d", len(books))
	}
	if books[0].ID != 1 || books[1].ID != 2 {
		t.Fatalf("unexpected seed ids: %d, %d", books[0].ID, books[1].ID)
	}
	if books[0].Owner != "" || books[1].Owner != "" {
		t.Fatalf("seeded books must not have an owner")
	}

	// Seeding persists immediately
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected seeded file on disk: %v", err)
	}
}

func TestBookStoreIDAssignment(t *testing.T) {
	s, _ := tempBookStore(t)

	b3, err := s.Insert(models.Book{Title: "X", Author: "Y", Owner: "al"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b3.ID != 3 {
		t.Fatalf("want id 3, got %d", b3.ID)
	}

	// Deleting the highest id frees it for reuse
	if err := s.Delete(3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := s.Insert(models.Book{Title: "X2", Author: "Y2"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if again.ID != 3 {
		t.Fatalf("want reused id 3, got %d", again.ID)
	}

	// Deleting a middle id does not free it
	if err := s.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	b4, err := s.Insert(models.Book{Title: "X3", Author: "Y3"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b4.ID != 4 {
		t.Fatalf("want id 4, got %d", b4.ID)
	}
}

func TestBookStorePartialUpdate(t *testing.T) {
	s, _ := tempBookStore(t)

	updated, err := s.Update(1, models.BookUpdate{Title: strPtr("New Title")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New Title" {
		t.Fatalf("want updated title, got %q", updated.Title)
	}
	if updated.Author != "Andrew Hunt" {
		t.Fatalf("author must be unchanged, got %q", updated.Author)
	}

	// An empty update changes nothing
	same, err := s.Update(1, models.BookUpdate{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if same != updated {
		t.Fatalf("empty update changed the record: %+v != %+v", same, updated)
	}

	if _, err := s.Update(99, models.BookUpdate{Title: strPtr("Z")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBookStoreDelete(t *testing.T) {
	s, _ := tempBookStore(t)

	if err := s.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	books, _ := s.List()
	for _, b := range books {
		if b.ID == 1 {
			t.Fatalf("deleted id still listed")
		}
	}

	if err := s.Delete(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on double delete, got %v", err)
	}
}

func TestBookStoreRoundTrip(t *testing.T) {
	s, path := tempBookStore(t)

	created, err := s.Insert(models.Book{Title: "Persist Me", Author: "Someone", Owner: "al"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	before, _ := s.List()

	// Restart from the persisted state
	reopened, err := NewJSONBookStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	after, err := reopened.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(after) != len(before) {
		t.Fatalf("want %d books after restart, got %d", len(before), len(after))
	}
	got, err := reopened.Get(created.ID)
	if err != nil {
		t.Fatalf("get after restart: %v", err)
	}
	if got != created {
		t.Fatalf("record changed across restart: %+v != %+v", got, created)
	}
}

func TestBookStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := NewJSONBookStore(path)
	if err != nil {
		t.Fatalf("new book store: %v", err)
	}

	// Corrupt load falls back to empty, which is then reseeded
	books, _ := s.List()
	if len(books) != 2 {
		t.Fatalf("want reseeded store, got %d books", len(books))
	}
}

func TestBookStorePersistsParseableJSON(t *testing.T) {
	s, path := tempBookStore(t)
	if _, err := s.Insert(models.Book{Title: "A", Author: "B", Owner: "al"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		t.Fatalf("persisted file is not valid JSON: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("want 3 persisted books, got %d", len(books))
	}
}

func TestUserStoreCreateAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := NewJSONUserStore(path)
	if err != nil {
		t.Fatalf("new user store: %v", err)
	}

	u := models.User{Username: "al", PasswordHash: "$2a$10$fakehash"}
	if err := s.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(u); !errors.Is(err, ErrUserExists) {
		t.Fatalf("want ErrUserExists, got %v", err)
	}

	got, err := s.Find("al")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Fatalf("hash mismatch: %q", got.PasswordHash)
	}

	if _, err := s.Find("bo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	// Restart picks the user up from the file layout {"al": {"password_hash": ...}}
	reopened, err := NewJSONUserStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Find("al"); err != nil {
		t.Fatalf("find after restart: %v", err)
	}

	data, _ := os.ReadFile(path)
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted users file is not a mapping: %v", err)
	}
	if raw["al"]["password_hash"] != u.PasswordHash {
		t.Fatalf("unexpected file layout: %v", raw)
	}
}

func TestUserStoreMissingFileStartsEmpty(t *testing.T) {
	s, err := NewJSONUserStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("new user store: %v", err)
	}
	if _, err := s.Find("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
