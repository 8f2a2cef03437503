package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"bookshelf/internal/models"
)

func tempDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteBookStoreSeedsAndAssignsIDs(t *testing.T) {
	db := tempDB(t)
	s, err := NewSQLiteBookStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	books, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("want 2 seeded books, got %d", len(books))
	}

	b, err := s.Insert(models.Book{Title: "X", Author: "Y", Owner: "al"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.ID != 3 {
		t.Fatalf("want id 3, got %d", b.ID)
	}

	// Same permissive policy as the JSON store: top id is reusable
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
}

func TestSQLiteBookStoreUpdateKeepsOwner(t *testing.T) {
	db := tempDB(t)
	s, err := NewSQLiteBookStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	created, err := s.Insert(models.Book{Title: "Mine", Author: "Me", Owner: "al"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	title := "Renamed"
	updated, err := s.Update(created.ID, models.BookUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" || updated.Author != "Me" {
		t.Fatalf("partial update wrong: %+v", updated)
	}
	if updated.Owner != "al" {
		t.Fatalf("owner changed by update: %q", updated.Owner)
	}

	if _, err := s.Update(99, models.BookUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.Delete(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSQLiteUserStore(t *testing.T) {
	db := tempDB(t)
	s := NewSQLiteUserStore(db)

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
}
