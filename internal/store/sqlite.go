package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"bookshelf/internal/models"
)

// Open creates a new sqlite database handle and applies the schema.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrate runs the SQL statements to set up the database schema. The books
// table deliberately avoids AUTOINCREMENT: ids are assigned as max+1 so the
// top id is reusable after a delete.
func migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS books (
		id INTEGER NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		owner TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS users (
		username TEXT NOT NULL PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// SQLiteBookStore implements BookStore on an embedded sqlite database.
type SQLiteBookStore struct {
	db *sql.DB
}

// NewSQLiteBookStore wraps db, seeding the default records when the books
// table is empty.
func NewSQLiteBookStore(db *sql.DB) (*SQLiteBookStore, error) {
	s := &SQLiteBookStore{db: db}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if count == 0 {
		for _, b := range defaultBooks {
			if _, err := db.Exec(
				"INSERT INTO books(id, title, author, owner) VALUES(?, ?, ?, ?)",
				b.ID, b.Title, b.Author, b.Owner,
			); err != nil {
				return nil, fmt.Errorf("seed books: %w", err)
			}
		}
	}
	return s, nil
}

// List returns all books in insertion order.
func (s *SQLiteBookStore) List() ([]models.Book, error) {
	rows, err := s.db.Query("SELECT id, title, author, owner FROM books ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Owner); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Get returns the book with the given id.
func (s *SQLiteBookStore) Get(id int) (models.Book, error) {
	var b models.Book
	row := s.db.QueryRow("SELECT id, title, author, owner FROM books WHERE id = ?", id)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Owner); err != nil {
		if err == sql.ErrNoRows {
			return models.Book{}, ErrNotFound
		}
		return models.Book{}, err
	}
	return b, nil
}

// Insert assigns max(id)+1 and inserts the record. The id computation and the
// insert share a transaction so concurrent inserts cannot collide.
func (s *SQLiteBookStore) Insert(b models.Book) (models.Book, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Book{}, err
	}
	defer tx.Rollback()

	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM books").Scan(&b.ID); err != nil {
		return models.Book{}, err
	}
	if _, err := tx.Exec(
		"INSERT INTO books(id, title, author, owner) VALUES(?, ?, ?, ?)",
		b.ID, b.Title, b.Author, b.Owner,
	); err != nil {
		return models.Book{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// Update applies the non-nil fields of upd to the book with the given id.
func (s *SQLiteBookStore) Update(id int, upd models.BookUpdate) (models.Book, error) {
	b, err := s.Get(id)
	if err != nil {
		return models.Book{}, err
	}

	b = upd.Apply(b)
	if _, err := s.db.Exec(
		"UPDATE books SET title = ?, author = ? WHERE id = ?",
		b.Title, b.Author, id,
	); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// Delete removes the book with the given id.
func (s *SQLiteBookStore) Delete(id int) error {
	res, err := s.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SQLiteUserStore implements UserStore on an embedded sqlite database.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore wraps db.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

// Find returns the user with the given username.
func (s *SQLiteUserStore) Find(username string) (models.User, error) {
	var u models.User
	row := s.db.QueryRow("SELECT username, password_hash FROM users WHERE username = ?", username)
	if err := row.Scan(&u.Username, &u.PasswordHash); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Create persists a new user. The username must not already exist.
func (s *SQLiteUserStore) Create(u models.User) error {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE username = ?", u.Username).Scan(&exists)
	switch {
	case err == nil:
		return ErrUserExists
	case err != sql.ErrNoRows:
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO users(username, password_hash) VALUES(?, ?)",
		u.Username, u.PasswordHash,
	)
	return err
}
