package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/auth"
	"bookshelf/internal/models"
	"bookshelf/internal/services"
	"bookshelf/internal/store"
)

// BookHandler handles HTTP requests for book records.
type BookHandler struct {
	service services.BookServiceProvider
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service services.BookServiceProvider) *BookHandler {
	return &BookHandler{service: service}
}

// bookID parses the {id} URL parameter. A non-integer id behaves like a
// missing record.
func bookID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// GetAll handles the request to list all books. Public.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list books")
		respondError(w, http.StatusInternalServerError, "failed to retrieve books")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	respondJSON(w, http.StatusOK, books)
}

// Get handles the request to get a single book by id. Public.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	book, err := h.service.GetBook(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	respondJSON(w, http.StatusOK, book)
}

// Create handles the request to add a new book owned by the authenticated
// identity.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	book, err := h.service.CreateBook(payload.Title, payload.Author, identity)
	if err != nil {
		if errors.Is(err, models.ErrMissingFields) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to create book")
		respondError(w, http.StatusInternalServerError, "failed to create book")
		return
	}

	respondJSON(w, http.StatusCreated, book)
}

// Update handles a partial update of a book. Only the owner may update.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	id, err := bookID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	var upd models.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	book, err := h.service.UpdateBook(id, upd, identity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "book not found")
		case errors.Is(err, services.ErrForbidden):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			log.Error().Err(err).Int("book_id", id).Msg("Failed to update book")
			respondError(w, http.StatusInternalServerError, "failed to update book")
		}
		return
	}

	respondJSON(w, http.StatusOK, book)
}

// Delete handles the request to delete a book. Only the owner may delete.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	id, err := bookID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	if err := h.service.DeleteBook(id, identity); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "book not found")
		case errors.Is(err, services.ErrForbidden):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			log.Error().Err(err).Int("book_id", id).Msg("Failed to delete book")
			respondError(w, http.StatusInternalServerError, "failed to delete book")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}
