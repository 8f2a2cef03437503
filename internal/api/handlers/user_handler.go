package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/auth"
	"bookshelf/internal/services"
	"bookshelf/internal/store"
)

// UserHandler handles registration and login requests.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenIssuer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// AuthPayload defines the structure for register and login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "both 'username' and 'password' are required")
		return
	}

	if err := h.service.Register(payload.Username, payload.Password); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			respondError(w, http.StatusBadRequest, "username already exists")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "user registered"})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "both 'username' and 'password' are required")
		return
	}

	user, err := h.service.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
