package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"miniblog/internal/auth"
	"miniblog/internal/services"
)

// UserHandler handles registration, login and the current-user endpoint.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.Service
	secure  bool
}

// NewUserHandler creates a new UserHandler. secure controls the Secure flag
// on the auth cookie.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.Service, secure bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, secure: secure}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	if _, err := h.service.Register(payload.Username, payload.Email, payload.Password); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respondError(w, http.StatusBadRequest, "User already exists.")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully."})
}

// Login handles user authentication and token issuance. The token is both
// set as an http-only cookie and returned in the body so non-browser
// clients can use the Authorization header instead.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusBadRequest, "User not found.")
			return
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Hour),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the user identified by the presented token. The client view
// derives its logged-in state from this instead of keeping its own flag.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		respondError(w, http.StatusNotFound, "User not found.")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
