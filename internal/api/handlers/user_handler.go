package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/models"
	"github.com/geodesk/spatial-api/internal/services"
)

// UserHandler handles registration and token issuance.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// CredentialsPayload defines the structure for register and token requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the bearer-token grant returned by Token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			respondDetail(w, http.StatusBadRequest, "Username already registered")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondDetail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Token handles credential verification and bearer token issuance.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			respondDetail(w, http.StatusBadRequest, "Incorrect username or password")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Authentication lookup failed")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to sign token")
		respondDetail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// decodeCredentials accepts either a JSON body or an OAuth2-style form
// (username/password fields).
func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsPayload, bool) {
	var payload CredentialsPayload

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid form body")
			return payload, false
		}
		payload.Username = r.PostFormValue("username")
		payload.Password = r.PostFormValue("password")
	} else if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return payload, false
	}

	if payload.Username == "" || payload.Password == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return payload, false
	}
	return payload, true
}
