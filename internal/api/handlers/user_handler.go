package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/credential-api/internal/auth"
	"github.com/isdelr/credential-api/internal/models"
	"github.com/isdelr/credential-api/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service      services.UserServiceProvider
	tokens       *auth.TokenManager
	validator    *Validator
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, v *Validator, secureCookie bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, validator: v, secureCookie: secureCookie}
}

// LookupQuery is the query string of GET /user.
type LookupQuery struct {
	Username string `json:"username" validate:"required,max=64,nocontrol"`
}

// CredentialsPayload defines the structure for registration and login requests.
type CredentialsPayload struct {
	Username string `json:"username" validate:"required,max=64,nocontrol"`
	Password string `json:"password" validate:"required,max=128"`
}

// RegisterResponse confirms a registration. It never includes the credential.
type RegisterResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Get handles looking up a user by exact username. An unknown username
// yields 200 with a null body.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := LookupQuery{Username: r.URL.Query().Get("username")}
	if err := h.validator.Validate(q); err != nil {
		writeError(w, r, err, "Failed to validate lookup")
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), q.Username)
	if err != nil {
		writeError(w, r, err, "Failed to look up user")
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err, "Invalid registration body")
		return
	}
	if err := h.validator.Validate(payload); err != nil {
		writeError(w, r, err, "Failed to validate registration")
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err, "Failed to register user")
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message:  "User created",
		ID:       user.ID,
		Username: user.Username,
	})
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err, "Invalid login body")
		return
	}
	if err := h.validator.Validate(payload); err != nil {
		writeError(w, r, err, "Failed to validate login")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err, "Failed to authenticate user")
		return
	}

	token, err := h.tokens.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user.Public()})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err, "Failed to load user from token")
		return
	}

	WriteJSON(w, http.StatusOK, user.Public())
}
