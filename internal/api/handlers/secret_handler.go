package handlers

import (
	"net/http"

	"github.com/isdelr/credential-api/internal/auth"
	"github.com/rs/zerolog/log"
)

// SecretHandler serves the configured API key to authenticated callers.
// It must only be mounted behind auth.TokenManager.Middleware.
type SecretHandler struct {
	apiKey string
}

// NewSecretHandler creates a new SecretHandler.
func NewSecretHandler(apiKey string) *SecretHandler {
	return &SecretHandler{apiKey: apiKey}
}

// Get returns the API key.
func (h *SecretHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	log.Info().Str("user_id", claims.UserID).Msg("Secret accessed")
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "This is a secret API",
		"key":     h.apiKey,
	})
}
