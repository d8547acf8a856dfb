package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/credential-api/internal/services"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies; credentials are small.
const maxBodyBytes = 4 << 10

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteJSONError writes an ErrorResponse with the given status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps a service error to a status code. Only the messages of
// known client errors reach the caller; anything else is reported as a
// generic 500. Every outcome is logged with the request id.
func writeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	status, msg := http.StatusInternalServerError, "internal server error"

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Error()
	case errors.Is(err, services.ErrUsernameTaken):
		status, msg = http.StatusConflict, services.ErrUsernameTaken.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrUserNotFound):
		status, msg = http.StatusNotFound, services.ErrUserNotFound.Error()
	}

	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(logMsg)

	WriteJSONError(w, status, msg)
}

// decodeJSON reads exactly one JSON object into dst. Bodies must be
// application/json, small, and free of unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return services.NewValidationError("", "content type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			return services.NewValidationError(typeErr.Field, fmt.Sprintf("must be a %s", typeErr.Type))
		case errors.As(err, &maxErr):
			return services.NewValidationError("", "request body too large")
		case errors.Is(err, io.EOF):
			return services.NewValidationError("", "request body is empty")
		default:
			return services.NewValidationError("", "invalid request body")
		}
	}
	if dec.More() {
		return services.NewValidationError("", "request body must contain a single JSON object")
	}
	return nil
}
