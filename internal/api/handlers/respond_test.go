package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/credential-api/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestWriteError_LogsEveryOutcome(t *testing.T) {
	cases := []struct {
		err    error
		status int
		level  string
	}{
		{services.NewValidationError("username", "is required"), http.StatusBadRequest, "warn"},
		{services.ErrUsernameTaken, http.StatusConflict, "warn"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "warn"},
		{services.ErrUserNotFound, http.StatusNotFound, "warn"},
		{errors.New("socket closed"), http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		buf := captureLog(t)
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, tc.err, "Failed to register user")
		}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

		out := buf.String()
		assert.Equal(t, tc.status, rec.Code)
		assert.Contains(t, out, `"level":"`+tc.level+`"`)
		assert.Contains(t, out, `"message":"Failed to register user"`)
		assert.Contains(t, out, tc.err.Error())
		assert.Contains(t, out, `"request_id":"`)
	}
}
