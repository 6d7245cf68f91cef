package httpapi

import (
	"errors"
	"net/http"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/logging"
	"setlists/internal/setlist"
	"setlists/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{app.ErrInvalidInput, http.StatusBadRequest},
	{setlist.ErrInvalidOperation, http.StatusBadRequest},
	{setlist.ErrInvariantViolation, http.StatusBadRequest},
	{store.ErrUnknownCategory, http.StatusBadRequest},
	{store.ErrUnknownSong, http.StatusBadRequest},
	{auth.ErrUnauthenticated, http.StatusUnauthorized},
	{auth.ErrForbidden, http.StatusForbidden},
	{setlist.ErrNotFound, http.StatusNotFound},
	{store.ErrUserNotFound, http.StatusNotFound},
	{store.ErrSongNotFound, http.StatusNotFound},
	{store.ErrSetlistNotFound, http.StatusNotFound},
	{store.ErrCategoryNotFound, http.StatusNotFound},
	{store.ErrUserExists, http.StatusConflict},
	{store.ErrConflict, http.StatusConflict},
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
}
