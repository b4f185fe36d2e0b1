package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meltforce/fittrack/internal/timer"
	"github.com/meltforce/fittrack/internal/tracker"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps service and timer errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrInvalid), errors.Is(err, timer.ErrBadIndex):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, timer.ErrLastSet), errors.Is(err, timer.ErrSetNotActive),
		errors.Is(err, timer.ErrIncomplete), errors.Is(err, timer.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, ErrSessionLimit):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// writeError writes err with the status from statusFor. Server errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErr(w, status, err.Error())
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// jsonBody decodes the request body, wrapping failures in tracker.ErrInvalid.
func jsonBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", tracker.ErrInvalid, err)
	}
	return nil
}
