// Package httputil centralizes the JSON envelopes handlers use so transport
// responses stay consistent across modules.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"skyvault/pkg/platform/sentinel"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError translates an error into the JSON error envelope. Sentinel
// infrastructure errors map to their natural statuses; everything else is a
// 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, sentinel.ErrConflict):
		status, msg = http.StatusConflict, "conflict"
	case errors.Is(err, sentinel.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "temporarily unavailable"
	}

	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteBadRequest reports a request validation failure with its reason.
func WriteBadRequest(w http.ResponseWriter, reason string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: reason})
}

// DecodeJSON decodes the request body into T, rejecting unknown garbage
// gracefully. Returns false after writing the error response.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		WriteBadRequest(w, "invalid JSON body")
		return v, false
	}
	return v, true
}
