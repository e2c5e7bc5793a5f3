package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}

// storeError maps a store or validation error to a response. Unknown errors
// are logged and reported as a generic failure of action.
func storeError(w http.ResponseWriter, err error, action string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrAuthRequired):
		jsonError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		jsonError(w, http.StatusConflict, "email already registered")
	default:
		slog.Error("request failed", "action", action, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// tooManyRequests is the rate limiter's rejection handler.
func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusTooManyRequests, "too many requests, please wait")
}
