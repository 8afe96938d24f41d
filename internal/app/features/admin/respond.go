package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every failed API call. Applied is true when
// the edit is live in memory but could not be written to the database.
type errorBody struct {
	Error   string            `json:"error"`
	Fields  validation.Errors `json:"fields,omitempty"`
	Applied bool              `json:"applied"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeStoreError maps a content store error onto a status code.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, contentstore.ErrValidation):
		body := errorBody{Error: validationMessage(err)}
		var fields validation.Errors
		if errors.As(err, &fields) {
			body.Fields = fields
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)

	case errors.Is(err, contentstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")

	case errors.Is(err, contentstore.ErrPersistence):
		h.Log.Warn("admin edit applied but not persisted",
			zap.String("what", what),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:   "changes may not be saved",
			Applied: true,
		})

	case errors.Is(err, contentstore.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "shutting down")

	default:
		h.Log.Error("admin edit failed",
			zap.String("what", what),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage drops the sentinel prefix; the remainder names the
// failing fields.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), contentstore.ErrValidation.Error()+": ")
}

// decodeJSON reads a single JSON value from the request body. Unknown fields
// are rejected so typos do not silently do nothing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}
