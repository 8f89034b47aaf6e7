// Package api holds the request decoding and response encoding shared by the
// HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

const maxBodyBytes = 1 << 20

// ReadValues collects the raw input of a mutating request. JSON bodies must be
// an object; anything else is read as a form post.
func ReadValues(w http.ResponseWriter, r *http.Request) (validation.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]any

		dec := json.NewDecoder(r.Body)
		dec.UseNumber()

		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("decoding json body: %w", err)
		}

		return validation.FromJSON(body), nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parsing form: %w", err)
	}

	return validation.FromForm(r.PostForm), nil
}

// IDParam reads a positive integer path parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "Invalid id")
	}

	return id, nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error     string              `json:"error"`
	Fields    []apperr.FieldError `json:"fields,omitempty"`
	Available string              `json:"available,omitempty"`
}

// WriteError maps err onto a status code. Server-side failures are logged and
// answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr         *apperr.ValidationError
		insufficient *apperr.InsufficientBalanceError
	)

	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case apperr.IsNotFound(err):
		WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &insufficient):
		WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     insufficient.Error(),
			Available: insufficient.Available.StringFixed(2),
		})
	case errors.Is(err, apperr.ErrAlreadyClaimed):
		WriteJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// BadRequest answers a body that could not be read at all.
func BadRequest(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
