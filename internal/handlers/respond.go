// Package handlers exposes the payment, invoice, alert and fleet services
// over JSON HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"flowAdsBack/internal/auth"
	"flowAdsBack/internal/fleet"
	"flowAdsBack/internal/invoices"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/notify"
	"flowAdsBack/internal/payments"
	"flowAdsBack/internal/store"
)

// Logger provides minimal logging required by the handlers.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

var validate = validator.New()

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeValid decodes the body and runs the struct's validate tags.
func decodeValid(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := validate.Struct(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var formErr *payments.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.Is(err, models.ErrNoRecord):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, invoices.ErrNotPayable),
		errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.As(err, &formErr),
		errors.As(err, &fieldErrs),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidType),
		errors.Is(err, models.ErrInvalidDueDate),
		errors.Is(err, fleet.ErrInvalidRole),
		errors.Is(err, notify.ErrInvalidPhone),
		errors.Is(err, auth.ErrUnknownRole),
		store.IsForeignKeyViolation(err):
		return http.StatusBadRequest
	case errors.Is(err, fleet.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, fleet.ErrGeoDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError answers with the status matching err. Form validation errors
// carry their per-field messages.
func writeError(w http.ResponseWriter, err error) {
	var formErr *payments.ValidationError
	if errors.As(err, &formErr) {
		writeJSON(w, http.StatusBadRequest, formErr)
		return
	}
	http.Error(w, err.Error(), statusFor(err))
}
