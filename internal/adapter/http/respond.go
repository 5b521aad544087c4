package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freshconcept/ordering/internal/app/account"
	"github.com/freshconcept/ordering/internal/domain"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields []FieldError) {
	writeJSON(w, status, ErrorResponse{Error: message, Errors: fields})
}

// writeDomainError maps domain error kinds onto HTTP statuses. Every kind is
// recoverable at the request boundary; none is fatal to the process.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErrs domain.ValidationErrors
		validationErr  *domain.ValidationError
		notFound       *domain.NotFoundError
		configErr      *domain.ConfigurationError
		authzErr       *domain.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErrs):
		fields := make([]FieldError, len(validationErrs))
		for i, ve := range validationErrs {
			fields[i] = FieldError{Field: ve.Field, Message: ve.Message}
		}
		writeError(w, http.StatusBadRequest, "Validation failed", fields)

	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "Validation failed", []FieldError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})

	case errors.Is(err, domain.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, "Order must contain at least one item", nil)

	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error(), nil)

	case errors.As(err, &configErr):
		writeError(w, http.StatusUnprocessableEntity, configErr.Error(), nil)

	case errors.As(err, &authzErr):
		writeError(w, http.StatusForbidden, authzErr.Error(), nil)

	case errors.Is(err, domain.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)

	default:
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
