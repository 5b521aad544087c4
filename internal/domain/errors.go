package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyOrder              = errors.New("order has no items")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of one submission so the
// form can be re-rendered with all messages at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ConfigurationError means a customer record cannot be ordered against,
// e.g. an empty delivery schedule.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NotFoundError reports a missing or inactive referenced record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// AuthorizationError reports an operation the acting role may not perform.
type AuthorizationError struct {
	Role      Role
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Operation)
}
