package domain

import (
	"errors"
	"fmt"
)

// Typed errors returned by stores and services. The HTTP layer maps each
// type to one status code.

// ErrNotFound reports a missing profile, store, professional or business row.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ErrExternalService wraps a hosted backend failure that survived retries.
// Service names the table or auth endpoint, e.g. "supabase/stores".
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error { return e.Err }

type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("%s timed out", e.Operation)
}

// ErrCircuitOpen is returned without calling the backend while its breaker
// is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("%s circuit open", e.Service)
}

// ErrValidation reports bad input. Field is a JSON path such as
// "schedule[3].timeSlots" or a route parameter name.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrForbidden is an authenticated caller acting outside its role or
// tenant. RedirectTo carries the caller's landing page.
type ErrForbidden struct {
	Action     string
	RedirectTo string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrUnauthorized covers missing or invalid tokens and rejected credentials.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// ErrConflict is a duplicate sign-up or unique-key violation.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string { return e.Message }
