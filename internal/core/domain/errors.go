package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is the single outcome of a failed login, whether
	// the email is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, forged and expired bearer tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthenticated means no usable principal could be resolved for a request.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPrincipalExists   = errors.New("principal already exists")

	ErrForbidden         = errors.New("access forbidden")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrCategoryNameTaken = errors.New("a category with this name already exists")
	ErrBadCategory       = errors.New("category does not exist or does not belong to the current user")
	ErrInvalidInput      = errors.New("invalid input")
)

// ConflictError reports which unique principal fields collided at registration.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return "already in use: " + strings.Join(e.Fields, ", ")
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrPrincipalExists
}

// ValidationError describes a structurally invalid request. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
