package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

const serverErrorMessage = "Server Error"

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// ValidationErrors reports every failing field at once.
type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	return strings.Join(ve.Messages(), ", ")
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// ErrOrNil returns nil when nothing was added, so callers can return it directly.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

func NewConflictError(msg string) error {
	return &ConflictError{Msg: msg}
}

func IsConflictError(err error) bool {
	var conflictError *ConflictError
	return errors.As(err, &conflictError)
}

type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return e.Msg
}

func NewAuthError(msg string) error {
	return &AuthError{Msg: msg}
}

func IsAuthError(err error) bool {
	var authError *AuthError
	return errors.As(err, &authError)
}

// UpstreamError wraps a failure of the backing store. The cause is kept for
// logging and never shown to the client.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

func IsUpstreamError(err error) bool {
	var upstreamError *UpstreamError
	return errors.As(err, &upstreamError)
}

// StatusCode maps an error kind to the HTTP status the API answers with.
func StatusCode(err error) int {
	var (
		validationError  *ValidationError
		validationErrors *ValidationErrors
		notFoundError    *NotFoundError
		conflictError    *ConflictError
		authError        *AuthError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErrors), errors.As(err, &validationError):
		return http.StatusBadRequest
	case errors.As(err, &conflictError):
		return http.StatusConflict
	case errors.As(err, &authError):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundError):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text for err. Anything that is not one of the
// known kinds collapses to a generic server error.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return serverErrorMessage
	}
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors.Error()
	}
	return err.Error()
}

// Details lists per-field messages for validation failures, nil otherwise.
func Details(err error) []string {
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors.Messages()
	}
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return []string{validationError.Msg}
	}
	return nil
}
