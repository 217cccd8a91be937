package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across the SDK.
var (
	// ErrSessionExpired marks a hard session termination: the access token was
	// rejected and the refresh attempt failed. Callers are expected to route
	// the user back to sign-in; the SDK never redirects on its own.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated is returned by operations that require an
	// authenticated session before any network call is made.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is the backend's JSON error envelope, carried as a Go error.
type APIError struct {
	Status      int    `json:"-"`
	Code        string `json:"error,omitempty"`
	Description string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewAPIError builds an APIError for a response status with a backend message.
func NewAPIError(status int, code, description string) *APIError {
	return &APIError{Status: status, Code: code, Description: description}
}

// IsSessionExpired reports whether err marks a hard session termination.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// AsAPIError unwraps err into target when the chain contains an APIError.
func AsAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsValidation reports whether err is a 4xx APIError other than 401/403,
// i.e. a credential or payload validation failure the user can correct.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500 &&
		apiErr.Status != http.StatusUnauthorized && apiErr.Status != http.StatusForbidden
}
