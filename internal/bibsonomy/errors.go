package bibsonomy

import (
	"errors"
	"fmt"
)

// Common errors returned by the BibSonomy client.
var (
	// ErrNotFound indicates the post, document, or preview does not exist.
	ErrNotFound = errors.New("not found in BibSonomy")

	// ErrAuthError indicates a missing or invalid API key.
	ErrAuthError = errors.New("BibSonomy authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("BibSonomy rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with BibSonomy")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from BibSonomy")
)

// APIError represents an error response from the BibSonomy REST API.
type APIError struct {
	StatusCode int
	Message    string
	Resource   string // Path of the resource for context
}

func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("BibSonomy API error (status %d): %s (resource: %s)", e.StatusCode, e.Message, e.Resource)
	}
	return fmt.Sprintf("BibSonomy API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
