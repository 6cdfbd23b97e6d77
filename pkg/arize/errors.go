package arize

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an upstream error with the HTTP status preserved so
// callers can classify it (auth, permission, not-found).
type APIError struct {
	StatusCode int
	Endpoint   string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("arize API %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("arize API %s: HTTP %d", e.Endpoint, e.StatusCode)
}

// IsAuthError reports whether err is an upstream authentication
// failure (invalid or expired API key).
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsPermissionError reports whether err is an upstream permission
// failure (key valid but lacking access).
func IsPermissionError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFoundError reports whether err signals a missing resource.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
