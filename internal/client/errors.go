package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport marks failures where no response envelope exists
var ErrTransport = errors.New("transport failure")

// APIError is an HTTP error status or a success:false envelope
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// IsUnauthorized reports whether err is an HTTP 401 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message returns the server-provided message carried by err, or fallback
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return fallback
}
