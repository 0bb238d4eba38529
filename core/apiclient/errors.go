package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned for every 401 response.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyBaseURL is returned when constructing a client without a base URL.
	ErrEmptyBaseURL = errors.New("empty API base URL")
	// ErrRequestFailed is the base error wrapped by RequestError.
	ErrRequestFailed = errors.New("request failed")
	// ErrInvalidResponse is returned when a 2xx body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response body")
)

// FieldError is a single server-side validation failure.
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// ValidationError carries the structured field errors of a 422 response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Location + ": " + f.Message
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// RequestError represents a non-2xx response that is neither a 401 nor a
// structured validation failure.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}
