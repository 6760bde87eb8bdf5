package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassTransport represents network/connection failures.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassMalformed represents bodies that are not valid JSON.
	ErrorClassMalformed ErrorClass = "malformed"

	// ErrorClassRemote represents JSON bodies reporting an API error.
	ErrorClassRemote ErrorClass = "remote"
)

// maxExcerpt bounds the body excerpt kept on MalformedResponse.
const maxExcerpt = 256

// TransportError is returned when the request could not be completed.
// It is never retried.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("hubeau %s error: GET %s: %v", ErrorClassTransport, e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Class returns the error classification.
func (e *TransportError) Class() ErrorClass {
	return ErrorClassTransport
}

// MalformedResponse is returned when a response body is not valid JSON.
type MalformedResponse struct {
	URL        string
	StatusCode int
	Excerpt    string
	Err        error
}

// Error implements the error interface.
func (e *MalformedResponse) Error() string {
	msg := fmt.Sprintf("hubeau %s response", ErrorClassMalformed)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MalformedResponse) Unwrap() error {
	return e.Err
}

// Class returns the error classification.
func (e *MalformedResponse) Class() ErrorClass {
	return ErrorClassMalformed
}

// RemoteAPIError is returned when the API answers with an error payload.
// Payload holds the full decoded body for diagnostics.
type RemoteAPIError struct {
	URL        string
	StatusCode int
	Payload    map[string]any
}

// Error implements the error interface.
func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("hubeau %s error (status %d): %s", ErrorClassRemote, e.StatusCode, e.Message())
}

// Message returns the API's message field, or the whole payload when absent.
func (e *RemoteAPIError) Message() string {
	if msg, ok := e.Payload["message"].(string); ok && msg != "" {
		return msg
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Sprint(e.Payload)
	}
	return string(data)
}

// Class returns the error classification.
func (e *RemoteAPIError) Class() ErrorClass {
	return ErrorClassRemote
}

// classified is implemented by every error type of this package.
type classified interface {
	Class() ErrorClass
}

// ClassOf returns the ErrorClass of err, or "" when err is not a client error.
func ClassOf(err error) ErrorClass {
	var c classified
	if errors.As(err, &c) {
		return c.Class()
	}
	return ""
}

func excerpt(body []byte) string {
	if len(body) > maxExcerpt {
		return string(body[:maxExcerpt]) + "..."
	}
	return string(body)
}
