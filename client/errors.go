package client

import "errors"

// ErrUnauthorized marks a response whose status says the caller's
// credentials are missing, invalid, or expired. Detection matches
// http.StatusUnauthorized exactly.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is the normalized failure shape every operation returns.
// Message holds the most specific text available: the response body's
// message, else the transport error, else a generic fallback.
type APIError struct {
	Message    string
	Code       string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable message for display. The
// session controller reads it through errors.As without importing this
// package.
func (e *APIError) UserMessage() string {
	return e.Message
}
