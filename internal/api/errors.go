package api

import (
	"errors"
	"net/http"
)

// Status codes used for failures that never reached an HTTP response.
const (
	StatusNetwork = 0
	StatusTimeout = http.StatusRequestTimeout
)

// Sentinels wrapped by domain-validation failures.
var (
	ErrNoData            = errors.New("no data in response")
	ErrNotFound          = errors.New("not found")
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
)

// APIError is the single error kind returned by the transport and the
// resource clients. Status is 0 for network failures, 408 for timeouts,
// the HTTP status for error responses, and the status of the rejected
// response for validation failures.
type APIError struct {
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newError(status int, message string, err error) *APIError {
	return &APIError{Message: message, Status: status, Err: err}
}

// StatusOf returns the status carried by err, or -1 if err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return StatusOf(err) == StatusTimeout
}

// IsNetwork reports whether err is a network-level failure.
func IsNetwork(err error) bool {
	return StatusOf(err) == StatusNetwork
}
