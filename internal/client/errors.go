package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyViewResult is returned when a view function yields no values
var ErrEmptyViewResult = errors.New("view function returned no values")

// NetworkError is returned when the node answers with a non-2xx status
type NetworkError struct {
	Endpoint   string
	StatusCode int
	ErrorCode  string // node error_code, when the body carries one
	Message    string
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("node request %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("node request %s failed with status %d", e.Endpoint, e.StatusCode)
}

// TransportError is returned when the request never completed (DNS, reset, timeout)
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("node request %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if error is NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTransportError checks if error is TransportError
func IsTransportError(err error) bool {
	var trErr *TransportError
	return errors.As(err, &trErr)
}

// IsNotFound checks if the node reported the requested account or resource as missing
func IsNotFound(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound
}
