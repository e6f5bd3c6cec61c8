package client

import (
	"errors"
	"fmt"
)

// ErrTrailingData is wrapped by a DecodeError when a body holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a malformed response body.
	ErrorClassDecode ErrorClass = "decode"
)

// NetworkError is returned on transport failure or a non-success HTTP status.
type NetworkError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream %s error: %s: %v", e.ErrorClass, e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("upstream %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body is not the expected JSON document.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ClassOf returns the ErrorClass of err, or "" for errors not produced by this package.
func ClassOf(err error) ErrorClass {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.ErrorClass
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return ErrorClassDecode
	}
	return ""
}

// Retryable reports whether a failed request is worth repeating.
func Retryable(err error) bool {
	return shouldRetry(ClassOf(err))
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx will not change on repeat
		return false
	case ErrorClassServer:
		return true
	case ErrorClassNetwork:
		return true
	case ErrorClassDecode:
		// truncated bodies are usually transient
		return true
	default:
		return false
	}
}
