package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		errorClass ErrorClass
		expected   bool
	}{
		{
			name:       "client error should not retry",
			errorClass: ErrorClassClient,
			expected:   false,
		},
		{
			name:       "server error should retry",
			errorClass: ErrorClassServer,
			expected:   true,
		},
		{
			name:       "network error should retry",
			errorClass: ErrorClassNetwork,
			expected:   true,
		},
		{
			name:       "decode error should retry",
			errorClass: ErrorClassDecode,
			expected:   true,
		},
		{
			name:       "empty error class should not retry",
			errorClass: "",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shouldRetry(tt.errorClass)
			if result != tt.expected {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.errorClass, result, tt.expected)
			}
		})
	}
}

func TestNetworkError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *NetworkError
		expected string
	}{
		{
			name: "status error with wrapped error",
			err: &NetworkError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Message:    "internal server error",
				Err:        errors.New("upstream reset"),
			},
			expected: "upstream server error (status 500): internal server error: upstream reset",
		},
		{
			name: "status error without wrapped error",
			err: &NetworkError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
			},
			expected: "upstream client error (status 404): 404 Not Found",
		},
		{
			name: "transport error",
			err: &NetworkError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        io.ErrUnexpectedEOF,
			},
			expected: "upstream network error: request failed: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	netErr := &NetworkError{
		StatusCode: 500,
		ErrorClass: ErrorClassServer,
		Message:    "server error",
		Err:        wrappedErr,
	}

	if netErr.Unwrap() != wrappedErr {
		t.Errorf("Unwrap() = %v, want %v", netErr.Unwrap(), wrappedErr)
	}
	if !errors.Is(netErr, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestClassOf(t *testing.T) {
	var syntaxErr *json.SyntaxError
	decErr := &DecodeError{Path: "/posts", Err: syntaxErr}

	tests := []struct {
		name      string
		err       error
		class     ErrorClass
		retryable bool
	}{
		{
			name:      "server error",
			err:       &NetworkError{StatusCode: 503, ErrorClass: ErrorClassServer},
			class:     ErrorClassServer,
			retryable: true,
		},
		{
			name:      "wrapped network error",
			err:       fmt.Errorf("fetch: %w", &NetworkError{ErrorClass: ErrorClassNetwork, Err: io.EOF}),
			class:     ErrorClassNetwork,
			retryable: true,
		},
		{
			name:      "client error",
			err:       &NetworkError{StatusCode: 404, ErrorClass: ErrorClassClient},
			class:     ErrorClassClient,
			retryable: false,
		},
		{
			name:      "decode error",
			err:       decErr,
			class:     ErrorClassDecode,
			retryable: true,
		},
		{
			name:      "foreign error",
			err:       errors.New("boom"),
			class:     "",
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.class {
				t.Errorf("ClassOf() = %q, want %q", got, tt.class)
			}
			if got := Retryable(tt.err); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}
