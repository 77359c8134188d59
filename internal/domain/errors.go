package domain

import (
	"errors"
	"fmt"
)

// Upstream (Ollama) error taxonomy

var (
	// ErrOllamaUnavailable indicates the upstream inference server refused the connection
	ErrOllamaUnavailable = errors.New("ollama service unavailable")

	// ErrOllamaTimeout indicates a request to the upstream inference server timed out
	ErrOllamaTimeout = errors.New("ollama request timeout")

	// ErrInvalidRequest indicates an invalid client request (4xx)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrModelNotFound indicates a requested model is absent from the upstream's model list
	ErrModelNotFound = errors.New("model not found")
)

// UpstreamError carries a non-2xx upstream response verbatim so handlers
// can pass the original status and body through to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error func
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d - %s", e.StatusCode, e.Body)
}
