package output

import (
	"context"
	"io"

	"gemma-relay/internal/domain"
)

// OllamaClient interface - Output port
// Defines what the application needs from the local Ollama inference server:
// model listing, single-shot chat completion, and the raw streaming feed.
type OllamaClient interface {
	// ListModels queries the /api/tags endpoint to retrieve available models.
	// Returns ErrOllamaUnavailable when the connection is refused.
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)

	// Chat sends a non-streaming chat completion request and returns the
	// aggregated response. Fails with ErrOllamaUnavailable on connection
	// refusal, *UpstreamError on a non-2xx upstream response, and
	// ErrOllamaTimeout when no response arrives within the configured bound.
	Chat(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// ChatStream sends a streaming chat completion request and returns the
	// live upstream body: a chunked feed of newline-delimited JSON frames.
	// The caller owns the reader and must close it. Errors before the body
	// is delivered use the same taxonomy as Chat; once streaming has begun,
	// upstream failures surface as read errors on the returned reader.
	ChatStream(ctx context.Context, request domain.ChatCompletionRequest) (io.ReadCloser, error)
}
