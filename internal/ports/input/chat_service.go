package input

import (
	"context"
	"io"

	"gemma-relay/internal/domain"
)

// ChatService interface - Input port
// Defines the chat relay use cases exposed to the HTTP adapter.
type ChatService interface {
	// Chat runs a non-streaming completion: composes the message list
	// (system prompt + history + current turn with image annotations) and
	// returns the aggregated upstream response.
	Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)

	// ChatStream starts a streaming completion and returns the live
	// upstream frame feed for the relay to consume. The caller must close
	// the returned reader.
	ChatStream(ctx context.Context, request domain.ChatRequest) (io.ReadCloser, error)

	// Health reports static service health (configured model, upstream URL, features).
	Health() domain.HealthStatus

	// CheckUpstream probes the upstream server and reports availability,
	// whether the configured model is present, and image support.
	CheckUpstream(ctx context.Context) (*domain.UpstreamStatus, error)

	// ModelInfo lists upstream models with vision-capability flags.
	ModelInfo(ctx context.Context) (*domain.ModelOverview, error)

	// SwitchModel validates that a model exists upstream. The switch is
	// informational only; no server-side state changes.
	SwitchModel(ctx context.Context, model string) (*domain.SwitchModelResult, error)
}
