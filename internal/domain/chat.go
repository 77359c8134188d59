package domain

// ChatRole represents the author of a conversation turn
type ChatRole string

const (
	// ChatRoleSystem - System instruction turn
	ChatRoleSystem ChatRole = "system"
	// ChatRoleUser - End-user turn
	ChatRoleUser ChatRole = "user"
	// ChatRoleAssistant - Model-generated turn
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage represents one ordered turn of a conversation.
// Turns are immutable once constructed and their order is significant.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ImageAttachment represents an image the client attached to a message.
// Only Name and Type reach the model, as a text annotation; Data is
// accepted from the client but never transmitted upstream.
type ImageAttachment struct {
	Name string
	Type string
	Data string
}

// ModelInfo represents one model known to the upstream inference server
type ModelInfo struct {
	Name       string
	Size       int64
	ModifiedAt string
}

// Usage represents upstream token accounting for one completion
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatCompletionRequest is the request handed to the upstream client.
// Model overrides the configured model when non-nil and non-empty.
type ChatCompletionRequest struct {
	Model    *string
	Messages []ChatMessage
}

// ChatCompletionResponse is the aggregated result of a non-streaming completion
type ChatCompletionResponse struct {
	Content string
	Model   string
	Usage   *Usage
}
