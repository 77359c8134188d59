package http

type (
	// ChatTurnRequest struct - One prior conversation turn as sent by the client.
	// Roles are passed through to the upstream untouched, even unknown ones.
	ChatTurnRequest struct {
		Role    string `json:"role" form:"role"`
		Content string `json:"content" form:"content"`
	}

	// ImageRequest struct - One attached image descriptor. Data may carry a
	// base64 payload; it is accepted and dropped (only name/type are relayed
	// as text annotations).
	ImageRequest struct {
		Name string `json:"name" validate:"required" form:"name"`
		Type string `json:"type" form:"type"`
		Data string `json:"data" form:"data"`
	}

	// ChatRequest struct - HTTP request DTO for /api/chat and /api/chat/stream
	ChatRequest struct {
		Message             string            `json:"message" validate:"omitempty" form:"message"`
		Images              []ImageRequest    `json:"images" validate:"omitempty,dive" form:"images"`
		ConversationHistory []ChatTurnRequest `json:"conversation_history" validate:"omitempty,dive" form:"conversation_history"`
	}

	// MultimodalChatRequest struct - HTTP request DTO for /api/chat/multimodal,
	// same body as ChatRequest plus an optional model override
	MultimodalChatRequest struct {
		Message             string            `json:"message" validate:"omitempty" form:"message"`
		Images              []ImageRequest    `json:"images" validate:"omitempty,dive" form:"images"`
		ConversationHistory []ChatTurnRequest `json:"conversation_history" validate:"omitempty,dive" form:"conversation_history"`
		Model               *string           `json:"model" validate:"omitempty" form:"model"`
	}

	// SwitchModelRequest struct - HTTP request DTO for /api/switch-model
	SwitchModelRequest struct {
		Model string `json:"model" validate:"required" form:"model"`
	}
)
