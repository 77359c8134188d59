package http

type (
	// ErrorResponse struct - Generic error body. Every handler-level failure
	// is shaped like this; no internal state leaks beyond Details.
	ErrorResponse struct {
		Error   string `json:"error"`
		Details string `json:"details,omitempty"`
	}

	// HealthResponse struct - HTTP response DTO for /api/health
	HealthResponse struct {
		Status    string   `json:"status"`
		Model     string   `json:"model"`
		OllamaURL string   `json:"ollama_url"`
		Features  []string `json:"features"`
	}

	// CheckOllamaResponse struct - HTTP response DTO for /api/check-ollama
	CheckOllamaResponse struct {
		OllamaStatus        string   `json:"ollama_status"`
		GemmaModelAvailable bool     `json:"gemma_model_available"`
		AvailableModels     []string `json:"available_models"`
		SupportsImages      bool     `json:"supports_images"`
	}

	// CheckOllamaErrorResponse struct - HTTP response DTO when the upstream is unreachable
	CheckOllamaErrorResponse struct {
		OllamaStatus string `json:"ollama_status"`
		Error        string `json:"error"`
	}

	// UsageResponse struct - Token accounting passthrough
	UsageResponse struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	}

	// ChatResponse struct - HTTP response DTO for /api/chat
	ChatResponse struct {
		Response       string         `json:"response"`
		Model          string         `json:"model"`
		Usage          *UsageResponse `json:"usage,omitempty"`
		ImagesReceived int            `json:"images_received"`
	}

	// MultimodalChatResponse struct - HTTP response DTO for /api/chat/multimodal
	MultimodalChatResponse struct {
		Response        string         `json:"response"`
		Model           string         `json:"model"`
		Usage           *UsageResponse `json:"usage,omitempty"`
		Multimodal      bool           `json:"multimodal"`
		ImagesProcessed int            `json:"images_processed"`
	}

	// ModelDetailResponse struct - One model entry of /api/model-info
	ModelDetailResponse struct {
		Name           string `json:"name"`
		Size           int64  `json:"size"`
		Modified       string `json:"modified"`
		SupportsImages bool   `json:"supports_images"`
		IsMultimodal   bool   `json:"is_multimodal"`
	}

	// ModelInfoResponse struct - HTTP response DTO for /api/model-info
	ModelInfoResponse struct {
		CurrentModel          string                `json:"current_model"`
		AvailableModels       []ModelDetailResponse `json:"available_models"`
		CurrentSupportsImages bool                  `json:"current_supports_images"`
	}

	// SwitchModelResponse struct - HTTP response DTO for /api/switch-model
	SwitchModelResponse struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		NewModel       string `json:"new_model"`
		SupportsImages bool   `json:"supports_images"`
	}
)
