package domain

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// ChatRequest struct - Domain request DTO for all chat endpoints.
	// Message and Images must not both be absent.
	ChatRequest struct {
		Message string
		Images  []ImageAttachment
		History []ChatMessage
		Model   *string
	}

	// ChatResponse struct - Domain response DTO for non-streaming chat
	ChatResponse struct {
		Response       string
		Model          string
		Usage          *Usage
		ImagesReceived int
	}

	// HealthStatus struct - Domain response DTO for the health probe
	HealthStatus struct {
		Status    string
		Model     string
		OllamaURL string
		Features  []string
	}

	// UpstreamStatus struct - Domain response DTO for the upstream availability probe
	UpstreamStatus struct {
		Available       bool
		ModelAvailable  bool
		AvailableModels []string
		SupportsImages  bool
	}

	// ModelDetail struct - One entry of the model overview
	ModelDetail struct {
		Name           string
		Size           int64
		Modified       string
		SupportsImages bool
		IsMultimodal   bool
	}

	// ModelOverview struct - Domain response DTO for model listing with capabilities
	ModelOverview struct {
		CurrentModel          string
		AvailableModels       []ModelDetail
		CurrentSupportsImages bool
	}

	// SwitchModelResult struct - Domain response DTO for model switch validation
	SwitchModelResult struct {
		NewModel       string
		SupportsImages bool
	}
)
