package application

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gemma-relay/configs"
	"gemma-relay/internal/domain"
	"gemma-relay/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// visionModelFragments are substrings identifying models that accept image
// input. Matching is intentionally loose: upstream tags carry size suffixes
// (llava:7b, gemma3:4b) so exact names are useless.
var visionModelFragments = []string{
	"llava",
	"bakllava",
	"moondream",
	"minicpm-v",
	"llama3.2-vision",
	"gemma3",
	"vision",
}

// serviceFeatures advertised by the health probe
var serviceFeatures = []string{"chat", "streaming", "image-annotations"}

// ChatService struct - Application service implementing the chat relay use cases
type ChatService struct {
	ollamaClient output.OllamaClient
	systemPrompt string
	model        string
	baseURL      string
}

// NewChatService func - Creates new chat service
func NewChatService(ollamaClient output.OllamaClient, config configs.Ollama) *ChatService {
	model := config.Model
	if model == "" {
		model = "gemma3:1b"
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &ChatService{
		ollamaClient: ollamaClient,
		systemPrompt: config.SystemPrompt,
		model:        model,
		baseURL:      baseURL,
	}
}

// modelSupportsImages reports whether a model name matches a known vision fragment
func modelSupportsImages(model string) bool {
	lower := strings.ToLower(model)
	for _, fragment := range visionModelFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// composeImageAnnotation renders the textual stand-in for attached images.
// Image bytes are never sent upstream; the model only learns count, names
// and MIME types.
func composeImageAnnotation(images []domain.ImageAttachment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Attached %d image(s)]", len(images))
	for i, img := range images {
		fmt.Fprintf(&b, "\nImage %d: %s (%s)", i+1, img.Name, img.Type)
	}
	return b.String()
}

// composeMessages builds the ordered upstream message list: one system turn,
// the history passed through untouched (roles included, valid or not), then
// the current user turn. No turn is ever split or merged.
func (s *ChatService) composeMessages(request domain.ChatRequest) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(request.History)+2)

	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatRoleSystem,
		Content: s.systemPrompt,
	})
	messages = append(messages, request.History...)

	content := request.Message
	if len(request.Images) > 0 {
		annotation := composeImageAnnotation(request.Images)
		if content != "" {
			content = content + "\n\n" + annotation
		} else {
			content = annotation
		}
	}

	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatRoleUser,
		Content: content,
	})

	return messages
}

// validate rejects requests carrying neither a message nor images
func validate(request domain.ChatRequest) error {
	if request.Message == "" && len(request.Images) == 0 {
		return fmt.Errorf("%w: message is required", domain.ErrInvalidRequest)
	}
	return nil
}

// Chat func - Use case: non-streaming chat completion
func (s *ChatService) Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := validate(request); err != nil {
		return nil, err
	}

	completion, err := s.ollamaClient.Chat(ctx, domain.ChatCompletionRequest{
		Model:    request.Model,
		Messages: s.composeMessages(request),
	})
	if err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		Response:       completion.Content,
		Model:          completion.Model,
		Usage:          completion.Usage,
		ImagesReceived: len(request.Images),
	}, nil
}

// ChatStream func - Use case: streaming chat completion. Returns the live
// upstream frame feed; the relay layer owns decoding and forwarding.
func (s *ChatService) ChatStream(ctx context.Context, request domain.ChatRequest) (io.ReadCloser, error) {
	if err := validate(request); err != nil {
		return nil, err
	}

	return s.ollamaClient.ChatStream(ctx, domain.ChatCompletionRequest{
		Model:    request.Model,
		Messages: s.composeMessages(request),
	})
}

// Health func - Use case: static service health
func (s *ChatService) Health() domain.HealthStatus {
	return domain.HealthStatus{
		Status:    "ok",
		Model:     s.model,
		OllamaURL: s.baseURL,
		Features:  serviceFeatures,
	}
}

// CheckUpstream func - Use case: probe the upstream server
func (s *ChatService) CheckUpstream(ctx context.Context) (*domain.UpstreamStatus, error) {
	models, err := s.ollamaClient.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	status := &domain.UpstreamStatus{
		Available:       true,
		AvailableModels: make([]string, len(models)),
		SupportsImages:  modelSupportsImages(s.model),
	}
	for i, m := range models {
		status.AvailableModels[i] = m.Name
		if m.Name == s.model {
			status.ModelAvailable = true
		}
	}

	return status, nil
}

// ModelInfo func - Use case: list upstream models with capability flags
func (s *ChatService) ModelInfo(ctx context.Context) (*domain.ModelOverview, error) {
	models, err := s.ollamaClient.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	overview := &domain.ModelOverview{
		CurrentModel:          s.model,
		AvailableModels:       make([]domain.ModelDetail, len(models)),
		CurrentSupportsImages: modelSupportsImages(s.model),
	}
	for i, m := range models {
		supports := modelSupportsImages(m.Name)
		overview.AvailableModels[i] = domain.ModelDetail{
			Name:           m.Name,
			Size:           m.Size,
			Modified:       m.ModifiedAt,
			SupportsImages: supports,
			IsMultimodal:   supports,
		}
	}

	return overview, nil
}

// SwitchModel func - Use case: validate a model switch against the upstream
// list. Nothing is persisted; the client applies the switch locally.
func (s *ChatService) SwitchModel(ctx context.Context, model string) (*domain.SwitchModelResult, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidRequest)
	}

	models, err := s.ollamaClient.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		if m.Name == model {
			logrus.Infof("Model switch validated: %s", model)
			return &domain.SwitchModelResult{
				NewModel:       model,
				SupportsImages: modelSupportsImages(model),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
}
