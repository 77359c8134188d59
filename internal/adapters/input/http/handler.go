package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"gemma-relay/internal/domain"
	"gemma-relay/internal/ports/input"
	"gemma-relay/internal/relay"
	"gemma-relay/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// ChatHandler struct - Primary/Driving adapter for HTTP
type ChatHandler struct {
	srv       input.ChatService
	validator validator.Validator
}

// New func - Creates new chat handler
func New(srv input.ChatService) *ChatHandler {
	return &ChatHandler{
		srv:       srv,
		validator: validator.New(),
	}
}

// respondError maps a domain error onto the HTTP status/error-body taxonomy
func (hdl *ChatHandler) respondError(c *fiber.Ctx, err error) error {
	var upErr *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Message is required",
		})
	case errors.Is(err, domain.ErrModelNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "Model not found",
			Details: err.Error(),
		})
	case errors.Is(err, domain.ErrOllamaUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "Ollama is not available",
			Details: "Make sure Ollama is running: ollama serve",
		})
	case errors.Is(err, domain.ErrOllamaTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{
			Error:   "Ollama request timed out",
			Details: err.Error(),
		})
	case errors.As(err, &upErr):
		// Upstream's own status and body pass through untouched
		return c.Status(upErr.StatusCode).JSON(ErrorResponse{
			Error:   "Upstream error",
			Details: upErr.Body,
		})
	default:
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
	}
}

// toDomainChatRequest converts the HTTP chat body to the domain request
func toDomainChatRequest(message string, images []ImageRequest, history []ChatTurnRequest, model *string) domain.ChatRequest {
	req := domain.ChatRequest{
		Message: message,
		Model:   model,
		Images:  make([]domain.ImageAttachment, len(images)),
		History: make([]domain.ChatMessage, len(history)),
	}
	for i, img := range images {
		req.Images[i] = domain.ImageAttachment{
			Name: img.Name,
			Type: img.Type,
			Data: img.Data,
		}
	}
	for i, turn := range history {
		req.History[i] = domain.ChatMessage{
			Role:    domain.ChatRole(turn.Role),
			Content: turn.Content,
		}
	}
	return req
}

// toUsageResponse converts domain usage stats to the HTTP DTO
func toUsageResponse(usage *domain.Usage) *UsageResponse {
	if usage == nil {
		return nil
	}
	return &UsageResponse{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
}

// HealthCheck func
// HealthCheck godoc
// @Summary Service health
// @Description Reports the configured model, upstream URL and enabled features
// @Tags SYSTEM
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
// @Produce json
func (hdl *ChatHandler) HealthCheck(c *fiber.Ctx) error {
	health := hdl.srv.Health()
	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:    health.Status,
		Model:     health.Model,
		OllamaURL: health.OllamaURL,
		Features:  health.Features,
	})
}

// CheckOllama func
// CheckOllama godoc
// @Summary Upstream availability probe
// @Description Checks whether Ollama is reachable and the configured model is present
// @Tags SYSTEM
// @Success 200 {object} CheckOllamaResponse
// @Failure 500 {object} CheckOllamaErrorResponse
// @Router /api/check-ollama [get]
// @Produce json
func (hdl *ChatHandler) CheckOllama(c *fiber.Ctx) error {
	status, err := hdl.srv.CheckUpstream(c.UserContext())
	if err != nil {
		logrus.Errorf("Ollama check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(CheckOllamaErrorResponse{
			OllamaStatus: "not_available",
			Error:        err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(CheckOllamaResponse{
		OllamaStatus:        "available",
		GemmaModelAvailable: status.ModelAvailable,
		AvailableModels:     status.AvailableModels,
		SupportsImages:      status.SupportsImages,
	})
}

// Chat func
// Chat godoc
// @Summary Non-streaming chat completion
// @Description Relays one chat turn to Ollama and returns the aggregated response
// @Tags CHAT
// @Accept application/json
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/chat [post]
// @Produce json
// @param Chat body ChatRequest true "Chat"
func (hdl *ChatHandler) Chat(c *fiber.Ctx) error {
	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body", Details: err.Error()})
	}
	if request.Message == "" && len(request.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Message is required"})
	}

	response, err := hdl.srv.Chat(c.UserContext(), toDomainChatRequest(request.Message, request.Images, request.ConversationHistory, nil))
	if err != nil {
		return hdl.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ChatResponse{
		Response:       response.Response,
		Model:          response.Model,
		Usage:          toUsageResponse(response.Usage),
		ImagesReceived: response.ImagesReceived,
	})
}

// ChatStream func
// ChatStream godoc
// @Summary Streaming chat completion
// @Description Relays one chat turn to Ollama and streams back plain text deltas
// @Tags CHAT
// @Accept application/json
// @Success 200 {string} string "text/plain stream of deltas"
// @Failure 400 {object} ErrorResponse
// @Router /api/chat/stream [post]
// @Produce plain
// @param Chat body ChatRequest true "Chat"
func (hdl *ChatHandler) ChatStream(c *fiber.Ctx) error {
	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body", Details: err.Error()})
	}
	if request.Message == "" && len(request.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Message is required"})
	}

	sessionID := uuid.NewString()

	// The upstream call is made before any response bytes are committed, so
	// pre-stream failures still map onto the normal error taxonomy. The
	// stream writer below runs after this handler returns; it must not touch
	// the request context, which fasthttp recycles.
	upstream, err := hdl.srv.ChatStream(context.Background(), toDomainChatRequest(request.Message, request.Images, request.ConversationHistory, nil))
	if err != nil {
		return hdl.respondError(c, err)
	}

	logrus.Infof("Streaming session %s started", sessionID)

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer upstream.Close()

		session := relay.NewSession(sessionID, w)
		if err := session.Run(context.Background(), upstream); err != nil {
			// Headers already went out as 200; the client only ever sees a
			// clean close, so the failure is logged and nothing more.
			logrus.Errorf("Streaming session %s terminated: %v", sessionID, err)
			return
		}
		logrus.Infof("Streaming session %s completed, %d frames forwarded, %d dropped",
			sessionID, session.FramesForwarded(), session.FramesDropped())
	}))

	return nil
}

// ChatMultimodal func
// ChatMultimodal godoc
// @Summary Chat completion with image annotations
// @Description Like /api/chat with an optional model override; image payloads are annotated, not transmitted
// @Tags CHAT
// @Accept application/json
// @Success 200 {object} MultimodalChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/chat/multimodal [post]
// @Produce json
// @param Chat body MultimodalChatRequest true "Chat"
func (hdl *ChatHandler) ChatMultimodal(c *fiber.Ctx) error {
	var request MultimodalChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body", Details: err.Error()})
	}
	if request.Message == "" && len(request.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Message is required"})
	}

	response, err := hdl.srv.Chat(c.UserContext(), toDomainChatRequest(request.Message, request.Images, request.ConversationHistory, request.Model))
	if err != nil {
		return hdl.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MultimodalChatResponse{
		Response:        response.Response,
		Model:           response.Model,
		Usage:           toUsageResponse(response.Usage),
		Multimodal:      true,
		ImagesProcessed: response.ImagesReceived,
	})
}

// ModelInfo func
// ModelInfo godoc
// @Summary Model listing with capability flags
// @Description Lists upstream models and whether each supports image input
// @Tags MODEL
// @Success 200 {object} ModelInfoResponse
// @Router /api/model-info [get]
// @Produce json
func (hdl *ChatHandler) ModelInfo(c *fiber.Ctx) error {
	overview, err := hdl.srv.ModelInfo(c.UserContext())
	if err != nil {
		return hdl.respondError(c, err)
	}

	models := make([]ModelDetailResponse, len(overview.AvailableModels))
	for i, m := range overview.AvailableModels {
		models[i] = ModelDetailResponse{
			Name:           m.Name,
			Size:           m.Size,
			Modified:       m.Modified,
			SupportsImages: m.SupportsImages,
			IsMultimodal:   m.IsMultimodal,
		}
	}

	return c.Status(fiber.StatusOK).JSON(ModelInfoResponse{
		CurrentModel:          overview.CurrentModel,
		AvailableModels:       models,
		CurrentSupportsImages: overview.CurrentSupportsImages,
	})
}

// SwitchModel func
// SwitchModel godoc
// @Summary Validate a model switch
// @Description Checks the requested model against the upstream list; nothing is persisted
// @Tags MODEL
// @Accept application/json
// @Success 200 {object} SwitchModelResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/switch-model [post]
// @Produce json
// @param SwitchModel body SwitchModelRequest true "SwitchModel"
func (hdl *ChatHandler) SwitchModel(c *fiber.Ctx) error {
	var request SwitchModelRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Model is required"})
	}

	result, err := hdl.srv.SwitchModel(c.UserContext(), request.Model)
	if err != nil {
		return hdl.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(SwitchModelResponse{
		Success:        true,
		Message:        fmt.Sprintf("Switched to model %s", result.NewModel),
		NewModel:       result.NewModel,
		SupportsImages: result.SupportsImages,
	})
}
