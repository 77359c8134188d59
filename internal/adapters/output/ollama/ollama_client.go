package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"gemma-relay/configs"
	"gemma-relay/internal/domain"

	"github.com/sirupsen/logrus"
)

// OllamaClientAdapter struct - Output adapter for the local Ollama HTTP API.
// Stateless between calls; all mutable state lives in the request path.
type OllamaClientAdapter struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	configModel  string
	temperature  float64
	topP         float64
	timeout      time.Duration
}

// NewOllamaClientAdapter func - Creates new Ollama client adapter
func NewOllamaClientAdapter(config configs.Ollama) (*OllamaClientAdapter, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	model := config.Model
	if model == "" {
		model = "gemma3:1b"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 120 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	adapter := &OllamaClientAdapter{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		// The streaming client must not carry an overall timeout: it would
		// cut long generations mid-stream. Time-to-first-byte is bounded
		// by the response header timeout instead.
		streamClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: timeout,
			},
		},
		baseURL:     baseURL,
		configModel: model,
		temperature: config.Temperature,
		topP:        config.TopP,
		timeout:     timeout,
	}

	logrus.Infof("Ollama client adapter initialized with base URL: %s, model: %s, timeout: %v",
		baseURL, model, timeout)

	return adapter, nil
}

// classifyTransportError maps a transport-level failure onto the domain
// error taxonomy. Connection-level failures become ErrOllamaUnavailable,
// deadline hits become ErrOllamaTimeout; anything else passes through.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrOllamaTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrOllamaTimeout, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", domain.ErrOllamaUnavailable, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", domain.ErrOllamaUnavailable, err)
	}

	errMsg := strings.ToLower(err.Error())
	unavailablePatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"eof",
	}
	for _, pattern := range unavailablePatterns {
		if strings.Contains(errMsg, pattern) {
			return fmt.Errorf("%w: %v", domain.ErrOllamaUnavailable, err)
		}
	}
	if strings.Contains(errMsg, "timeout") {
		return fmt.Errorf("%w: %v", domain.ErrOllamaTimeout, err)
	}

	return err
}

// ListModels queries the /api/tags endpoint to retrieve available models from Ollama
func (a *OllamaClientAdapter) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	url := fmt.Sprintf("%s/api/tags", a.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list models request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tagsResp tagsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	models := make([]domain.ModelInfo, len(tagsResp.Models))
	for i, m := range tagsResp.Models {
		models[i] = domain.ModelInfo{
			Name:       m.Name,
			Size:       m.Size,
			ModifiedAt: m.ModifiedAt,
		}
	}

	logrus.Debugf("Listed %d models from Ollama", len(models))

	return models, nil
}

// resolveModel returns the model for one request: the per-request override
// when present, otherwise the configured model
func (a *OllamaClientAdapter) resolveModel(request domain.ChatCompletionRequest) string {
	if request.Model != nil && *request.Model != "" {
		return *request.Model
	}
	return a.configModel
}

// buildChatBody marshals the upstream /api/chat request body
func (a *OllamaClientAdapter) buildChatBody(request domain.ChatCompletionRequest, stream bool) ([]byte, string, error) {
	model := a.resolveModel(request)

	reqBody := chatAPIRequest{
		Model:    model,
		Messages: make([]chatMessageAPI, len(request.Messages)),
		Stream:   stream,
		Options: chatOptionsAPI{
			Temperature: a.temperature,
			TopP:        a.topP,
		},
	}
	for i, msg := range request.Messages {
		reqBody.Messages[i] = chatMessageAPI{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal chat request: %w", err)
	}
	return bodyBytes, model, nil
}

// Chat sends a non-streaming chat completion request to Ollama
func (a *OllamaClientAdapter) Chat(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	bodyBytes, model, err := a.buildChatBody(request, false)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/chat", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var apiResp chatAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}

	response := &domain.ChatCompletionResponse{
		Content: apiResp.Message.Content,
		Model:   model,
	}
	if apiResp.Usage != nil {
		response.Usage = &domain.Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		}
	}

	logrus.Infof("Chat completion successful, model: %s", model)

	return response, nil
}

// ChatStream sends a streaming chat completion request to Ollama and returns
// the live response body: a chunked feed of newline-delimited JSON frames.
// The caller owns the reader and must close it. Failures after this call
// returns surface as read errors on the reader, never as a late error value,
// because by then response headers have already been sent to our own caller.
func (a *OllamaClientAdapter) ChatStream(ctx context.Context, request domain.ChatCompletionRequest) (io.ReadCloser, error) {
	bodyBytes, model, err := a.buildChatBody(request, true)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/chat", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.streamClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	logrus.Infof("Started streaming chat completion with model: %s", model)

	return resp.Body, nil
}

// API request/response structures for Ollama's chat API

// chatMessageAPI represents a message in the API request
type chatMessageAPI struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptionsAPI represents sampling options for the API request
type chatOptionsAPI struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// chatAPIRequest represents the request body for /api/chat
type chatAPIRequest struct {
	Model    string           `json:"model"`
	Messages []chatMessageAPI `json:"messages"`
	Stream   bool             `json:"stream"`
	Options  chatOptionsAPI   `json:"options"`
}

// chatAPIResponse represents the response from non-streaming /api/chat
type chatAPIResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool `json:"done"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// tagsAPIResponse represents the response from /api/tags
type tagsAPIResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Size       int64  `json:"size"`
		ModifiedAt string `json:"modified_at"`
	} `json:"models"`
}
