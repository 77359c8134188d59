package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"gemma-relay/configs"
	"gemma-relay/internal/domain"
)

// stubOllamaClient implements the output port with canned responses
type stubOllamaClient struct {
	models    []domain.ModelInfo
	listErr   error
	lastChat  domain.ChatCompletionRequest
	chatResp  *domain.ChatCompletionResponse
	chatErr   error
	streamSrc string
}

func (s *stubOllamaClient) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	return s.models, s.listErr
}

func (s *stubOllamaClient) Chat(ctx context.Context, req domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	s.lastChat = req
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	if s.chatResp != nil {
		return s.chatResp, nil
	}
	return &domain.ChatCompletionResponse{Content: "stub", Model: "gemma3:1b"}, nil
}

func (s *stubOllamaClient) ChatStream(ctx context.Context, req domain.ChatCompletionRequest) (io.ReadCloser, error) {
	s.lastChat = req
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return io.NopCloser(strings.NewReader(s.streamSrc)), nil
}

func newTestService(stub *stubOllamaClient) *ChatService {
	return NewChatService(stub, configs.Ollama{
		BaseURL:      "http://localhost:11434",
		Model:        "gemma3:1b",
		SystemPrompt: "be helpful",
	})
}

// TestComposeEndsWithUserTurnEqualToMessage tests that with no images the
// final user turn carries the message text verbatim
func TestComposeEndsWithUserTurnEqualToMessage(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	_, err := srv.Chat(context.Background(), domain.ChatRequest{Message: "what is Go?"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	msgs := stub.lastChat.Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages (system + user), got: %d", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.Role != domain.ChatRoleUser {
		t.Errorf("expected final turn role user, got: %s", last.Role)
	}
	if last.Content != "what is Go?" {
		t.Errorf("expected final content %q, got: %q", "what is Go?", last.Content)
	}
}

// TestComposeSystemTurnFirst tests that the system prompt leads the message list
func TestComposeSystemTurnFirst(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	_, err := srv.Chat(context.Background(), domain.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	first := stub.lastChat.Messages[0]
	if first.Role != domain.ChatRoleSystem {
		t.Errorf("expected first turn role system, got: %s", first.Role)
	}
	if first.Content != "be helpful" {
		t.Errorf("expected system prompt %q, got: %q", "be helpful", first.Content)
	}
}

// TestComposeHistoryPassthrough tests that history turns are preserved in
// order with roles untouched, including a role outside the three known values
func TestComposeHistoryPassthrough(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "first"},
		{Role: domain.ChatRoleAssistant, Content: "second"},
		{Role: domain.ChatRole("tool"), Content: "third"},
	}
	_, err := srv.Chat(context.Background(), domain.ChatRequest{Message: "fourth", History: history})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	msgs := stub.lastChat.Messages
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got: %d", len(msgs))
	}
	for i, want := range history {
		got := msgs[i+1]
		if got.Role != want.Role || got.Content != want.Content {
			t.Errorf("history turn %d changed: want %+v, got %+v", i, want, got)
		}
	}
}

// TestComposeImageAnnotationLines tests that N images produce exactly N
// "Image i: name (type)" lines in input order
func TestComposeImageAnnotationLines(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	images := []domain.ImageAttachment{
		{Name: "cat.png", Type: "image/png", Data: "aWdub3JlZA=="},
		{Name: "dog.jpg", Type: "image/jpeg"},
		{Name: "bird.webp", Type: "image/webp"},
	}
	_, err := srv.Chat(context.Background(), domain.ChatRequest{Message: "look at these", Images: images})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	content := stub.lastChat.Messages[len(stub.lastChat.Messages)-1].Content

	if !strings.HasPrefix(content, "look at these\n\n") {
		t.Errorf("expected user text before annotation, got: %q", content)
	}
	if !strings.Contains(content, "[Attached 3 image(s)]") {
		t.Errorf("expected image count annotation, got: %q", content)
	}
	for i, img := range images {
		line := fmt.Sprintf("Image %d: %s (%s)", i+1, img.Name, img.Type)
		if !strings.Contains(content, line) {
			t.Errorf("expected line %q in content, got: %q", line, content)
		}
	}
	if count := strings.Count(content, "Image "); count != 3 {
		t.Errorf("expected exactly 3 image lines, got: %d", count)
	}
	// Base64 payload must never reach the model
	if strings.Contains(content, "aWdub3JlZA==") {
		t.Error("image payload leaked into composed content")
	}
}

// TestComposeImagesWithoutMessage tests that the annotation alone forms the
// user turn when no text was given
func TestComposeImagesWithoutMessage(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	_, err := srv.Chat(context.Background(), domain.ChatRequest{
		Images: []domain.ImageAttachment{{Name: "a.png", Type: "image/png"}},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	content := stub.lastChat.Messages[len(stub.lastChat.Messages)-1].Content
	if !strings.HasPrefix(content, "[Attached 1 image(s)]") {
		t.Errorf("expected annotation-only content, got: %q", content)
	}
}

// TestChatRejectsEmptyRequest tests that message and images cannot both be absent
func TestChatRejectsEmptyRequest(t *testing.T) {
	srv := newTestService(&stubOllamaClient{})

	_, err := srv.Chat(context.Background(), domain.ChatRequest{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}

	_, err = srv.ChatStream(context.Background(), domain.ChatRequest{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for stream, got: %v", err)
	}
}

// TestChatImagesReceivedCount tests the images_received echo
func TestChatImagesReceivedCount(t *testing.T) {
	stub := &stubOllamaClient{}
	srv := newTestService(stub)

	resp, err := srv.Chat(context.Background(), domain.ChatRequest{
		Message: "hi",
		Images: []domain.ImageAttachment{
			{Name: "a.png", Type: "image/png"},
			{Name: "b.png", Type: "image/png"},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.ImagesReceived != 2 {
		t.Errorf("expected 2 images received, got: %d", resp.ImagesReceived)
	}
}

// TestSwitchModelNotFound tests rejection of models absent from the upstream list
func TestSwitchModelNotFound(t *testing.T) {
	stub := &stubOllamaClient{models: []domain.ModelInfo{{Name: "gemma3:1b"}}}
	srv := newTestService(stub)

	_, err := srv.SwitchModel(context.Background(), "missing:1b")
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got: %v", err)
	}
}

// TestSwitchModelFound tests successful validation with capability flag
func TestSwitchModelFound(t *testing.T) {
	stub := &stubOllamaClient{models: []domain.ModelInfo{
		{Name: "gemma3:1b"},
		{Name: "llava:7b"},
	}}
	srv := newTestService(stub)

	result, err := srv.SwitchModel(context.Background(), "llava:7b")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.NewModel != "llava:7b" {
		t.Errorf("expected new model llava:7b, got: %s", result.NewModel)
	}
	if !result.SupportsImages {
		t.Error("expected llava:7b to support images")
	}
}

// TestCheckUpstreamReportsModelAvailability tests the availability probe
func TestCheckUpstreamReportsModelAvailability(t *testing.T) {
	stub := &stubOllamaClient{models: []domain.ModelInfo{
		{Name: "gemma3:1b"},
		{Name: "qwen2:0.5b"},
	}}
	srv := newTestService(stub)

	status, err := srv.CheckUpstream(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !status.Available {
		t.Error("expected upstream available")
	}
	if !status.ModelAvailable {
		t.Error("expected configured model to be reported available")
	}
	if len(status.AvailableModels) != 2 {
		t.Errorf("expected 2 available models, got: %d", len(status.AvailableModels))
	}
}

// TestCheckUpstreamPropagatesUnavailable tests error passthrough from the client
func TestCheckUpstreamPropagatesUnavailable(t *testing.T) {
	stub := &stubOllamaClient{listErr: domain.ErrOllamaUnavailable}
	srv := newTestService(stub)

	_, err := srv.CheckUpstream(context.Background())
	if !errors.Is(err, domain.ErrOllamaUnavailable) {
		t.Errorf("expected ErrOllamaUnavailable, got: %v", err)
	}
}

// TestModelInfoVisionFlags tests fragment-based capability detection
func TestModelInfoVisionFlags(t *testing.T) {
	stub := &stubOllamaClient{models: []domain.ModelInfo{
		{Name: "llava:7b", Size: 4733363377, ModifiedAt: "2025-01-10T08:30:00Z"},
		{Name: "qwen2:0.5b", Size: 352164041, ModifiedAt: "2025-01-12T11:00:00Z"},
	}}
	srv := newTestService(stub)

	overview, err := srv.ModelInfo(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !overview.AvailableModels[0].SupportsImages {
		t.Error("expected llava:7b flagged as image-capable")
	}
	if overview.AvailableModels[1].SupportsImages {
		t.Error("expected qwen2:0.5b flagged as text-only")
	}
	if overview.CurrentModel != "gemma3:1b" {
		t.Errorf("expected current model gemma3:1b, got: %s", overview.CurrentModel)
	}
}

// TestHealthReportsConfiguredValues tests the static health snapshot
func TestHealthReportsConfiguredValues(t *testing.T) {
	srv := newTestService(&stubOllamaClient{})

	health := srv.Health()
	if health.Status != "ok" {
		t.Errorf("expected status ok, got: %s", health.Status)
	}
	if health.Model != "gemma3:1b" {
		t.Errorf("expected model gemma3:1b, got: %s", health.Model)
	}
	if health.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected ollama URL http://localhost:11434, got: %s", health.OllamaURL)
	}
	if len(health.Features) == 0 {
		t.Error("expected non-empty feature list")
	}
}
