package genai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

// mockChatService implements chatService for tests.
type mockChatService struct {
	response   openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (m *mockChatService) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	m.lastParams = params
	return m.response, m.err
}

func completionWith(content string) openai.ChatCompletion {
	return openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); !errors.Is(err, ErrAPIKeyNotSet) {
		t.Errorf("expected ErrAPIKeyNotSet, got %v", err)
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	client, err := NewClient(WithAPIKey("test-key"), WithModel("test-model"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.model != "test-model" {
		t.Errorf("expected model override, got %q", client.model)
	}
}

func TestLabelIntent(t *testing.T) {
	mock := &mockChatService{response: completionWith("  hunger \n")}
	client := &Client{chat: mock, model: "test-model"}

	label, err := client.LabelIntent(context.Background(), "j'ai un petit creux", []string{"HUNGER", "CRAVING"})
	if err != nil {
		t.Fatalf("LabelIntent failed: %v", err)
	}
	if label != "HUNGER" {
		t.Errorf("expected trimmed upper-cased label, got %q", label)
	}
	if mock.lastParams.Model != "test-model" {
		t.Errorf("expected configured model in the call, got %q", mock.lastParams.Model)
	}
	if len(mock.lastParams.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(mock.lastParams.Messages))
	}
}

func TestLabelIntent_CatalogInPrompt(t *testing.T) {
	mock := &mockChatService{response: completionWith("STRESS")}
	client := &Client{chat: mock, model: "test-model"}

	if _, err := client.LabelIntent(context.Background(), "sale journée", []string{"STRESS", "FATIGUE"}); err != nil {
		t.Fatalf("LabelIntent failed: %v", err)
	}
	user := mock.lastParams.Messages[1].OfUser
	if user == nil {
		t.Fatal("expected a user message")
	}
	prompt := user.Content.OfString.Value
	if !strings.Contains(prompt, "STRESS, FATIGUE") {
		t.Errorf("expected catalog in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "sale journée") {
		t.Errorf("expected message text in prompt, got %q", prompt)
	}
}

func TestLabelIntent_APIError(t *testing.T) {
	mock := &mockChatService{err: errors.New("rate limited")}
	client := &Client{chat: mock, model: "test-model"}

	if _, err := client.LabelIntent(context.Background(), "bonjour", []string{"GREETING"}); err == nil {
		t.Error("expected error when the API call fails")
	}
}

func TestLabelIntent_NoChoices(t *testing.T) {
	mock := &mockChatService{response: openai.ChatCompletion{}}
	client := &Client{chat: mock, model: "test-model"}

	if _, err := client.LabelIntent(context.Background(), "bonjour", []string{"GREETING"}); !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected ErrNoChoicesReturned, got %v", err)
	}
}
