// Package genai provides the optional delegated intent-labeling call.
//
// The classifier works fully offline on lexical rules; when a client from
// this package is configured it may be consulted for low-confidence turns.
package genai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Error variables for better error handling and testability.
var (
	ErrAPIKeyNotSet      = errors.New("OPENAI_API_KEY not set")
	ErrNoChoicesReturned = errors.New("no choices returned")
)

const intentSystemPrompt = "You label short wellness-coach messages in French or English. " +
	"Reply with exactly one label from the provided list, nothing else."

// chatService defines the minimal interface for chat completions.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error)
}

// openaiChatService adapts the OpenAI SDK to chatService.
type openaiChatService struct {
	client openai.Client
}

func (s *openaiChatService) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletion{}, err
	}
	return *resp, nil
}

// Opts holds configuration for the GenAI client.
type Opts struct {
	APIKey string
	Model  string
}

// Option configures the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the API key explicitly instead of reading the environment.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// Client wraps the OpenAI chat completion service for intent labeling.
type Client struct {
	chat  chatService
	model string
}

// NewClient initializes a GenAI client. The API key comes from options or the
// OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{chat: &openaiChatService{client: cli}, model: cfg.Model}, nil
}

// LabelIntent asks the model to pick exactly one label from the catalog for
// the given user message. The returned label is upper-cased and trimmed but
// not verified against the catalog; callers must validate it.
func (c *Client) LabelIntent(ctx context.Context, text string, catalog []string) (string, error) {
	userPrompt := fmt.Sprintf("Labels: %s\n\nMessage: %s", strings.Join(catalog, ", "), text)
	resp, err := c.chat.Create(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(intentSystemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("intent labeling call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoicesReturned
	}
	return strings.ToUpper(strings.TrimSpace(resp.Choices[0].Message.Content)), nil
}
