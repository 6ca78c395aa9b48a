// Package ai talks to the external text-generation service that proposes candidate programs.
package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myrjola/programsmith/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrMissingCredentials is returned when no API key is configured.
	ErrMissingCredentials = errors.NewSentinel("missing generation credentials")
	// ErrNoContent is returned when the service answered without any text.
	ErrNoContent = errors.NewSentinel("response has no text content")
)

// Completer produces a single free-text completion for a system and a user message.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config configures the OpenAI client.
type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint when set, for example to point at a compatible proxy.
	BaseURL string
	Model   string
}

const defaultModel = openai.ChatModelGPT4o

// OpenAIClient is a Completer backed by the OpenAI chat completions API. It is safe for concurrent use.
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIClient builds a client from cfg. It makes no network calls.
//
// Retries are disabled: a request gets exactly one attempt and the caller decides what a failure means.
func NewOpenAIClient(cfg Config, logger *slog.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredentials
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = string(defaultModel)
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends one chat completion request and returns the text of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	c.logger.DebugContext(ctx, "sending chat completion request", slog.String("model", c.model))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion", slog.String("model", c.model))
	}

	c.logger.DebugContext(ctx, "received chat completion response",
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int64("total_tokens", completion.Usage.TotalTokens))

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", ErrNoContent
	}
	return completion.Choices[0].Message.Content, nil
}
