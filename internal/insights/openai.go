package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"fashion-dashboard/internal/config"
)

// OpenAICompleter sends each prompt as a single user message to the chat
// completions API.
type OpenAICompleter struct {
	client *openai.Client
	cfg    config.OpenAIConfig
}

func NewOpenAICompleter(cfg config.OpenAIConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("initializing OpenAI client", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// NewCompleter returns an OpenAI completer, or one that fails every call with
// ErrNotConfigured when no API key is set.
func NewCompleter(cfg config.OpenAIConfig) Completer {
	c, err := NewOpenAICompleter(cfg)
	if err != nil {
		slog.Warn("insights disabled", "error", err)
		return unconfigured{}
	}
	return c
}

func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	slog.Debug("received completion", "finish_reason", resp.Choices[0].FinishReason, "total_tokens", resp.Usage.TotalTokens)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type unconfigured struct{}

func (unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
