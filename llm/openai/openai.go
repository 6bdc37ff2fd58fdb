// Package openai implements llm.Provider on the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/speakmate/llm"
)

const (
	ProviderName = "openai"

	DefaultModel   = goopenai.GPT4
	defaultTimeout = 60 * time.Second
)

// Config configures the provider.
type Config struct {
	APIKey string
	// BaseURL must include the /v1 suffix.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider calls POST /chat/completions.
type Provider struct {
	client *goopenai.Client
	cfg    Config
}

var _ llm.Provider = (*Provider)(nil)

// NewProvider creates a provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Provider{client: goopenai.NewClientWithConfig(oc), cfg: cfg}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

// Complete returns the first choice of a non-streaming completion.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	msgs := req.AllMessages()
	chat := goopenai.ChatCompletionRequest{
		Model:     model,
		Messages:  make([]goopenai.ChatCompletionMessage, 0, len(msgs)),
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		chat.Temperature = float32(req.Temperature)
	}
	for _, m := range msgs {
		chat.Messages = append(chat.Messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, describe(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: completion returned no choices")
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// APIError is an upstream rejection with its HTTP status.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.Err }

func describe(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return err
}
