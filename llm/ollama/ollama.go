// Package ollama implements llm.Provider against a local Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/speakmate/httpclient"
	"github.com/kbukum/speakmate/llm"
)

const (
	ProviderName = "ollama"

	defaultURL     = "http://localhost:11434"
	defaultModel   = "llama3"
	defaultTimeout = 120 * time.Second
)

// Config configures the provider.
type Config struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Provider calls POST /api/chat without streaming.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ llm.Provider = (*Provider)(nil)

// NewProvider creates an Ollama provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable lists local models as a reachability probe.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/api/tags"})
	return err == nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         llm.Message `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// Complete sends the conversation and returns the assistant reply.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	body := chatRequest{Model: p.cfg.Model, Messages: req.AllMessages()}
	if req.Model != "" {
		body.Model = req.Model
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		body.Options = &chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}

	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/chat", Body: body})
	if err != nil {
		if resp != nil && len(resp.Body) > 0 {
			return nil, fmt.Errorf("ollama chat: %w: %s", err, resp.Body)
		}
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body, &cr); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	return &llm.CompletionResponse{
		Content: cr.Message.Content,
		Model:   cr.Model,
		Usage: llm.Usage{
			PromptTokens:     cr.PromptEvalCount,
			CompletionTokens: cr.EvalCount,
			TotalTokens:      cr.PromptEvalCount + cr.EvalCount,
		},
	}, nil
}
