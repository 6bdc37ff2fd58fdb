// Package openai implements transcription.Provider on the OpenAI audio
// transcription API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/speakmate/transcription"
)

const (
	ProviderName = "openai"

	DefaultModel   = goopenai.Whisper1
	defaultTimeout = 60 * time.Second
)

// Config configures the provider.
type Config struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for a compatible gateway. It
	// must include the /v1 suffix.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider calls POST /audio/transcriptions.
type Provider struct {
	client *goopenai.Client
	cfg    Config
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a provider. An empty API key yields a provider that
// reports itself unavailable.
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

// Transcribe uploads req.AudioPath and returns the recognized text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: req.Language,
		Prompt:   req.Prompt,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, describe(err)
	}

	out := &transcription.Response{
		Text:     resp.Text,
		Duration: resp.Duration,
		Language: resp.Language,
	}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return out, nil
}

// APIError is an upstream rejection with its HTTP status.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.Err }

// describe keeps the upstream message while exposing the status code.
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
