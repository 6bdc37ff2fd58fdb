// Package whisper implements transcription.Provider against a self-hosted
// faster-whisper HTTP sidecar exposing POST /transcribe and GET /health.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kbukum/speakmate/httpclient"
	"github.com/kbukum/speakmate/transcription"
)

const (
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 120 * time.Second
)

// Config configures the sidecar client.
type Config struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Provider talks to the sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a sidecar provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable probes the sidecar's health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

type sidecarResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe streams the audio file to the sidecar.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	fields := map[string]string{"model": model}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Prompt != "" {
		fields["initial_prompt"] = req.Prompt
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files:  []httpclient.FileField{{FieldName: "audio", FileName: "audio.wav", ContentType: "audio/wav", Reader: f}},
		},
	})
	if err != nil {
		if resp != nil && len(resp.Body) > 0 {
			return nil, fmt.Errorf("whisper sidecar: %w: %s", err, resp.Body)
		}
		return nil, fmt.Errorf("whisper sidecar: %w", err)
	}

	var sr sidecarResponse
	if err := json.Unmarshal(resp.Body, &sr); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	out := &transcription.Response{Text: sr.Text, Language: sr.Language}
	for _, s := range sr.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	if n := len(out.Segments); n > 0 {
		out.Duration = out.Segments[n-1].End
	}
	return out, nil
}
