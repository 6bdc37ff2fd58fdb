package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speakmate/config"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != serviceName {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Logging.ServiceName != serviceName {
		t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.OpenAI.TranscriptionModel != "whisper-1" || cfg.OpenAI.ChatModel != "gpt-4" {
		t.Errorf("models = %q, %q", cfg.OpenAI.TranscriptionModel, cfg.OpenAI.ChatModel)
	}
	if cfg.OpenAI.Timeout != cfg.Coach.UpstreamTimeout {
		t.Errorf("openai timeout = %v, want %v", cfg.OpenAI.Timeout, cfg.Coach.UpstreamTimeout)
	}
	if cfg.Server.WriteTimeout != 150 {
		t.Errorf("write timeout = %ds, want 150", cfg.Server.WriteTimeout)
	}
	if cfg.Transcription.Backend != BackendOpenAI || cfg.LLM.Backend != BackendOpenAI {
		t.Errorf("backends = %q, %q", cfg.Transcription.Backend, cfg.LLM.Backend)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "openai with key",
			mutate: func(c *Config) { c.OpenAI.APIKey = "sk-test" },
		},
		{
			name:    "openai without key",
			mutate:  func(*Config) {},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "local backends need no key",
			mutate: func(c *Config) {
				c.Transcription.Backend = BackendWhisper
				c.LLM.Backend = BackendOllama
			},
		},
		{
			name: "one openai backend still needs the key",
			mutate: func(c *Config) {
				c.Transcription.Backend = BackendWhisper
			},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "unknown backend",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk-test"
				c.LLM.Backend = "claude"
			},
			wantErr: "backend",
		},
		{
			name: "bad upload size",
			mutate: func(c *Config) {
				c.OpenAI.APIKey = "sk-test"
				c.Coach.MaxUploadSize = "lots"
			},
			wantErr: "max_upload_size",
		},
	}

	tests = append(tests, struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		name: "write timeout shorter than the pipeline",
		mutate: func(c *Config) {
			c.OpenAI.APIKey = "sk-test"
			c.Coach.UpstreamTimeout = 90 * time.Second
			c.Server.WriteTimeout = 150
		},
		wantErr: "write_timeout",
	})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			tc.mutate(&cfg)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_WriteTimeoutFollowsUpstream(t *testing.T) {
	cfg := Config{}
	cfg.Coach.UpstreamTimeout = 120 * time.Second
	cfg.OpenAI.APIKey = "sk-test"
	cfg.ApplyDefaults()

	if cfg.Server.WriteTimeout != 270 {
		t.Errorf("write timeout = %ds, want 270", cfg.Server.WriteTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("derived timeout should validate: %v", err)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
server:
  port: 9100
llm:
  backend: ollama
  ollama:
    model: llama3.2
coach:
  max_upload_size: 10MB
  upstream_timeout: 30s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.LLM.Backend != BackendOllama || cfg.LLM.Ollama.Model != "llama3.2" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Coach.UpstreamTimeout != 30*time.Second {
		t.Errorf("upstream timeout = %v", cfg.Coach.UpstreamTimeout)
	}
	if got := cfg.Coach.MaxUploadBytes(); got != 10*1024*1024 {
		t.Errorf("max upload = %d", got)
	}
}
