package main

import (
	"fmt"
	"time"

	"github.com/kbukum/speakmate/coach"
	"github.com/kbukum/speakmate/config"
	"github.com/kbukum/speakmate/llm/ollama"
	"github.com/kbukum/speakmate/observability"
	"github.com/kbukum/speakmate/server"
	"github.com/kbukum/speakmate/transcription/whisper"
	"github.com/kbukum/speakmate/validation"
)

const (
	serviceName    = "speakmate-server"
	pipelineMargin = 30 * time.Second
)

// Backend names.
const (
	BackendOpenAI  = "openai"
	BackendWhisper = "whisper"
	BackendOllama  = "ollama"
)

// Config is the server configuration.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	OpenAI        OpenAIConfig         `yaml:"openai" mapstructure:"openai"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	LLM           LLMConfig            `yaml:"llm" mapstructure:"llm"`
	Coach         coach.Config         `yaml:"coach" mapstructure:"coach"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// OpenAIConfig holds the credential and models for the OpenAI backends.
type OpenAIConfig struct {
	APIKey             string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL            string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	TranscriptionModel string        `yaml:"transcription_model" mapstructure:"transcription_model"`
	ChatModel          string        `yaml:"chat_model" mapstructure:"chat_model"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TranscriptionConfig selects the speech-to-text backend.
type TranscriptionConfig struct {
	Backend string         `yaml:"backend" mapstructure:"backend" validate:"oneof=openai whisper"`
	Whisper whisper.Config `yaml:"whisper" mapstructure:"whisper"`
}

// LLMConfig selects the feedback backend.
type LLMConfig struct {
	Backend string        `yaml:"backend" mapstructure:"backend" validate:"oneof=openai ollama"`
	Ollama  ollama.Config `yaml:"ollama" mapstructure:"ollama"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Coach.ApplyDefaults()
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = int(c.pipelineBudget().Seconds())
	}
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = c.Coach.UpstreamTimeout
	}
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = BackendOpenAI
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = BackendOpenAI
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Coach.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if budget := c.pipelineBudget(); time.Duration(c.Server.WriteTimeout)*time.Second < budget {
		return fmt.Errorf("server.write_timeout (%ds) must cover both upstream calls plus margin (%s)",
			c.Server.WriteTimeout, budget)
	}
	if c.needsOpenAI() && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required: set OPENAI_API_KEY in the environment or .env")
	}
	return nil
}

// pipelineBudget is the longest a /speak response may take: two upstream
// calls plus time for staging and writing.
func (c *Config) pipelineBudget() time.Duration {
	return 2*c.Coach.UpstreamTimeout + pipelineMargin
}

func (c *Config) needsOpenAI() bool {
	return c.Transcription.Backend == BackendOpenAI || c.LLM.Backend == BackendOpenAI
}
