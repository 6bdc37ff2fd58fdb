package coach

import (
	"fmt"
	"time"

	"github.com/kbukum/speakmate/storage/local"
	"github.com/kbukum/speakmate/util"
)

const (
	defaultMaxUploadSize   = "25MB"
	defaultMaxUploadBytes  = 25 * 1024 * 1024
	defaultUpstreamTimeout = 60 * time.Second
	defaultMaxInFlight     = 16
)

// Config configures the speak pipeline.
type Config struct {
	// MaxUploadSize caps the audio part, e.g. "25MB".
	MaxUploadSize string `yaml:"max_upload_size" mapstructure:"max_upload_size"`
	// UpstreamTimeout bounds each transcription and feedback call.
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" mapstructure:"upstream_timeout"`
	// MaxInFlight caps concurrent pipelines; extra requests wait.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight" validate:"gte=0"`
	// Temperature for the feedback call; 0 leaves the model default.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	// MaxTokens for the feedback call; 0 leaves the model default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	// Scratch holds uploads while they are processed.
	Scratch local.Config `yaml:"scratch" mapstructure:"scratch"`
}

func (c *Config) ApplyDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = defaultMaxUploadSize
	}
	if c.UpstreamTimeout == 0 {
		c.UpstreamTimeout = defaultUpstreamTimeout
	}
	if c.MaxInFlight == 0 {
		c.MaxInFlight = defaultMaxInFlight
	}
	c.Scratch.ApplyDefaults()
}

func (c *Config) Validate() error {
	if util.ParseSize(c.MaxUploadSize, -1) <= 0 {
		return fmt.Errorf("coach.max_upload_size %q is not a valid size", c.MaxUploadSize)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("coach.upstream_timeout must be non-negative (got: %s)", c.UpstreamTimeout)
	}
	return nil
}

// MaxUploadBytes returns MaxUploadSize in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return util.ParseSize(c.MaxUploadSize, defaultMaxUploadBytes)
}
