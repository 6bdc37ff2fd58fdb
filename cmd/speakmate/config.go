package main

import (
	"fmt"
	"time"

	"github.com/kbukum/speakmate/capture"
	"github.com/kbukum/speakmate/config"
	"github.com/kbukum/speakmate/practice"
	"github.com/kbukum/speakmate/validation"
)

const clientName = "speakmate"

// Config is the client configuration. Flags override the file and env.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server     string        `yaml:"server" mapstructure:"server" validate:"required,url"`
	Duration   int           `yaml:"duration" mapstructure:"duration"`
	Text       string        `yaml:"text" mapstructure:"text"`
	Category   string        `yaml:"category" mapstructure:"category"`
	List       bool          `yaml:"list" mapstructure:"list"`
	SampleRate int           `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheDir   string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	// Recorder is "arecord", "rec" or empty for the platform default.
	Recorder string `yaml:"recorder" mapstructure:"recorder" validate:"omitempty,oneof=arecord rec"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = clientName
	}
	// Logs share the terminal with the exercise output.
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Server == "" {
		c.Server = practice.DefaultServerURL
	}
	if c.Duration == 0 {
		c.Duration = practice.DefaultDuration
	}
	if c.SampleRate == 0 {
		c.SampleRate = capture.DefaultSampleRate
	}
	if c.Timeout == 0 {
		c.Timeout = practice.DefaultUploadTimeout
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := practice.ValidateDuration(c.Duration); err != nil {
		return err
	}
	if c.Category != "" {
		if _, ok := practice.Category(c.Category); !ok {
			return fmt.Errorf("unknown category %q, choose one of %v", c.Category, practice.CategoryNames())
		}
	}
	return nil
}

// device returns the capture backend named by Recorder.
func (c *Config) device() *capture.CommandDevice {
	switch c.Recorder {
	case "arecord":
		return capture.ARecord()
	case "rec":
		return capture.SoxRec()
	default:
		return capture.DefaultDevice()
	}
}
