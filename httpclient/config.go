package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL   string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the base URL parses as absolute http(s).
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("httpclient: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("httpclient: base_url must be an absolute http(s) URL (got: %s)", c.BaseURL)
	}
	return nil
}
