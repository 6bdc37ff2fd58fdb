package local

import (
	"os"
	"path/filepath"
)

// Config configures scratch storage.
type Config struct {
	// BasePath is the directory holding in-flight files. Defaults to
	// <os temp dir>/speakmate.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = filepath.Join(os.TempDir(), "speakmate")
	}
}
