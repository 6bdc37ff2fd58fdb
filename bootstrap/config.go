package bootstrap

import "github.com/kbukum/speakmate/config"

// Config is satisfied by any struct embedding config.ServiceConfig that
// overrides ApplyDefaults and Validate as needed.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
