// Package config loads service configuration with Viper.
//
// Values are layered in this order, later sources winning: registered
// defaults, config.yml, environment variables (including a discovered .env
// file) and explicitly set command-line flags.
//
//	var cfg Config
//	err := config.LoadConfig("speakmate-server", &cfg,
//	    config.WithDefaults(map[string]any{"server.port": 8000}),
//	)
//
// Environment variables map onto nested keys by splitting on underscores,
// so OPENAI_API_KEY populates openai.api_key.
package config
