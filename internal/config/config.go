package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the bridge.
type Config struct {
	// ConfigPath is the path to the YAML configuration file.
	ConfigPath string `env:"LINKEDIN_BRIDGE_CONFIG" envDefault:"config.yaml"`
	// LogLevel sets the logger level.
	LogLevel string `env:"LINKEDIN_BRIDGE_LOG_LEVEL" envDefault:"info"`
	// LogFormat selects the logger output format ("json" or "text").
	LogFormat string `env:"LINKEDIN_BRIDGE_LOG_FORMAT" envDefault:"json"`
	// ShutdownTimeout controls graceful shutdown duration of the proxy.
	ShutdownTimeout time.Duration `env:"LINKEDIN_BRIDGE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
