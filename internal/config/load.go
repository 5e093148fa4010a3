package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

// LoadFile reads, expands, and validates a YAML configuration file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return LoadBytes(raw)
}

// LoadBytes parses YAML bytes into File and validates it. References of the
// form ${VAR} are expanded from the environment before parsing, so secrets
// like verify URLs and session cookies never live in the file itself.
func LoadBytes(data []byte) (*File, error) {
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	var cfg File
	if err := yaml.Load([]byte(expanded), &cfg, yaml.WithKnownFields()); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
