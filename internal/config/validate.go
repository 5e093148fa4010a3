package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/talentwire/linkedin-mcp-bridge/internal/constants"
)

// Validate applies defaults and verifies required fields.
func Validate(cfg *File) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8001"
	}
	if cfg.Server.RatePerMinute < 0 {
		return fmt.Errorf("server.rate_per_minute must be >= 0")
	}
	if cfg.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_burst must be >= 0")
	}
	for field, value := range map[string]string{
		"server.read_timeout":  cfg.Server.ReadTimeout,
		"server.write_timeout": cfg.Server.WriteTimeout,
		"server.idle_timeout":  cfg.Server.IdleTimeout,
		"server.search_delay":  cfg.Server.SearchDelay,
	} {
		if err := checkDuration(field, value); err != nil {
			return err
		}
	}

	if cfg.MCP.Transport == "" {
		cfg.MCP.Transport = constants.TransportStdio
	}
	switch cfg.MCP.Transport {
	case constants.TransportStdio:
		if strings.TrimSpace(cfg.MCP.Command) == "" {
			return fmt.Errorf("mcp.command is required for stdio transport")
		}
	case constants.TransportHTTP:
		if err := checkURL("mcp.http_url", cfg.MCP.HTTPURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("mcp.transport must be stdio or http")
	}
	if cfg.MCP.Timeout == "" {
		cfg.MCP.Timeout = "30s"
	}
	for field, value := range map[string]string{
		"mcp.timeout":         cfg.MCP.Timeout,
		"mcp.connect_timeout": cfg.MCP.ConnectTimeout,
	} {
		if err := checkDuration(field, value); err != nil {
			return err
		}
	}

	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = constants.AuthModeRemote
	}
	switch cfg.Auth.Mode {
	case constants.AuthModeRemote:
		if err := checkURL("auth.verify_url", cfg.Auth.VerifyURL); err != nil {
			return err
		}
	case constants.AuthModeStatic:
		if len(cfg.Auth.Tokens) == 0 {
			return fmt.Errorf("auth.tokens is required for static mode")
		}
	case constants.AuthModeNone:
	default:
		return fmt.Errorf("auth.mode must be remote, static, or none")
	}
	for field, value := range map[string]string{
		"auth.timeout":   cfg.Auth.Timeout,
		"auth.cache_ttl": cfg.Auth.CacheTTL,
	} {
		if err := checkDuration(field, value); err != nil {
			return err
		}
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.TTL == "" {
			cfg.Cache.TTL = "5m"
		}
		if cfg.Cache.MaxEntries == 0 {
			cfg.Cache.MaxEntries = 1000
		}
		if cfg.Cache.MaxEntries < 0 {
			return fmt.Errorf("cache.max_entries must be >= 0")
		}
		if err := checkDuration("cache.ttl", cfg.Cache.TTL); err != nil {
			return err
		}
	}

	return nil
}

func checkDuration(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	return nil
}

func checkURL(field, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL", field)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}
