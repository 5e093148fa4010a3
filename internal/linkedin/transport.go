package linkedin

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/talentwire/linkedin-mcp-bridge/internal/constants"
)

// cookieEnvVar is the variable the external LinkedIn MCP server reads its
// session cookie from when spawned locally.
const cookieEnvVar = "LINKEDIN_COOKIE"

// buildTransport constructs the mcp.Transport for the configured variant.
// Overridden in tests via the dialTransport package variable.
func buildTransport(cfg Config) (mcp.Transport, error) {
	switch cfg.Transport {
	case "", constants.TransportStdio:
		return buildStdioTransport(cfg)
	case constants.TransportHTTP:
		return buildHTTPTransport(cfg.HTTPURL)
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

// buildStdioTransport spawns the external server as a child process. The
// command is deliberately built without a context: the process lifetime is
// owned by the session, which reaps the child on Close.
func buildStdioTransport(cfg Config) (mcp.Transport, error) {
	command := strings.TrimSpace(cfg.Command)
	if command == "" {
		return nil, fmt.Errorf("stdio command is empty")
	}

	// #nosec G204 -- the command originates from trusted bridge config, not user input
	cmd := exec.Command(command, cfg.Args...)
	cmd.Env = os.Environ()
	for key, value := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}
	if cfg.Cookie != nil {
		if cookie := strings.TrimSpace(cfg.Cookie()); cookie != "" {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", cookieEnvVar, cookie))
		}
	}
	// Server diagnostics go to our stderr instead of being discarded; stdout
	// stays reserved for protocol frames.
	cmd.Stderr = os.Stderr

	return &mcp.CommandTransport{Command: cmd}, nil
}

func buildHTTPTransport(endpoint string) (mcp.Transport, error) {
	normalized, err := normalizeHTTPURL(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid http endpoint: %w", err)
	}
	return &mcp.StreamableClientTransport{Endpoint: normalized}, nil
}

func normalizeHTTPURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
