package config

// File is the top-level YAML configuration.
type File struct {
	// Server configures the backend proxy HTTP surface.
	Server ServerConfig `yaml:"server"`
	// MCP configures the connection to the external LinkedIn MCP server.
	MCP MCPConfig `yaml:"mcp"`
	// Auth configures bearer token verification.
	Auth AuthConfig `yaml:"auth"`
	// Cache configures optional response caching for read operations.
	Cache CacheConfig `yaml:"cache"`
}

// ServerConfig defines the proxy HTTP server settings.
type ServerConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// RatePerMinute limits proxied calls per bearer identity per minute.
	RatePerMinute int `yaml:"rate_per_minute"`
	// RateBurst allows short bursts above the sustained rate.
	RateBurst int `yaml:"rate_burst"`
	// SearchDelay is the pause between keywords in multi-keyword searches.
	SearchDelay string `yaml:"search_delay"`
}

// MCPConfig defines how the bridge reaches the external MCP server.
type MCPConfig struct {
	// Transport selects the client transport ("stdio" or "http").
	Transport string `yaml:"transport"`
	// Command is the executable used to spawn the server in stdio mode.
	Command string `yaml:"command"`
	// Args contains command arguments for stdio mode.
	Args []string `yaml:"args"`
	// Env adds environment variables for the spawned server.
	Env map[string]string `yaml:"env"`
	// HTTPURL is the server base URL in http mode.
	HTTPURL string `yaml:"http_url"`
	// Timeout is the per-call timeout.
	Timeout string `yaml:"timeout"`
	// ConnectTimeout limits the connection handshake.
	ConnectTimeout string `yaml:"connect_timeout"`
}

// AuthConfig defines bearer token verification settings.
type AuthConfig struct {
	// Mode selects the verifier ("remote", "static", or "none").
	Mode string `yaml:"mode"`
	// VerifyURL is the external auth provider's verification endpoint.
	VerifyURL string `yaml:"verify_url"`
	// Timeout limits the verification request.
	Timeout string `yaml:"timeout"`
	// Tokens lists accepted tokens in static mode.
	Tokens []string `yaml:"tokens"`
	// CacheTTL controls how long verified tokens are remembered.
	CacheTTL string `yaml:"cache_ttl"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Enabled toggles caching of read-operation responses.
	Enabled bool `yaml:"enabled"`
	// TTL is the entry lifetime.
	TTL string `yaml:"ttl"`
	// MaxEntries caps the cache size.
	MaxEntries int `yaml:"max_entries"`
}
