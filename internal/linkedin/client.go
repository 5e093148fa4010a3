// Package linkedin implements the MCP tool-invocation client for the external
// LinkedIn data-extraction server: transport selection, connection lifecycle,
// typed results, and the error taxonomy every failure is mapped into.
package linkedin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/talentwire/linkedin-mcp-bridge/internal/constants"
	"github.com/talentwire/linkedin-mcp-bridge/internal/security"
)

const (
	defaultTimeout = 30 * time.Second

	// maxLimit bounds the limit argument of list-returning tools. Anything
	// larger makes the scrape take minutes and trips LinkedIn rate limits.
	maxLimit = 50
)

// connState tracks the connection lifecycle.
type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
	stateFailed
)

// Config holds client construction settings.
type Config struct {
	// Transport selects the channel variant ("stdio" or "http").
	Transport string
	// Command is the executable spawned in stdio mode.
	Command string
	// Args are arguments for the spawned command.
	Args []string
	// Env adds environment variables for the spawned server.
	Env map[string]string
	// HTTPURL is the server base URL in http mode.
	HTTPURL string
	// Timeout bounds each tool call. Defaults to 30s.
	Timeout time.Duration
	// ConnectTimeout bounds the connection handshake. Defaults to Timeout.
	ConnectTimeout time.Duration
	// Cookie, when set, supplies the li_at session cookie injected into the
	// spawned server's environment.
	Cookie func() string
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// dialTransport is overridden in tests to stub the transport factory.
var dialTransport = buildTransport

// Client is a tool-invocation client for the LinkedIn MCP server. It owns
// exactly one connection and serializes calls internally: at most one tool
// call is in flight at a time.
type Client struct {
	cfg  Config
	impl *mcp.Client

	mu      sync.Mutex
	state   connState
	session *mcp.ClientSession
}

// NewClient validates cfg and constructs a disconnected client.
func NewClient(cfg Config) (*Client, error) {
	switch cfg.Transport {
	case "", constants.TransportStdio:
		if strings.TrimSpace(cfg.Command) == "" {
			return nil, fmt.Errorf("%w: stdio transport requires a command", ErrInvalidArgument)
		}
	case constants.TransportHTTP:
		if _, err := normalizeHTTPURL(cfg.HTTPURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrInvalidArgument, cfg.Transport)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = cfg.Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	impl := mcp.NewClient(&mcp.Implementation{
		Name:    "linkedin-mcp-bridge",
		Version: "1.0.0",
	}, nil)

	return &Client{cfg: cfg, impl: impl, state: stateDisconnected}, nil
}

// Connect opens the transport and performs the protocol handshake. It is a
// no-op on an already connected client.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateConnected {
		return nil
	}
	c.state = stateConnecting

	transport, err := dialTransport(c.cfg)
	if err != nil {
		c.state = stateFailed
		return &ConnectionError{Op: "connect", Err: err}
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	session, err := c.impl.Connect(connectCtx, transport, nil)
	if err != nil {
		c.state = stateFailed
		// A handshake timeout means the connection was never established,
		// so it surfaces as a connection failure rather than a call timeout.
		return &ConnectionError{Op: "connect", Err: err}
	}

	c.session = session
	c.state = stateConnected
	c.cfg.Logger.Debug("connected to linkedin mcp server", "transport", c.cfg.Transport)
	return nil
}

// Disconnect closes the transport. Idempotent and safe to call on a client
// that never connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		c.state = stateDisconnected
		return nil
	}
	err := c.session.Close()
	c.session = nil
	c.state = stateDisconnected
	if err != nil {
		return &ConnectionError{Op: "disconnect", Err: err}
	}
	return nil
}

// Session connects, hands the client to fn, and guarantees Disconnect runs on
// every exit path once the connection was acquired.
func (c *Client) Session(ctx context.Context, fn func(*Client) error) (err error) {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if derr := c.Disconnect(); err == nil {
			err = derr
		}
	}()
	return fn(c)
}

// CallTool invokes a named tool with the given arguments, waiting up to the
// configured timeout for the correlated response. The payload is returned
// with no reshaping; failures surface as exactly one taxonomy kind.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateConnected || c.session == nil {
		return nil, &ConnectionError{Op: "call " + name, Err: fmt.Errorf("client is not connected")}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, err := c.session.CallTool(callCtx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, classify(name, err, ctx, c.cfg.Timeout.String())
	}
	c.cfg.Logger.Debug("tool call completed",
		"tool", name,
		"args", security.RedactArguments(args),
		"duration", time.Since(start),
	)

	result := newToolResult(res)
	if res.IsError {
		message := result.joinedText()
		if message == "" {
			message = "tool reported an error without a message"
		}
		if looksLikeAuthFailure(message) {
			return nil, &AuthenticationError{Tool: name, Message: message}
		}
		return nil, &ToolError{Tool: name, Message: message}
	}
	return result, nil
}

// ListTools returns the tools advertised by the external server.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateConnected || c.session == nil {
		return nil, &ConnectionError{Op: "list tools", Err: fmt.Errorf("client is not connected")}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var tools []ToolInfo
	for tool, err := range c.session.Tools(callCtx, nil) {
		if err != nil {
			return nil, classify("tools/list", err, ctx, c.cfg.Timeout.String())
		}
		info := ToolInfo{Name: tool.Name, Description: tool.Description}
		if tool.InputSchema != nil {
			if raw, err := marshalSchema(tool.InputSchema); err == nil {
				info.InputSchema = raw
			}
		}
		tools = append(tools, info)
	}
	return tools, nil
}

// GetPersonProfile fetches a person profile by its LinkedIn URL.
func (c *Client) GetPersonProfile(ctx context.Context, profileURL string) (*PersonProfile, error) {
	if err := validateProfileURL(profileURL); err != nil {
		return nil, err
	}
	res, err := c.CallTool(ctx, constants.ToolPersonProfile, map[string]any{"url": profileURL})
	if err != nil {
		return nil, err
	}
	var profile PersonProfile
	if err := res.Decode(&profile); err != nil {
		return nil, &ToolError{Tool: constants.ToolPersonProfile, Message: err.Error()}
	}
	return &profile, nil
}

// GetCompanyProfile fetches a company profile by its LinkedIn URL.
func (c *Client) GetCompanyProfile(ctx context.Context, companyURL string) (*CompanyProfile, error) {
	if err := validateProfileURL(companyURL); err != nil {
		return nil, err
	}
	res, err := c.CallTool(ctx, constants.ToolCompanyProfile, map[string]any{"url": companyURL})
	if err != nil {
		return nil, err
	}
	var company CompanyProfile
	if err := res.Decode(&company); err != nil {
		return nil, &ToolError{Tool: constants.ToolCompanyProfile, Message: err.Error()}
	}
	return &company, nil
}

// GetCompanyPosts fetches recent posts from a company feed. A nil limit is
// omitted from the arguments so the server applies its own default; a
// provided limit outside [1, 50] fails before any transport I/O.
func (c *Client) GetCompanyPosts(ctx context.Context, companyURL string, limit *int) (*CompanyPosts, error) {
	if err := validateProfileURL(companyURL); err != nil {
		return nil, err
	}
	args := map[string]any{"url": companyURL}
	if limit != nil {
		if err := validateLimit(*limit); err != nil {
			return nil, err
		}
		args["limit"] = *limit
	}
	res, err := c.CallTool(ctx, constants.ToolCompanyPosts, args)
	if err != nil {
		return nil, err
	}
	var posts CompanyPosts
	if err := res.Decode(&posts); err != nil {
		return nil, &ToolError{Tool: constants.ToolCompanyPosts, Message: err.Error()}
	}
	return &posts, nil
}

// JobSearchParams are the optional filters for SearchJobs. Zero-valued fields
// are omitted from the tool arguments entirely, never sent as null.
type JobSearchParams struct {
	Keywords   string
	Location   string
	Limit      int
	TimePosted string
}

// SearchJobs searches job postings with the given filters.
func (c *Client) SearchJobs(ctx context.Context, params JobSearchParams) (*JobSearchResult, error) {
	args := map[string]any{}
	if params.Keywords != "" {
		args["keywords"] = params.Keywords
	}
	if params.Location != "" {
		args["location"] = params.Location
	}
	if params.Limit != 0 {
		if err := validateLimit(params.Limit); err != nil {
			return nil, err
		}
		args["limit"] = params.Limit
	}
	if params.TimePosted != "" {
		args["time_posted"] = params.TimePosted
	}
	res, err := c.CallTool(ctx, constants.ToolSearchJobs, args)
	if err != nil {
		return nil, err
	}
	var result JobSearchResult
	if err := res.Decode(&result); err != nil {
		return nil, &ToolError{Tool: constants.ToolSearchJobs, Message: err.Error()}
	}
	return &result, nil
}

// GetJobDetails fetches a single job posting by its LinkedIn URL.
func (c *Client) GetJobDetails(ctx context.Context, jobURL string) (*JobDetails, error) {
	if err := validateProfileURL(jobURL); err != nil {
		return nil, err
	}
	res, err := c.CallTool(ctx, constants.ToolJobDetails, map[string]any{"url": jobURL})
	if err != nil {
		return nil, err
	}
	var details JobDetails
	if err := res.Decode(&details); err != nil {
		return nil, &ToolError{Tool: constants.ToolJobDetails, Message: err.Error()}
	}
	if details.URL == "" {
		details.URL = jobURL
	}
	return &details, nil
}

// CloseSession asks the external server to close its browser session.
func (c *Client) CloseSession(ctx context.Context) (*CloseSessionResult, error) {
	res, err := c.CallTool(ctx, constants.ToolCloseSession, map[string]any{})
	if err != nil {
		return nil, err
	}
	var closed CloseSessionResult
	if err := res.Decode(&closed); err != nil {
		// Some server versions answer with plain text instead of JSON.
		closed = CloseSessionResult{Status: "ok", Message: res.joinedText()}
	}
	return &closed, nil
}

func validateProfileURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: url must not be empty", ErrInvalidArgument)
	}
	if _, err := normalizeHTTPURL(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < 1 || limit > maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, maxLimit)
	}
	return nil
}
