package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeArgs normalizes raw call arguments into a map regardless of how the
// SDK surfaces them on the server side. It runs on the server goroutine, so
// it must not fail the test directly.
func decodeArgs(req *mcp.CallToolRequest) map[string]any {
	data, _ := json.Marshal(req.Params.Arguments)
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	return out
}

func textResult(payload string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: payload}}}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}

// startFakeServer wires an in-memory MCP server and points the client
// transport factory at it for the duration of the test.
func startFakeServer(t *testing.T, register func(*mcp.Server)) {
	t.Helper()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	server := mcp.NewServer(&mcp.Implementation{Name: "fake-linkedin", Version: "0.0.1"}, nil)
	if register != nil {
		register(server)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		serverSession, err := server.Connect(ctx, serverTransport, nil)
		if err != nil {
			return
		}
		<-ctx.Done()
		_ = serverSession.Close()
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	previous := dialTransport
	dialTransport = func(Config) (mcp.Transport, error) { return clientTransport, nil }
	t.Cleanup(func() { dialTransport = previous })
}

func newConnectedClient(t *testing.T, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient(Config{Transport: "stdio", Command: "unused", Timeout: timeout})
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { _ = client.Disconnect() })
	return client
}

func objectSchema() map[string]any {
	return map[string]any{"type": "object"}
}

func TestCallToolNotConnected(t *testing.T) {
	client, err := NewClient(Config{Transport: "stdio", Command: "unused"})
	require.NoError(t, err)

	_, err = client.CallTool(context.Background(), "get_person_profile", map[string]any{"url": "https://example.com"})
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestCallToolReturnsPayloadUnchanged(t *testing.T) {
	var gotArgs map[string]any
	var mu sync.Mutex

	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "get_person_profile", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				mu.Lock()
				gotArgs = decodeArgs(req)
				mu.Unlock()
				return textResult(`{"name":"Jordan Example","headline":"Engineer"}`), nil
			})
	})
	client := newConnectedClient(t, 5*time.Second)

	profile, err := client.GetPersonProfile(context.Background(), "https://www.linkedin.com/in/example/")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Example", profile.Name)
	assert.Equal(t, "Engineer", profile.Headline)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]any{"url": "https://www.linkedin.com/in/example/"}, gotArgs)
}

func TestSearchJobsOmitsUnsetFields(t *testing.T) {
	var gotArgs map[string]any
	var mu sync.Mutex

	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "search_jobs", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				mu.Lock()
				gotArgs = decodeArgs(req)
				mu.Unlock()
				return textResult(`{"job_urls":["https://www.linkedin.com/jobs/view/123/"]}`), nil
			})
	})
	client := newConnectedClient(t, 5*time.Second)

	result, err := client.SearchJobs(context.Background(), JobSearchParams{
		Keywords: "Python Developer",
		Location: "Remote",
		Limit:    5,
	})
	require.NoError(t, err)
	require.Len(t, result.JobURLs, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Python Developer", gotArgs["keywords"])
	assert.Equal(t, "Remote", gotArgs["location"])
	assert.EqualValues(t, 5, gotArgs["limit"])
	_, hasTimePosted := gotArgs["time_posted"]
	assert.False(t, hasTimePosted, "unset optional fields must be omitted, not sent as null")
}

func TestWrapperValidationFailsBeforeTransport(t *testing.T) {
	dialCalls := 0
	previous := dialTransport
	dialTransport = func(cfg Config) (mcp.Transport, error) {
		dialCalls++
		return previous(cfg)
	}
	t.Cleanup(func() { dialTransport = previous })

	client, err := NewClient(Config{Transport: "stdio", Command: "unused"})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = client.GetPersonProfile(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = client.GetCompanyProfile(ctx, "not a url")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	zero, hundred := 0, 100
	_, err = client.GetCompanyPosts(ctx, "https://www.linkedin.com/company/acme/", &zero)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = client.GetCompanyPosts(ctx, "https://www.linkedin.com/company/acme/", &hundred)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = client.SearchJobs(ctx, JobSearchParams{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Zero(t, dialCalls, "validation failures must not touch the transport")
}

func TestCallToolTimeoutLeavesConnectionUsable(t *testing.T) {
	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "get_job_details", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(2 * time.Second):
					return textResult(`{"title":"too late"}`), nil
				}
			})
		server.AddTool(&mcp.Tool{Name: "close_session", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return textResult(`{"status":"closed"}`), nil
			})
	})
	client := newConnectedClient(t, 100*time.Millisecond)

	_, err := client.GetJobDetails(context.Background(), "https://www.linkedin.com/jobs/view/1/")
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)

	closed, err := client.CloseSession(context.Background())
	require.NoError(t, err, "a timed-out call must not poison subsequent calls")
	assert.Equal(t, "closed", closed.Status)
}

func TestAuthFailureMapsToAuthenticationError(t *testing.T) {
	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "get_person_profile", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return errorResult("LinkedIn session expired, please log in again"), nil
			})
		server.AddTool(&mcp.Tool{Name: "get_company_profile", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return errorResult("company page not found"), nil
			})
	})
	client := newConnectedClient(t, 5*time.Second)

	_, err := client.GetPersonProfile(context.Background(), "https://www.linkedin.com/in/example/")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	_, err = client.GetCompanyProfile(context.Background(), "https://www.linkedin.com/company/acme/")
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Message, "company page not found")
}

func TestDisconnectIdempotent(t *testing.T) {
	client, err := NewClient(Config{Transport: "stdio", Command: "unused"})
	require.NoError(t, err)

	require.NoError(t, client.Disconnect())
	require.NoError(t, client.Disconnect())

	startFakeServer(t, nil)
	require.NoError(t, client.Connect(context.Background()))
	require.NoError(t, client.Disconnect())
	require.NoError(t, client.Disconnect())
}

func TestSessionDisconnectsOnAllPaths(t *testing.T) {
	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "close_session", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return textResult(`{"status":"closed"}`), nil
			})
	})

	client, err := NewClient(Config{Transport: "stdio", Command: "unused"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = client.Session(context.Background(), func(c *Client) error {
		if _, err := c.CloseSession(context.Background()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The session must be gone: a follow-up call fails fast.
	_, err = client.CallTool(context.Background(), "close_session", nil)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestConnectFailureSurfacesConnectionError(t *testing.T) {
	previous := dialTransport
	dialTransport = func(Config) (mcp.Transport, error) { return nil, fmt.Errorf("spawn failed") }
	t.Cleanup(func() { dialTransport = previous })

	client, err := NewClient(Config{Transport: "stdio", Command: "unused"})
	require.NoError(t, err)

	err = client.Connect(context.Background())
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Contains(t, connErr.Error(), "spawn failed")
}

func TestListTools(t *testing.T) {
	startFakeServer(t, func(server *mcp.Server) {
		server.AddTool(&mcp.Tool{Name: "get_person_profile", Description: "Fetch a person profile", InputSchema: objectSchema()},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return textResult(`{}`), nil
			})
	})
	client := newConnectedClient(t, 5*time.Second)

	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "get_person_profile", tools[0].Name)
	assert.Equal(t, "Fetch a person profile", tools[0].Description)
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	_, err := NewClient(Config{Transport: "stdio"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewClient(Config{Transport: "http"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewClient(Config{Transport: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
