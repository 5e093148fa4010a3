package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// ErrInvalidArgument marks client-side validation failures. These are raised
// before any transport I/O and are never retried against the external server.
var ErrInvalidArgument = errors.New("invalid argument")

// ConnectionError reports that the transport could not be established or was
// lost mid-operation. It is not retried automatically.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection error during %s", e.Op)
	}
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports that a call exceeded its allotted duration. The caller
// may retry with a longer timeout; the client never retries internally.
type TimeoutError struct {
	Tool    string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("call %s timed out after %s", e.Tool, e.Timeout)
}

// AuthenticationError reports that the external server considers the LinkedIn
// session invalid or expired. Callers should prompt for session re-entry.
type AuthenticationError struct {
	Tool    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %s", e.Tool, e.Message)
}

// ToolError reports an application-level failure from the external server.
// Message carries the server's text verbatim for display.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

// codeAuthFailure is the JSON-RPC error code the LinkedIn MCP server uses for
// session/auth failures.
const codeAuthFailure = -32000

var authPatterns = []string{
	"authentication",
	"not logged in",
	"session expired",
	"session invalid",
	"invalid session",
	"invalid cookie",
	"li_at",
	"login required",
	"captcha",
	"security challenge",
}

func looksLikeAuthFailure(message string) bool {
	lower := strings.ToLower(message)
	for _, pattern := range authPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// classify maps a transport/protocol error into exactly one taxonomy kind.
// Caller cancellation is passed through untouched so callers can recognize
// their own signal with errors.Is(err, context.Canceled).
func classify(tool string, err error, callerCtx context.Context, timeout string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) && callerCtx.Err() != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Tool: tool, Timeout: timeout}
	}

	var wire *jsonrpc.Error
	if errors.As(err, &wire) {
		if wire.Code == codeAuthFailure || looksLikeAuthFailure(wire.Message) {
			return &AuthenticationError{Tool: tool, Message: wire.Message}
		}
		return &ToolError{Tool: tool, Message: wire.Message}
	}

	return &ConnectionError{Op: "call " + tool, Err: err}
}
