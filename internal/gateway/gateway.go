// Package gateway is the remote boundary for tool execution. Tools run
// in a separate MCP server process; the gateway distinguishes transport
// failures (the server is unreachable) from logical tool errors (the
// tool ran and reported failure).
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrUnreachable wraps network-level failures talking to the tool
// server. Callers treat it as fatal for the turn.
var ErrUnreachable = errors.New("gateway: tool server unreachable")

// ToolError is a logical failure reported by a tool that executed.
// It is recoverable: the planner sees the message and can re-plan.
type ToolError struct {
	Name    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Name, e.Message)
}

// Gateway executes named tool calls remotely.
type Gateway interface {
	// Invoke runs one tool call. The result is the decoded JSON payload
	// when the tool returned JSON, or the raw text otherwise. A
	// *ToolError means the tool ran and failed; ErrUnreachable means it
	// never ran.
	Invoke(ctx context.Context, name string, params map[string]any) (any, error)
	Close() error
}

// MCPGateway talks to a remote MCP tool server over SSE.
type MCPGateway struct {
	session *mcp.ClientSession
	timeout time.Duration
	logger  *slog.Logger
}

var _ Gateway = (*MCPGateway)(nil)

// Connect dials the MCP tool server and performs the handshake.
func Connect(ctx context.Context, endpoint string, timeout time.Duration, logger *slog.Logger) (*MCPGateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "sahayak-agent",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.SSEClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	logger.Info("connected to tool server", "endpoint", endpoint)
	return &MCPGateway{session: session, timeout: timeout, logger: logger}, nil
}

// Invoke runs one tool call with the configured per-call timeout.
func (g *MCPGateway) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := g.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: params,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %v", ErrUnreachable, name, err)
	}
	g.logger.Debug("tool call completed", "tool", name, "duration", time.Since(start), "is_error", res.IsError)

	text := firstText(res)
	if res.IsError {
		return nil, &ToolError{Name: name, Message: text}
	}
	return decodePayload(text), nil
}

// Close tears down the session.
func (g *MCPGateway) Close() error {
	return g.session.Close()
}

func firstText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decodePayload tries to decode the tool output as JSON so structured
// results survive the round trip; plain text passes through as-is.
func decodePayload(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v
	}
	return text
}
