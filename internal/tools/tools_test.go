package tools_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftally/agent/internal/tools"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// setupSession builds a connected client session against an in-memory
// server with all tools registered. Model-backed tools fail cleanly with
// nil deps.Model, which is fine for transport-level tests.
func setupSession(t *testing.T, ctx context.Context) *mcp.ClientSession {
	t.Helper()

	impl := &mcp.Implementation{
		Name:    "test-sahayak-tools",
		Version: "0.0.1-test",
	}
	server := mcp.NewServer(impl, nil)

	deps := &tools.Dependencies{
		Model:  nil,
		Logger: testLogger(),
	}
	tools.RegisterAll(server, deps)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	go func() {
		_ = server.Run(ctx, serverTransport)
	}()
	time.Sleep(50 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestToolCatalogIsRegistered(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session := setupSession(t, ctx)

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"ping",
		"market_analyze_market",
		"market_suggest_price",
		"bizintel_generate_content_calendar",
		"bizintel_analyze_customer_feedback",
		"seo_generate_keyword_ideas",
		"design_create_poster",
		"system_get_current_directory",
		"file_system_list_files",
		"file_system_write_text_file",
		"whatsapp_send_text_message",
	} {
		assert.True(t, names[want], "tool %s should be registered", want)
	}
}

func TestPingTool(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session := setupSession(t, ctx)

	t.Run("ping returns pong", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "ping",
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		require.Len(t, result.Content, 1)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok, "content should be TextContent")
		assert.Equal(t, "pong", textContent.Text)
		assert.False(t, result.IsError)
	})

	t.Run("ping echoes input", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "ping",
			Arguments: map[string]any{"echo": "hello world"},
		})
		require.NoError(t, err)
		require.Len(t, result.Content, 1)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "hello world", textContent.Text)
	})
}

func TestFileSystemTools(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session := setupSession(t, ctx)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes", "hello.txt")

	t.Run("write creates parent directories", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name: "file_system_write_text_file",
			Arguments: map[string]any{
				"file_path": path,
				"content":   "hello from the tool server",
			},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello from the tool server", string(data))
	})

	t.Run("list shows the written file", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name: "file_system_list_files",
			Arguments: map[string]any{
				"directory_path": filepath.Join(dir, "notes"),
			},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		var listing struct {
			Files []string `json:"files"`
		}
		require.NoError(t, json.Unmarshal([]byte(textContent.Text), &listing))
		assert.Contains(t, listing.Files, "hello.txt")
	})

	t.Run("list of missing directory is a tool error", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name: "file_system_list_files",
			Arguments: map[string]any{
				"directory_path": filepath.Join(dir, "does-not-exist"),
			},
		})
		require.NoError(t, err, "logical failures surface as IsError, not transport errors")
		assert.True(t, result.IsError)
	})

	t.Run("current directory", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "system_get_current_directory",
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)
		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.NotEmpty(t, textContent.Text)
	})
}

func TestWhatsAppWithoutCredentials(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session := setupSession(t, ctx)

	t.Setenv("WHATSAPP_ACCESS_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "whatsapp_send_text_message",
		Arguments: map[string]any{
			"recipient_id": "911234567890",
			"message":      "hello",
		},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)

	textContent, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, textContent.Text, "credentials not configured")
}
