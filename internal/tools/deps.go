// Package tools provides MCP tool handlers and registration for the
// business tool server.
package tools

import (
	"log/slog"

	"github.com/craftally/agent/internal/llm"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Model  *llm.Model
	Logger *slog.Logger
}

func (d *Dependencies) log() *slog.Logger {
	if d != nil && d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
