package memory

import (
	"context"

	"github.com/craftally/agent/internal/models"
)

// AddOwnerMessage records a message spoken by the business owner.
func AddOwnerMessage(ctx context.Context, s Store, sessionID, content, language string) (string, error) {
	return s.Append(ctx, sessionID, models.RoleUser, content, language, models.SpeakerOwner)
}

// AddCustomerMessage records a message spoken by a customer.
func AddCustomerMessage(ctx context.Context, s Store, sessionID, content, language string) (string, error) {
	return s.Append(ctx, sessionID, models.RoleUser, content, language, models.SpeakerCustomer)
}

// AddAgentMessage records a reply produced by the agent.
func AddAgentMessage(ctx context.Context, s Store, sessionID, content, language string) (string, error) {
	return s.Append(ctx, sessionID, models.RoleAssistant, content, language, models.SpeakerAgent)
}

// AddToolExchange records a round of tool calls and their outputs as a
// single tool record.
func AddToolExchange(ctx context.Context, s Store, sessionID string, calls []models.ToolCall, outputs []any) (string, error) {
	content, err := EncodeToolExchange(calls, outputs)
	if err != nil {
		return "", err
	}
	return s.Append(ctx, sessionID, models.RoleTool, content, "", models.SpeakerAgent)
}
