// Package models holds the shared domain types: memory records, plans,
// tool calls, and the enums that scope them.
package models

import "time"

// Role is the conversational role of a memory record.
type Role string

const (
	// RoleUser marks a record authored by the human side of the conversation.
	RoleUser Role = "USER"

	// RoleAssistant marks a record authored by the agent.
	RoleAssistant Role = "CHATBOT"

	// RoleTool marks a serialized tool exchange ({calls, outputs} pairs).
	RoleTool Role = "TOOL"
)

// SpeakerType classifies who authored a record. Distinct from Role:
// both owners and customers write RoleUser records, and retrieval is
// scoped by speaker type so the two audiences never see each other's
// history.
type SpeakerType string

const (
	SpeakerOwner    SpeakerType = "owner"
	SpeakerCustomer SpeakerType = "customer"
	SpeakerAgent    SpeakerType = "agent"
)

// SessionRole is the role a whole session runs under.
type SessionRole string

const (
	SessionOwner    SessionRole = "owner"
	SessionCustomer SessionRole = "customer"
)

// MemoryRecord is one atomic conversational event. Records are immutable
// once written; ordering within a session is by Timestamp ascending.
type MemoryRecord struct {
	ID          string      `json:"id"`
	SessionID   string      `json:"session_id"`
	Role        Role        `json:"role"`
	SpeakerType SpeakerType `json:"speaker_type"`
	Content     string      `json:"content"`
	Language    string      `json:"language"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ToolExchange pairs one tool call with the outputs it produced.
type ToolExchange struct {
	Call    ToolCall `json:"call"`
	Outputs []any    `json:"outputs"`
}

// Turn is one entry of a formatted session history. For USER/CHATBOT
// records Message is set; for TOOL records ToolResults is set.
type Turn struct {
	Role        Role           `json:"role"`
	Message     string         `json:"message,omitempty"`
	ToolResults []ToolExchange `json:"tool_results,omitempty"`
}
