package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ToolCall is one tool-call descriptor in a plan: a tool name plus a
// JSON-compatible parameter object. ID is the call id assigned by the
// reasoning model, used to match results back into history; it is not
// part of the plan's identity.
type ToolCall struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// Plan is an ordered sequence of tool-call descriptors.
type Plan []ToolCall

// Canonical returns the canonical JSON serialization of the plan, with
// call ids stripped. encoding/json sorts map keys, so two plans with the
// same calls and parameters serialize identically.
func (p Plan) Canonical() (string, error) {
	stripped := make(Plan, len(p))
	for i, c := range p {
		stripped[i] = ToolCall{Name: c.Name, Parameters: c.Parameters}
	}
	b, err := json.Marshal(stripped)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Hash content-addresses the plan: the hex SHA-256 of its canonical
// serialization. Two plans with identical serialization are the same
// graph node.
func (p Plan) Hash() (string, error) {
	canonical, err := p.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}

// ParsePlan decodes a canonical plan serialization.
func ParsePlan(s string) (Plan, error) {
	var p Plan
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, err
	}
	return p, nil
}
