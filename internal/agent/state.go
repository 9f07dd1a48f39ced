// Package agent implements the planning and execution loop: load
// memories, classify intent, reuse or generate a plan, execute tools,
// and re-plan until the task is done.
package agent

import (
	"encoding/json"

	"github.com/tmc/langchaingo/llms"

	"github.com/craftally/agent/internal/intent"
	"github.com/craftally/agent/internal/models"
)

// State is the accumulated conversation state for one session. It is
// checkpointed between turns so feedback corrections continue from
// where the previous turn left off.
type State struct {
	// Messages is the full conversational transcript fed to the
	// reasoning model: user requests, model turns, and tool results.
	Messages []llms.MessageContent

	// UserCommand is the original, unaugmented request of the current
	// turn. Plan graph nodes key on this text.
	UserCommand string

	// Intent is the classification of the current turn.
	Intent intent.Intent

	// CachedPlan is the reusable plan recalled for this turn, nil when
	// none matched.
	CachedPlan models.Plan

	// RecalledMemories are the similarity hits injected into the
	// current turn's request.
	RecalledMemories []string

	// LastPlan is the most recent batch of tool calls the model
	// produced this session. Feedback is recorded against it. It is
	// only overwritten when a model turn actually contains tool calls,
	// so the terminal summary turn does not erase it.
	LastPlan models.Plan
}

// appendHuman adds a user message to the transcript.
func (s *State) appendHuman(text string) {
	s.Messages = append(s.Messages, llms.TextParts(llms.ChatMessageTypeHuman, text))
}

// appendAI adds a model turn, including any tool calls it requested.
func (s *State) appendAI(text string, calls []models.ToolCall) {
	msg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if text != "" {
		msg.Parts = append(msg.Parts, llms.TextContent{Text: text})
	}
	for _, call := range calls {
		args, _ := json.Marshal(call.Parameters)
		msg.Parts = append(msg.Parts, llms.ToolCall{
			ID:   call.ID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}
	s.Messages = append(s.Messages, msg)
}

// appendToolResult adds one tool response to the transcript.
func (s *State) appendToolResult(call models.ToolCall, content string) {
	s.Messages = append(s.Messages, llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    content,
			},
		},
	})
}

// replaceLastHuman swaps the content of the most recent user message,
// used to inject recalled memories without losing the original text.
func (s *State) replaceLastHuman(text string) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llms.ChatMessageTypeHuman {
			s.Messages[i] = llms.TextParts(llms.ChatMessageTypeHuman, text)
			return
		}
	}
}

// lastHumanText returns the content of the most recent user message.
func (s *State) lastHumanText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llms.ChatMessageTypeHuman {
			for _, p := range s.Messages[i].Parts {
				if tc, ok := p.(llms.TextContent); ok {
					return tc.Text
				}
			}
		}
	}
	return ""
}
