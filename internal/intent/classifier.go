// Package intent classifies an incoming message as a task requiring
// tools or plain conversation.
package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Intent is the classified disposition of a user message.
type Intent string

const (
	IntentToolUse             Intent = "tool_use"
	IntentGeneralConversation Intent = "general_conversation"
)

// ErrClassification is returned when the model produced output that
// cannot be mapped onto an intent.
var ErrClassification = errors.New("intent: unclassifiable response")

// Generator is the single model capability the classifier needs.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Classifier decides whether a message needs tool planning.
type Classifier struct {
	model Generator
}

// NewClassifier builds a classifier backed by the given model.
func NewClassifier(model Generator) *Classifier {
	return &Classifier{model: model}
}

const classifySystemPrompt = `You are an expert intent classifier for an AI system that can either use specialized business tools or engage in general conversation.

CLASSIFICATION RULES:
- If the message clearly requires a tool (market analysis, content calendars, posters, file operations, messaging, pricing), classify as tool_use.
- If the message is casual talk, greetings, opinions, or chit-chat, classify as general_conversation.
- If the user mixes both, choose tool_use.
- If ambiguous, lean towards tool_use.
- Ignore irrelevant filler such as emojis or random text.

OUTPUT FORMAT:
Respond with exactly one of:
tool_use
general_conversation`

// Classify maps a user message to an intent. Sessions that offer no
// tools skip the model call entirely: without tools there is nothing
// to classify towards.
func (c *Classifier) Classify(ctx context.Context, message string, tools []llms.Tool) (Intent, error) {
	if len(tools) == 0 {
		return IntentGeneralConversation, nil
	}

	raw, err := c.model.GenerateWithSystem(ctx, classifySystemPrompt, fmt.Sprintf("USER MESSAGE:\n%q", message))
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}
	return parseIntent(raw)
}

func parseIntent(raw string) (Intent, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "tool_use"):
		return IntentToolUse, nil
	case strings.Contains(s, "general_conversation"):
		return IntentGeneralConversation, nil
	case strings.Contains(s, "tool"):
		// Mixed or sloppy output still leans tool_use.
		return IntentToolUse, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrClassification, raw)
	}
}
