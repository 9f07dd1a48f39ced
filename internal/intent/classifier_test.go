package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type scriptedGenerator struct {
	reply string
	err   error
	calls int
}

func (g *scriptedGenerator) GenerateWithSystem(context.Context, string, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func someTools() []llms.Tool {
	return []llms.Tool{{Type: "function", Function: &llms.FunctionDefinition{Name: "ping"}}}
}

func TestClassifyParsesModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Intent
	}{
		{"plain tool_use", "tool_use", IntentToolUse},
		{"plain general", "general_conversation", IntentGeneralConversation},
		{"padded output", "  The intent is: tool_use\n", IntentToolUse},
		{"uppercase", "TOOL_USE", IntentToolUse},
		{"mixed mention leans tool", "this needs a tool", IntentToolUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&scriptedGenerator{reply: tt.reply})
			got, err := c.Classify(context.Background(), "message", someTools())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyUnparseableOutput(t *testing.T) {
	c := NewClassifier(&scriptedGenerator{reply: "I cannot decide"})
	_, err := c.Classify(context.Background(), "message", someTools())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassification)
}

func TestClassifyModelError(t *testing.T) {
	c := NewClassifier(&scriptedGenerator{err: errors.New("model down")})
	_, err := c.Classify(context.Background(), "message", someTools())
	assert.Error(t, err)
}

func TestEmptyCatalogSkipsModel(t *testing.T) {
	gen := &scriptedGenerator{reply: "tool_use"}
	c := NewClassifier(gen)

	got, err := c.Classify(context.Background(), "please analyze the market", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentGeneralConversation, got)
	assert.Zero(t, gen.calls, "no tools means no classification call")
}
