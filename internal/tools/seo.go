package tools

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// KeywordIdeasInput defines the input schema for
// seo_generate_keyword_ideas.
type KeywordIdeasInput struct {
	Topic string `json:"topic" jsonschema:"required,The product or topic to generate search keywords for"`
	Count int    `json:"count,omitempty" jsonschema:"How many keyword ideas to produce (default 10)"`
}

const keywordPrompt = `You are an SEO specialist for small e-commerce businesses.
Generate search keyword ideas for the given topic: a mix of short head
terms and long-tail phrases buyers actually type. Output one keyword
per line, no numbering.`

// NewKeywordIdeasHandler generates SEO keyword ideas for a topic.
func NewKeywordIdeasHandler(deps *Dependencies) mcp.ToolHandlerFor[KeywordIdeasInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input KeywordIdeasInput) (*mcp.CallToolResult, any, error) {
		if input.Topic == "" {
			return ErrorResult("topic is required", "Provide the product or topic to target"), nil, nil
		}
		count := input.Count
		if count <= 0 {
			count = 10
		}

		ideas, err := deps.Model.GenerateWithSystem(ctx, keywordPrompt,
			"Topic: "+input.Topic+"\nNumber of keywords: "+strconv.Itoa(count))
		if err != nil {
			return ErrorResult("Keyword generation failed", err.Error()), nil, nil
		}
		return JSONResult(map[string]any{
			"topic":    input.Topic,
			"keywords": ideas,
		}), nil, nil
	}
}
