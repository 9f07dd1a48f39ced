// Package llm wraps langchaingo models for planning, plan adaptation,
// and plain conversation.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/craftally/agent/internal/config"
	"github.com/craftally/agent/internal/models"
)

// PlanResponse is one model turn: either free text, a batch of tool
// calls, or both.
type PlanResponse struct {
	Text      string
	ToolCalls []models.ToolCall
}

// HasToolCalls reports whether the model requested tool execution.
func (r PlanResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// Model wraps a langchaingo LLM for text generation and tool planning.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// GeneratePlan runs one planning turn over the accumulated conversation.
// When tools is empty the model can only respond with text.
func (m *Model) GeneratePlan(ctx context.Context, preamble string, history []llms.MessageContent, tools []llms.Tool) (PlanResponse, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	if preamble != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, preamble))
	}
	messages = append(messages, history...)

	opts := []llms.CallOption{}
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}

	response, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("generate plan: %w", err)
	}
	if len(response.Choices) == 0 {
		return PlanResponse{}, fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	out := PlanResponse{Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		params := map[string]any{}
		if tc.FunctionCall.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &params); err != nil {
				return PlanResponse{}, fmt.Errorf("parse tool call arguments for %s: %w", tc.FunctionCall.Name, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:         tc.ID,
			Name:       tc.FunctionCall.Name,
			Parameters: params,
		})
	}
	return out, nil
}

// AdaptPlan asks the model to rewrite a cached plan's parameters for a
// new request, keeping the tool sequence intact.
func (m *Model) AdaptPlan(ctx context.Context, preamble string, cached models.Plan, request string, tools []llms.Tool) (PlanResponse, error) {
	planJSON, err := cached.Canonical()
	if err != nil {
		return PlanResponse{}, fmt.Errorf("serialize cached plan: %w", err)
	}

	prompt := fmt.Sprintf(
		"Previous Plan: %s\nNew Request: %s\nUpdate the parameters of the previous plan to match the new request. Keep the same tools in the same order.",
		planJSON, request,
	)
	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	return m.GeneratePlan(ctx, preamble, history, tools)
}

// Converse generates a plain-text reply with no tools offered.
func (m *Model) Converse(ctx context.Context, preamble string, history []llms.MessageContent) (string, error) {
	resp, err := m.GeneratePlan(ctx, preamble, history, nil)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return response.Choices[0].Content, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
