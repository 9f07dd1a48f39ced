package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/craftally/agent/internal/gateway"
	"github.com/craftally/agent/internal/intent"
	"github.com/craftally/agent/internal/llm"
	"github.com/craftally/agent/internal/memory"
	"github.com/craftally/agent/internal/models"
	"github.com/craftally/agent/internal/plangraph"
)

// fallbackResponse is returned when a turn errors out or the model
// produces an empty terminal message.
const fallbackResponse = "Sorry, I encountered an issue processing your request."

// feedbackNotSatisfied is the canonical feedback text stored when the
// user rejects a result without elaborating.
const feedbackNotSatisfied = "User was not satisfied."

// ReasoningModel is the planning surface the agent needs from the LLM.
type ReasoningModel interface {
	GeneratePlan(ctx context.Context, preamble string, history []llms.MessageContent, tools []llms.Tool) (llm.PlanResponse, error)
	AdaptPlan(ctx context.Context, preamble string, cached models.Plan, request string, tools []llms.Tool) (llm.PlanResponse, error)
	Converse(ctx context.Context, preamble string, history []llms.MessageContent) (string, error)
}

// IntentClassifier decides whether a message needs tool planning.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, tools []llms.Tool) (intent.Intent, error)
}

// Options configures an Agent.
type Options struct {
	Role     models.SessionRole
	Language string

	// MaxToolLoops bounds the execute/re-plan cycle per turn.
	MaxToolLoops int

	// MemoryK is how many similar memories to recall per turn.
	MemoryK int

	// ModelTimeout bounds each reasoning-model call. Zero disables the
	// bound.
	ModelTimeout time.Duration

	// StoreTimeout bounds each memory and plan-graph call. Zero
	// disables the bound.
	StoreTimeout time.Duration
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	// Text is the agent's final reply for the turn.
	Text string

	// LastPlan is the session's most recent executed plan, available
	// for feedback. Nil when no tools have run this session.
	LastPlan models.Plan
}

// Agent orchestrates memory, intent, plan reuse, planning, and tool
// execution for conversational sessions.
type Agent struct {
	model       ReasoningModel
	classifier  IntentClassifier
	memories    memory.Store
	plans       plangraph.Store
	tools       gateway.Gateway
	checkpoints CheckpointStore
	logger      *slog.Logger

	role     models.SessionRole
	language string
	preamble string
	catalog  []llms.Tool

	maxToolLoops int
	memoryK      int
	modelTimeout time.Duration
	storeTimeout time.Duration
}

// New assembles an agent. Customer sessions get an empty tool catalog
// regardless of what the gateway offers.
func New(model ReasoningModel, classifier IntentClassifier, memories memory.Store, plans plangraph.Store, tools gateway.Gateway, checkpoints CheckpointStore, opts Options, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxToolLoops <= 0 {
		opts.MaxToolLoops = 10
	}
	if opts.MemoryK <= 0 {
		opts.MemoryK = 5
	}

	var catalog []llms.Tool
	if opts.Role == models.SessionOwner {
		catalog = llm.OwnerToolCatalog()
	}

	return &Agent{
		model:        model,
		classifier:   classifier,
		memories:     memories,
		plans:        plans,
		tools:        tools,
		checkpoints:  checkpoints,
		logger:       logger,
		role:         opts.Role,
		language:     opts.Language,
		preamble:     llm.PreambleFor(opts.Role == models.SessionOwner),
		catalog:      catalog,
		maxToolLoops: opts.MaxToolLoops,
		memoryK:      opts.MemoryK,
		modelTimeout: opts.ModelTimeout,
		storeTimeout: opts.StoreTimeout,
	}
}

// modelCtx bounds a reasoning-model call with the configured timeout.
func (a *Agent) modelCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.modelTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.modelTimeout)
}

// storeCtx bounds a memory or plan-graph call with the configured
// timeout.
func (a *Agent) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.storeTimeout)
}

// Catalog returns the tool definitions active for this session role.
func (a *Agent) Catalog() []llms.Tool {
	return a.catalog
}

// Respond handles one user turn: record it, recall memories, classify,
// plan (reusing a cached plan when one matches), execute tools, and
// produce a final reply. When isFeedback is true the text is a
// correction continuing the previous turn: it is not recorded as a
// fresh user memory and the turn regenerates a plan directly instead
// of classifying or consulting the plan cache.
func (a *Agent) Respond(ctx context.Context, sessionID, userText string, isFeedback bool) (*TurnResult, error) {
	state, ok := a.checkpoints.Load(sessionID)
	if !ok {
		state = &State{}
	}

	if !isFeedback {
		a.recordUserMessage(ctx, sessionID, userText)
	}
	state.appendHuman(userText)
	state.UserCommand = userText

	text, err := a.runTurn(ctx, sessionID, state, isFeedback)
	if err != nil {
		a.logger.Error("turn failed", "session", sessionID, "error", err)
		text = fallbackResponse
	}
	if strings.TrimSpace(text) == "" {
		text = fallbackResponse
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	if _, merr := memory.AddAgentMessage(sctx, a.memories, sessionID, text, a.language); merr != nil {
		a.logger.Warn("failed to record agent reply", "session", sessionID, "error", merr)
	}
	a.checkpoints.Save(sessionID, state)

	return &TurnResult{Text: text, LastPlan: state.LastPlan}, err
}

func (a *Agent) recordUserMessage(ctx context.Context, sessionID, text string) {
	sctx, cancel := a.storeCtx(ctx)
	defer cancel()

	var err error
	if a.role == models.SessionOwner {
		_, err = memory.AddOwnerMessage(sctx, a.memories, sessionID, text, a.language)
	} else {
		_, err = memory.AddCustomerMessage(sctx, a.memories, sessionID, text, a.language)
	}
	if err != nil {
		a.logger.Warn("failed to record user message", "session", sessionID, "error", err)
	}
}

// runTurn drives the state machine for one turn and returns the final
// reply text. Correction turns re-enter at plan generation: the failed
// plan's verdict already settles intent, and a cache lookup on the
// correction boilerplate could only resurface the plan being corrected.
func (a *Agent) runTurn(ctx context.Context, sessionID string, state *State, isFeedback bool) (string, error) {
	if isFeedback {
		state.Intent = intent.IntentToolUse
		state.CachedPlan = nil
	} else {
		a.loadMemories(ctx, sessionID, state)

		it, err := a.classifyIntent(ctx, state)
		if err != nil {
			return "", err
		}
		state.Intent = it

		if it == intent.IntentGeneralConversation {
			return a.converse(ctx, state)
		}

		a.findCachedPlan(ctx, state)
	}

	resp, err := a.plan(ctx, state)
	if err != nil {
		return "", err
	}

	for loops := 0; resp.HasToolCalls(); loops++ {
		if loops >= a.maxToolLoops {
			return "", fmt.Errorf("tool loop exceeded %d rounds", a.maxToolLoops)
		}

		state.LastPlan = models.Plan(resp.ToolCalls)
		state.appendAI(resp.Text, resp.ToolCalls)

		if err := a.executeTools(ctx, sessionID, state, resp.ToolCalls); err != nil {
			return "", err
		}

		state.CachedPlan = nil
		resp, err = a.plan(ctx, state)
		if err != nil {
			return "", err
		}
	}

	state.appendAI(resp.Text, nil)
	return resp.Text, nil
}

// plan asks the model for the next round: adapting the cached plan when
// one was found, generating from the message history otherwise.
func (a *Agent) plan(ctx context.Context, state *State) (llm.PlanResponse, error) {
	mctx, cancel := a.modelCtx(ctx)
	defer cancel()

	if state.CachedPlan != nil {
		return a.model.AdaptPlan(mctx, a.preamble, state.CachedPlan, state.UserCommand, a.catalog)
	}
	return a.model.GeneratePlan(mctx, a.preamble, state.Messages, a.catalog)
}

// loadMemories recalls similar records scoped to the session's speaker
// types and injects them into the turn's request. Retrieval failures
// degrade to no recall.
func (a *Agent) loadMemories(ctx context.Context, sessionID string, state *State) {
	allowed := []models.SpeakerType{models.SpeakerOwner, models.SpeakerAgent}
	if a.role == models.SessionCustomer {
		allowed = []models.SpeakerType{models.SpeakerCustomer, models.SpeakerAgent}
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	recalled := a.memories.RetrieveRelevant(sctx, sessionID, state.UserCommand, allowed, a.memoryK)
	state.RecalledMemories = recalled
	a.logger.Debug("recalled memories", "session", sessionID, "count", len(recalled))

	if len(recalled) > 0 {
		augmented := fmt.Sprintf(
			"**Recalled Memories (for context only):**\n---\n%s\n---\n**Current User Request:**\n%s",
			strings.Join(recalled, "\n"), state.UserCommand,
		)
		state.replaceLastHuman(augmented)
	}
}

func (a *Agent) classifyIntent(ctx context.Context, state *State) (intent.Intent, error) {
	if a.role == models.SessionCustomer || len(a.catalog) == 0 {
		return intent.IntentGeneralConversation, nil
	}
	mctx, cancel := a.modelCtx(ctx)
	defer cancel()
	it, err := a.classifier.Classify(mctx, state.lastHumanText(), a.catalog)
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}
	a.logger.Info("intent classified", "intent", it)
	return it, nil
}

// findCachedPlan consults the plan graph. Store outages are logged and
// planning falls through to generation.
func (a *Agent) findCachedPlan(ctx context.Context, state *State) {
	state.CachedPlan = nil
	if a.role != models.SessionOwner {
		return
	}
	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	plan, err := a.plans.FindSuccessfulPlan(sctx, state.UserCommand)
	if err != nil {
		a.logger.Warn("plan lookup failed", "error", err)
		return
	}
	state.CachedPlan = plan
	if plan != nil {
		a.logger.Info("reusing cached plan", "tools", len(plan))
	}
}

func (a *Agent) converse(ctx context.Context, state *State) (string, error) {
	mctx, cancel := a.modelCtx(ctx)
	defer cancel()

	reply, err := a.model.Converse(mctx, a.preamble, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, state.lastHumanText()),
	})
	if err != nil {
		return "", fmt.Errorf("general conversation: %w", err)
	}
	state.appendAI(reply, nil)
	return reply, nil
}

// executeTools runs one batch of tool calls in order. Logical tool
// failures become error payloads the model can analyze; an unreachable
// tool server aborts the turn.
func (a *Agent) executeTools(ctx context.Context, sessionID string, state *State, calls []models.ToolCall) error {
	outputs := make([]any, 0, len(calls))
	for _, call := range calls {
		a.logger.Info("calling remote tool", "tool", call.Name)

		result, err := a.tools.Invoke(ctx, call.Name, call.Parameters)
		var toolErr *gateway.ToolError
		switch {
		case err == nil:
		case errors.As(err, &toolErr):
			result = map[string]any{"error": toolErr.Message}
			a.logger.Warn("tool reported failure", "tool", call.Name, "error", toolErr.Message)
		case errors.Is(err, gateway.ErrUnreachable):
			return err
		default:
			return fmt.Errorf("invoke %s: %w", call.Name, err)
		}

		outputs = append(outputs, result)
		state.appendToolResult(call, serializeOutput(result))
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	if _, err := memory.AddToolExchange(sctx, a.memories, sessionID, calls, outputs); err != nil {
		a.logger.Warn("failed to record tool exchange", "session", sessionID, "error", err)
	}
	return nil
}

func serializeOutput(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// RecordFeedback applies the user's verdict on the session's last plan.
// "yes" stores a success. "no" stores a canonical failure. Any other
// text stores a failure with that text and runs a correction turn that
// re-plans against the feedback; the corrected turn's result is
// returned so the caller can continue the feedback cycle.
func (a *Agent) RecordFeedback(ctx context.Context, sessionID, command string, plan models.Plan, feedback string) (*TurnResult, error) {
	sctx, cancel := a.storeCtx(ctx)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(feedback)) {
	case "yes", "y":
		if err := a.plans.StoreSuccessfulPlan(sctx, command, plan); err != nil {
			return nil, fmt.Errorf("store successful plan: %w", err)
		}
		return nil, nil
	case "no", "n":
		if err := a.plans.StoreFailedPlan(sctx, command, plan, feedbackNotSatisfied); err != nil {
			return nil, fmt.Errorf("store failed plan: %w", err)
		}
		return nil, nil
	default:
		if err := a.plans.StoreFailedPlan(sctx, command, plan, feedback); err != nil {
			return nil, fmt.Errorf("store failed plan: %w", err)
		}
		correction := fmt.Sprintf("My previous attempt was incorrect. The user provided this feedback: '%s'. Please create a new plan.", feedback)
		return a.Respond(ctx, sessionID, correction, true)
	}
}
