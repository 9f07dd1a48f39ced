package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/craftally/agent/internal/agent"
	"github.com/craftally/agent/internal/memory"
	"github.com/craftally/agent/internal/models"
)

// chatLoop runs the interactive conversation. Owner sessions that
// executed tools get a feedback prompt after every reply: "yes" saves
// the plan as successful, "no" marks it failed, and any other text is
// treated as a correction that immediately re-plans. "history" prints
// the session transcript.
func chatLoop(ctx context.Context, a *agent.Agent, memories memory.Store, role models.SessionRole, language string, historyLimit int) error {
	fmt.Println(titleStyle.Render("Text Mode Active. Type 'quit' or 'exit' to end."))
	fmt.Println(agentStyle.Render(welcomeMessage(role, language)))

	reader := bufio.NewScanner(os.Stdin)
	sessionID := uuid.NewString()

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Print(promptStyle.Render("You: "))
		if !reader.Scan() {
			return reader.Err()
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "quit" || lower == "exit" {
			fmt.Println(errorStyle.Render("Exiting..."))
			return nil
		} else if lower == "history" {
			printHistory(ctx, memories, sessionID, historyLimit)
			continue
		}

		result, err := a.Respond(ctx, sessionID, input, false)
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
		fmt.Println(agentStyle.Render(result.Text))

		if role == models.SessionOwner && result.LastPlan != nil {
			if err := feedbackCycle(ctx, a, reader, sessionID, input, result.LastPlan); err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
			}
		}
	}
}

// printHistory renders the session transcript, most recent turns last.
func printHistory(ctx context.Context, store memory.Store, sessionID string, limit int) {
	turns, err := store.FormattedHistory(ctx, sessionID, limit)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}
	if len(turns) == 0 {
		fmt.Println(statusStyle.Render("No history yet."))
		return
	}

	for _, turn := range turns {
		switch turn.Role {
		case models.RoleTool:
			for _, ex := range turn.ToolResults {
				fmt.Println(statusStyle.Render(fmt.Sprintf("[tool] %s", ex.Call.Name)))
			}
		case models.RoleAssistant:
			fmt.Println(agentStyle.Render("Agent: " + turn.Message))
		default:
			fmt.Println(promptStyle.Render("You: " + turn.Message))
		}
	}
}

// welcomeMessage greets by session role and language tag.
func welcomeMessage(role models.SessionRole, language string) string {
	if role == models.SessionCustomer {
		return "Hello! Welcome to our shop. How can I help you today?"
	}
	if language == "hi-IN" {
		return "नमस्ते! मैं सहायक हूँ, आपका रचनात्मक और रणनीतिक साथी। मैं आपकी कैसे मदद कर सकता हूँ?"
	}
	return "Namaste! I am Sahayak, your creative and strategic ally. How can I help today?"
}

// feedbackCycle collects plan feedback until the user accepts or
// rejects the result. A textual correction triggers a new attempt whose
// result feeds the next round.
func feedbackCycle(ctx context.Context, a *agent.Agent, reader *bufio.Scanner, sessionID, command string, plan models.Plan) error {
	for plan != nil {
		fmt.Print(promptStyle.Render("Was this result helpful? (yes/no or provide correction): "))
		if !reader.Scan() {
			return reader.Err()
		}
		feedback := strings.TrimSpace(reader.Text())
		if feedback == "" {
			continue
		}

		result, err := a.RecordFeedback(ctx, sessionID, command, plan, feedback)
		if err != nil {
			return err
		}

		switch strings.ToLower(feedback) {
		case "yes", "y":
			fmt.Println(successStyle.Render("Glad I could help! Plan saved."))
			return nil
		case "no", "n":
			fmt.Println(statusStyle.Render("Understood. Let's try a different approach."))
			return nil
		default:
			fmt.Println(statusStyle.Render("Thank you. I will try again with the new information."))
			fmt.Println(agentStyle.Render(result.Text))
			plan = result.LastPlan
		}
	}
	return nil
}
