package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentCalendarInput defines the input schema for
// bizintel_generate_content_calendar.
type ContentCalendarInput struct {
	Topic        string `json:"topic" jsonschema:"required,The central theme for the content plan"`
	DurationDays int    `json:"duration_days,omitempty" jsonschema:"The number of days the calendar should cover (default 7)"`
}

const calendarPrompt = `You are a social media strategist for small businesses.
Create a day-by-day content calendar. For each day give a post idea, a
suggested format (image, video, story, text), and a short caption hook.
Output one line per day, formatted "Day N: ...".`

// NewContentCalendarHandler generates a multi-day content calendar.
func NewContentCalendarHandler(deps *Dependencies) mcp.ToolHandlerFor[ContentCalendarInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ContentCalendarInput) (*mcp.CallToolResult, any, error) {
		if input.Topic == "" {
			return ErrorResult("topic is required", "Provide the central theme for the calendar"), nil, nil
		}
		days := input.DurationDays
		if days <= 0 {
			days = 7
		}

		prompt := fmt.Sprintf("Theme: %s\nDuration: %d days", input.Topic, days)
		calendar, err := deps.Model.GenerateWithSystem(ctx, calendarPrompt, prompt)
		if err != nil {
			return ErrorResult("Content calendar generation failed", err.Error()), nil, nil
		}

		deps.log().Info("content calendar generated", "topic", input.Topic, "days", days)
		return JSONResult(map[string]any{
			"topic":         input.Topic,
			"duration_days": days,
			"calendar":      calendar,
		}), nil, nil
	}
}

// FeedbackAnalysisInput defines the input schema for
// bizintel_analyze_customer_feedback.
type FeedbackAnalysisInput struct {
	FeedbackList []string `json:"feedback_list" jsonschema:"required,A list of customer feedback strings"`
}

const feedbackPrompt = `You are a customer insights analyst.
Given raw customer feedback, identify recurring themes, overall
sentiment, and up to three actionable improvements. Be specific and
quote short fragments of the feedback as evidence.`

// NewFeedbackAnalysisHandler summarizes customer feedback into themes
// and actions.
func NewFeedbackAnalysisHandler(deps *Dependencies) mcp.ToolHandlerFor[FeedbackAnalysisInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FeedbackAnalysisInput) (*mcp.CallToolResult, any, error) {
		if len(input.FeedbackList) == 0 {
			return ErrorResult("feedback_list is required", "Provide at least one feedback string"), nil, nil
		}

		analysis, err := deps.Model.GenerateWithSystem(ctx, feedbackPrompt, "Feedback:\n- "+strings.Join(input.FeedbackList, "\n- "))
		if err != nil {
			return ErrorResult("Feedback analysis failed", err.Error()), nil, nil
		}
		return JSONResult(map[string]any{
			"feedback_count": len(input.FeedbackList),
			"analysis":       analysis,
		}), nil, nil
	}
}
