package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// PlanCandidate is a success edge joined with its command text and plan,
// plus whether the (command, plan) pair also carries a live failure edge.
// Similarity scoring and ranking happen in Go (see plangraph.SurrealStore).
type PlanCandidate struct {
	CommandText string `json:"command_text"`
	PlanJSON    string `json:"plan_json"`
	Executions  int    `json:"executions"`
	HasFailure  bool   `json:"has_failure"`
}

// QuerySuccessfulCandidates returns every success edge with its command
// text, plan serialization, execution count, and failure-edge flag.
func (c *Client) QuerySuccessfulCandidates(ctx context.Context) ([]PlanCandidate, error) {
	sql := `
		SELECT
			in.text AS command_text,
			out.plan_json AS plan_json,
			executions,
			array::len((SELECT id FROM failed WHERE in = $parent.in AND out = $parent.out)) > 0 AS has_failure
		FROM succeeded
	`

	results, err := surrealdb.Query[[]PlanCandidate](ctx, c.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("successful candidates: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []PlanCandidate{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryStoreSuccess merge-creates the command and plan nodes, then the
// success edge between them: first association initializes the execution
// counter to 1, repeats increment it and refresh the timestamp. Any
// failure edge for the same pair is removed in the same query, so a plan
// that later succeeds for a similar ask is no longer excluded by its
// past failure.
func (c *Client) QueryStoreSuccess(ctx context.Context, commandID, commandText, planID, planJSON string) error {
	sql := `
		UPSERT type::record("command", $cmd_id) SET
			text = $text,
			created = IF created THEN created ELSE time::now() END;
		UPSERT type::record("plan", $plan_id) SET
			plan_json = $plan_json,
			created = IF created THEN created ELSE time::now() END;

		LET $existing = (SELECT id FROM succeeded
			WHERE in = type::record("command", $cmd_id)
			AND out = type::record("plan", $plan_id));
		IF array::len($existing) > 0 {
			UPDATE succeeded SET executions += 1, last_executed = time::now()
			WHERE in = type::record("command", $cmd_id)
			AND out = type::record("plan", $plan_id);
		} ELSE {
			RELATE type::record("command", $cmd_id)->succeeded->type::record("plan", $plan_id) SET
				executions = 1,
				last_executed = time::now();
		};

		DELETE failed
		WHERE in = type::record("command", $cmd_id)
		AND out = type::record("plan", $plan_id);
	`

	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"cmd_id":    commandID,
		"text":      commandText,
		"plan_id":   planID,
		"plan_json": planJSON,
	})
	if err != nil {
		return fmt.Errorf("store success: %w", wrapQueryError(err))
	}
	return nil
}

// QueryStoreFailure merge-creates the command and plan nodes and the
// failure edge between them, incrementing the failure counter and
// overwriting last_feedback on repeats.
func (c *Client) QueryStoreFailure(ctx context.Context, commandID, commandText, planID, planJSON, feedback string) error {
	sql := `
		UPSERT type::record("command", $cmd_id) SET
			text = $text,
			created = IF created THEN created ELSE time::now() END;
		UPSERT type::record("plan", $plan_id) SET
			plan_json = $plan_json,
			created = IF created THEN created ELSE time::now() END;

		LET $existing = (SELECT id FROM failed
			WHERE in = type::record("command", $cmd_id)
			AND out = type::record("plan", $plan_id));
		IF array::len($existing) > 0 {
			UPDATE failed SET failures += 1, last_failed = time::now(), last_feedback = $feedback
			WHERE in = type::record("command", $cmd_id)
			AND out = type::record("plan", $plan_id);
		} ELSE {
			RELATE type::record("command", $cmd_id)->failed->type::record("plan", $plan_id) SET
				failures = 1,
				last_failed = time::now(),
				last_feedback = $feedback;
		};
	`

	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"cmd_id":    commandID,
		"text":      commandText,
		"plan_id":   planID,
		"plan_json": planJSON,
		"feedback":  feedback,
	})
	if err != nil {
		return fmt.Errorf("store failure: %w", wrapQueryError(err))
	}
	return nil
}

// FailureEdge is a failure edge with its feedback, for inspection.
type FailureEdge struct {
	CommandText  string `json:"command_text"`
	PlanJSON     string `json:"plan_json"`
	Failures     int    `json:"failures"`
	LastFeedback string `json:"last_feedback"`
}

// QueryFailureEdges returns all failure edges. Used by tests and the
// inspect command.
func (c *Client) QueryFailureEdges(ctx context.Context) ([]FailureEdge, error) {
	sql := `
		SELECT in.text AS command_text, out.plan_json AS plan_json,
			failures, last_feedback
		FROM failed
	`

	results, err := surrealdb.Query[[]FailureEdge](ctx, c.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failure edges: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []FailureEdge{}, nil
	}
	return (*results)[0].Result, nil
}
