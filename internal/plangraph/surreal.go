package plangraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/craftally/agent/internal/db"
	"github.com/craftally/agent/internal/models"
)

// SurrealStore is the SurrealDB-backed plan graph. Command and plan
// nodes are content-addressed records; success/failure edges are
// RELATION rows with unique per-pair keys, so readers never block on
// concurrent writes for unrelated commands.
type SurrealStore struct {
	client *db.Client
	logger *slog.Logger
}

var _ Store = (*SurrealStore)(nil)

// NewSurrealStore creates a plan graph backed by the given client.
func NewSurrealStore(client *db.Client, logger *slog.Logger) *SurrealStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurrealStore{client: client, logger: logger}
}

// FindSuccessfulPlan loads all success edges and scores their commands
// against the query in Go. The candidate set is small (one edge per
// feedback association), so scoring client-side keeps the similarity
// function in one place for both backends.
func (s *SurrealStore) FindSuccessfulPlan(ctx context.Context, commandText string) (models.Plan, error) {
	candidates, err := s.client.QuerySuccessfulCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var best *rankCandidate
	for _, c := range candidates {
		if c.HasFailure {
			continue
		}
		sim := Similarity(c.CommandText, commandText)
		if sim < SimilarityThreshold {
			continue
		}
		rc := rankCandidate{planJSON: c.PlanJSON, similarity: sim, executions: c.Executions}
		if best == nil || rc.better(*best) {
			best = &rc
		}
	}

	if best == nil {
		s.logger.Debug("no matching successful plan", "command", commandText)
		return nil, nil
	}

	plan, err := models.ParsePlan(best.planJSON)
	if err != nil {
		return nil, fmt.Errorf("parse cached plan: %w", err)
	}
	s.logger.Info("found successful plan for similar command",
		"command", commandText, "similarity", best.similarity)
	return plan, nil
}

// StoreSuccessfulPlan records a success edge for the pair, superseding
// any prior failure edge.
func (s *SurrealStore) StoreSuccessfulPlan(ctx context.Context, commandText string, plan models.Plan) error {
	planJSON, planID, err := serializePlan(plan)
	if err != nil {
		return err
	}

	if err := s.client.QueryStoreSuccess(ctx, commandID(commandText), commandText, planID, planJSON); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.logger.Info("stored successful plan", "command", commandText)
	return nil
}

// StoreFailedPlan records a failure edge with the user's feedback.
func (s *SurrealStore) StoreFailedPlan(ctx context.Context, commandText string, plan models.Plan, feedback string) error {
	planJSON, planID, err := serializePlan(plan)
	if err != nil {
		return err
	}

	if err := s.client.QueryStoreFailure(ctx, commandID(commandText), commandText, planID, planJSON, feedback); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.logger.Info("stored failed plan", "command", commandText, "feedback", feedback)
	return nil
}

// Clear wipes the plan graph.
func (s *SurrealStore) Clear(ctx context.Context) error {
	if err := s.client.WipeData(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func serializePlan(plan models.Plan) (planJSON, planID string, err error) {
	planJSON, err = plan.Canonical()
	if err != nil {
		return "", "", fmt.Errorf("serialize plan: %w", err)
	}
	planID, err = plan.Hash()
	if err != nil {
		return "", "", fmt.Errorf("hash plan: %w", err)
	}
	return planJSON, planID, nil
}
