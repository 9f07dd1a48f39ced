package plangraph

import (
	"context"
	"sync"
	"time"

	"github.com/craftally/agent/internal/models"
)

type successEdge struct {
	executions   int
	lastExecuted time.Time
}

type failureEdge struct {
	failures     int
	lastFailed   time.Time
	lastFeedback string
}

type pairKey struct {
	command string
	planID  string
}

// MemStore is an in-memory plan graph with the same semantics as the
// SurrealDB backend. Used in tests and when no database is configured.
// All counter updates happen under the write lock, so concurrent
// feedback for the same pair increments atomically.
type MemStore struct {
	mu        sync.RWMutex
	plans     map[string]string // plan id -> canonical JSON
	successes map[pairKey]*successEdge
	failures  map[pairKey]*failureEdge
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory plan graph.
func NewMemStore() *MemStore {
	return &MemStore{
		plans:     make(map[string]string),
		successes: make(map[pairKey]*successEdge),
		failures:  make(map[pairKey]*failureEdge),
	}
}

// FindSuccessfulPlan scores every command that carries a success edge.
func (s *MemStore) FindSuccessfulPlan(ctx context.Context, commandText string) (models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *rankCandidate
	for key, edge := range s.successes {
		if _, failed := s.failures[key]; failed {
			continue
		}
		sim := Similarity(key.command, commandText)
		if sim < SimilarityThreshold {
			continue
		}
		rc := rankCandidate{planJSON: s.plans[key.planID], similarity: sim, executions: edge.executions}
		if best == nil || rc.better(*best) {
			best = &rc
		}
	}

	if best == nil {
		return nil, nil
	}
	return models.ParsePlan(best.planJSON)
}

// StoreSuccessfulPlan merges the success edge and removes any failure
// edge for the pair.
func (s *MemStore) StoreSuccessfulPlan(ctx context.Context, commandText string, plan models.Plan) error {
	planJSON, planID, err := serializePlan(plan)
	if err != nil {
		return err
	}
	key := pairKey{command: commandText, planID: planID}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans[planID] = planJSON
	if edge, ok := s.successes[key]; ok {
		edge.executions++
		edge.lastExecuted = time.Now()
	} else {
		s.successes[key] = &successEdge{executions: 1, lastExecuted: time.Now()}
	}
	delete(s.failures, key)
	return nil
}

// StoreFailedPlan merges the failure edge, overwriting the feedback.
func (s *MemStore) StoreFailedPlan(ctx context.Context, commandText string, plan models.Plan, feedback string) error {
	planJSON, planID, err := serializePlan(plan)
	if err != nil {
		return err
	}
	key := pairKey{command: commandText, planID: planID}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans[planID] = planJSON
	if edge, ok := s.failures[key]; ok {
		edge.failures++
		edge.lastFailed = time.Now()
		edge.lastFeedback = feedback
	} else {
		s.failures[key] = &failureEdge{failures: 1, lastFailed: time.Now(), lastFeedback: feedback}
	}
	return nil
}

// Clear wipes all nodes and edges.
func (s *MemStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = make(map[string]string)
	s.successes = make(map[pairKey]*successEdge)
	s.failures = make(map[pairKey]*failureEdge)
	return nil
}

// Executions reports the success-edge execution count for an exact
// (command, plan) pair. Test helper.
func (s *MemStore) Executions(commandText string, plan models.Plan) int {
	_, planID, err := serializePlan(plan)
	if err != nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if edge, ok := s.successes[pairKey{command: commandText, planID: planID}]; ok {
		return edge.executions
	}
	return 0
}

// LastFeedback reports the failure-edge feedback for an exact pair.
// Test helper.
func (s *MemStore) LastFeedback(commandText string, plan models.Plan) (string, bool) {
	_, planID, err := serializePlan(plan)
	if err != nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if edge, ok := s.failures[pairKey{command: commandText, planID: planID}]; ok {
		return edge.lastFeedback, true
	}
	return "", false
}
