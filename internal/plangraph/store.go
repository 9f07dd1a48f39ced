// Package plangraph stores (command, plan) associations with success and
// failure feedback, and retrieves previously successful plans for
// commands similar to a new request.
package plangraph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/craftally/agent/internal/models"
)

// ErrUnavailable indicates the backing store could not be reached.
// Callers on the planning path degrade to "no cached plan" rather than
// aborting the turn.
var ErrUnavailable = errors.New("plan graph unavailable")

// Store is the plan-graph contract. A (command, plan) pair is associated
// as success XOR failure at any instant: storing a success removes any
// failure edge for the same pair.
type Store interface {
	// FindSuccessfulPlan returns the best previously successful plan for
	// a command similar to commandText, or nil if none qualifies. A plan
	// qualifies when its command scores at least SimilarityThreshold and
	// the (command, plan) pair carries no failure edge. Candidates rank
	// by similarity descending, then execution count descending.
	FindSuccessfulPlan(ctx context.Context, commandText string) (models.Plan, error)

	// StoreSuccessfulPlan merge-creates the command and plan nodes and a
	// success edge, incrementing its execution counter on repeats and
	// removing any failure edge for the pair.
	StoreSuccessfulPlan(ctx context.Context, commandText string, plan models.Plan) error

	// StoreFailedPlan merge-creates the nodes and a failure edge,
	// incrementing its failure counter and overwriting the last feedback.
	StoreFailedPlan(ctx context.Context, commandText string, plan models.Plan, feedback string) error

	// Clear wipes all nodes and edges. Test/reset utility.
	Clear(ctx context.Context) error
}

// commandID content-addresses a command node by its exact text.
func commandID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
