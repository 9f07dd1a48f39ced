// Package memory is the append-only conversational memory store:
// role-tagged records per session with similarity-based retrieval scoped
// by speaker type.
package memory

import (
	"context"
	"errors"

	"github.com/craftally/agent/internal/models"
)

// ErrStorage indicates the backing store rejected a write.
var ErrStorage = errors.New("memory storage error")

// Store is the memory contract. Records are immutable once written.
// Retrieval failures degrade to empty results, never abort the caller.
type Store interface {
	// Append writes one immutable record, timestamped at call time, and
	// returns its id.
	Append(ctx context.Context, sessionID string, role models.Role, content, language string, speaker models.SpeakerType) (string, error)

	// RetrieveRelevant returns at most k record contents from the
	// session, restricted to the allowed speaker types, ordered by
	// descending relevance to the query. Returns an empty slice (not an
	// error) when the store is empty or the query fails.
	RetrieveRelevant(ctx context.Context, sessionID, query string, allowed []models.SpeakerType, k int) []string

	// FormattedHistory returns the session's records ordered by
	// timestamp ascending, trimmed to the last limit turns.
	// Tool-exchange records expand into structured {call, outputs}
	// lists; malformed tool records are skipped.
	FormattedHistory(ctx context.Context, sessionID string, limit int) ([]models.Turn, error)

	// ClearSession removes all records for the session. Best-effort:
	// store errors are logged, not returned.
	ClearSession(ctx context.Context, sessionID string)
}
