package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/craftally/agent/internal/embedding"
	"github.com/craftally/agent/internal/models"
)

// overFetchFactor controls how many extra results the similarity query
// requests before the speaker-type filter is applied in Go. chromem
// metadata filters are exact-match only, so "speaker_type in set" is
// filtered client-side.
const overFetchFactor = 4

// ChromemStore wraps chromem-go with one collection per session and
// disk persistence for the vectors. The ordered record log is held in
// memory: a session lives for the process lifetime of the interaction.
type ChromemStore struct {
	mu      sync.RWMutex
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
	log     map[string][]models.MemoryRecord
	logger  *slog.Logger
}

var _ Store = (*ChromemStore)(nil)

// NewChromemStore opens (or creates) the persistent vector store at dir.
func NewChromemStore(dir string, embedder embedding.Embedder, logger *slog.Logger) (*ChromemStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	embedFn := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	return &ChromemStore{
		db:      db,
		embedFn: embedFn,
		log:     make(map[string][]models.MemoryRecord),
		logger:  logger,
	}, nil
}

func collectionName(sessionID string) string {
	return "session_" + sessionID
}

// getOrCreateCollection returns the per-session collection, or nil if it
// cannot be created.
func (s *ChromemStore) getOrCreateCollection(sessionID string) *chromem.Collection {
	name := collectionName(sessionID)
	col := s.db.GetCollection(name, s.embedFn)
	if col == nil {
		var err error
		col, err = s.db.CreateCollection(name, nil, s.embedFn)
		if err != nil {
			s.logger.Error("failed to create memory collection", "session", sessionID, "error", err)
			return nil
		}
	}
	return col
}

// Append writes one immutable record and indexes it for similarity
// retrieval. The ordered log is written first: even if embedding fails,
// the record remains part of the session history.
func (s *ChromemStore) Append(ctx context.Context, sessionID string, role models.Role, content, language string, speaker models.SpeakerType) (string, error) {
	rec := models.MemoryRecord{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Role:        role,
		SpeakerType: speaker,
		Content:     content,
		Language:    language,
		Timestamp:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log[sessionID] = append(s.log[sessionID], rec)

	col := s.getOrCreateCollection(sessionID)
	if col == nil {
		return rec.ID, fmt.Errorf("%w: collection unavailable for session %s", ErrStorage, sessionID)
	}

	doc := chromem.Document{
		ID:      rec.ID,
		Content: content,
		Metadata: map[string]string{
			"session_id":   sessionID,
			"role":         string(role),
			"speaker_type": string(speaker),
			"language":     language,
			"timestamp":    rec.Timestamp.Format(time.RFC3339Nano),
		},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return rec.ID, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rec.ID, nil
}

// RetrieveRelevant runs a similarity query over the session collection
// and filters to the allowed speaker types. Any failure degrades to an
// empty result.
func (s *ChromemStore) RetrieveRelevant(ctx context.Context, sessionID, query string, allowed []models.SpeakerType, k int) []string {
	if k <= 0 || query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.db.GetCollection(collectionName(sessionID), s.embedFn)
	if col == nil {
		return nil
	}
	count := col.Count()
	if count == 0 {
		return nil
	}

	n := k * overFetchFactor
	if n > count {
		n = count
	}

	// chromem occasionally rejects nResults at the document-count
	// boundary; step down until the query succeeds.
	var results []chromem.Result
	var err error
	for attemptN := n; attemptN > 0; attemptN-- {
		results, err = col.Query(ctx, query, attemptN, map[string]string{"session_id": sessionID}, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		s.logger.Warn("memory retrieval failed", "session", sessionID, "error", err)
		return nil
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, sp := range allowed {
		allowedSet[string(sp)] = true
	}

	out := make([]string, 0, k)
	for _, r := range results {
		if !allowedSet[r.Metadata["speaker_type"]] {
			continue
		}
		out = append(out, r.Content)
		if len(out) == k {
			break
		}
	}
	return out
}

// toolPayload is the serialized form of a tool-exchange record:
// calls[i] produced outputs[i].
type toolPayload struct {
	Calls   []models.ToolCall `json:"calls"`
	Outputs []any             `json:"outputs"`
}

// EncodeToolExchange serializes calls and their outputs into the
// tool-exchange record content format.
func EncodeToolExchange(calls []models.ToolCall, outputs []any) (string, error) {
	b, err := json.Marshal(toolPayload{Calls: calls, Outputs: outputs})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormattedHistory returns the session history ordered by timestamp
// ascending, trimmed to the last limit turns. Malformed tool records
// are skipped rather than failing the whole history.
func (s *ChromemStore) FormattedHistory(ctx context.Context, sessionID string, limit int) ([]models.Turn, error) {
	s.mu.RLock()
	records := make([]models.MemoryRecord, len(s.log[sessionID]))
	copy(records, s.log[sessionID])
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	turns := make([]models.Turn, 0, len(records))
	for _, rec := range records {
		switch rec.Role {
		case models.RoleUser, models.RoleAssistant:
			turns = append(turns, models.Turn{Role: rec.Role, Message: rec.Content})
		case models.RoleTool:
			var payload toolPayload
			if err := json.Unmarshal([]byte(rec.Content), &payload); err != nil {
				s.logger.Warn("skipping malformed tool record", "session", sessionID, "id", rec.ID)
				continue
			}
			exchanges := make([]models.ToolExchange, 0, len(payload.Calls))
			for i, call := range payload.Calls {
				ex := models.ToolExchange{Call: call}
				if i < len(payload.Outputs) {
					ex.Outputs = []any{payload.Outputs[i]}
				}
				exchanges = append(exchanges, ex)
			}
			turns = append(turns, models.Turn{Role: models.RoleTool, ToolResults: exchanges})
		}
	}

	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

// ClearSession removes all records for the session. Best-effort.
func (s *ChromemStore) ClearSession(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.log, sessionID)
	if err := s.db.DeleteCollection(collectionName(sessionID)); err != nil {
		s.logger.Error("failed to clear session history", "session", sessionID, "error", err)
	}
}
