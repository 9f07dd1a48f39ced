package agent

import "sync"

// CheckpointStore persists session state between turns so a feedback
// correction can resume the conversation it is correcting.
type CheckpointStore interface {
	Load(sessionID string) (*State, bool)
	Save(sessionID string, state *State)
	Delete(sessionID string)
}

// InMemoryCheckpoints keeps session state for the process lifetime,
// which matches the session lifetime.
type InMemoryCheckpoints struct {
	mu     sync.RWMutex
	states map[string]*State
}

var _ CheckpointStore = (*InMemoryCheckpoints)(nil)

func NewInMemoryCheckpoints() *InMemoryCheckpoints {
	return &InMemoryCheckpoints{states: make(map[string]*State)}
}

func (c *InMemoryCheckpoints) Load(sessionID string) (*State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.states[sessionID]
	return s, ok
}

func (c *InMemoryCheckpoints) Save(sessionID string, state *State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[sessionID] = state
}

func (c *InMemoryCheckpoints) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sessionID)
}
