package memory

import (
	"sync"

	"geoquiz-service/internal/engine"
)

// SessionRegistry is an in-memory implementation of engine.SessionRegistry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*engine.Session)}
}

func (r *SessionRegistry) Put(session *engine.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

func (r *SessionRegistry) Get(id string) (*engine.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
