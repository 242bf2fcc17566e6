package admin

import (
	"sync"
	"time"
)

// Registry keeps one Workspace per admin session and forgets workspaces
// that stayed unused for longer than the idle timeout.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	idle    time.Duration
	now     func() time.Time
	create  func() *Workspace
}

type registryEntry struct {
	ws       *Workspace
	lastSeen time.Time
}

func NewRegistry(idle time.Duration, create func() *Workspace) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		idle:    idle,
		now:     time.Now,
		create:  create,
	}
}

// Get returns the workspace of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	e, ok := r.entries[sessionID]
	if !ok {
		e = &registryEntry{ws: r.create()}
		r.entries[sessionID] = e
	}
	e.lastSeen = now
	return e.ws
}

// Drop forgets the workspace of sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.entries, id)
		}
	}
}
