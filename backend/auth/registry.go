package auth

import (
	"context"
	"sync"
	"time"
)

var _ Registry = (*MemoryRegistry)(nil)

// MemoryRegistry keeps live sessions in process memory. Sessions do not
// survive a restart.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (r *MemoryRegistry) Add(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, exp := range r.sessions {
		if now.After(exp) {
			delete(r.sessions, k)
		}
	}
	r.sessions[id] = now.Add(ttl)
	return nil
}

func (r *MemoryRegistry) Active(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	if r.now().After(exp) {
		delete(r.sessions, id)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRegistry) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}
