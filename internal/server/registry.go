package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-engine/internal/assessment"
)

// Registry holds the live coordinators by assessment id
type Registry struct {
	mu           sync.RWMutex
	coordinators map[uuid.UUID]*assessment.Coordinator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{coordinators: make(map[uuid.UUID]*assessment.Coordinator)}
}

// Add registers a coordinator under its id
func (r *Registry) Add(c *assessment.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coordinators[c.ID()] = c
}

// Get returns the coordinator for id
func (r *Registry) Get(id uuid.UUID) (*assessment.Coordinator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coordinators[id]
	if !ok {
		return nil, &ErrAssessmentNotFound{ID: id}
	}
	return c, nil
}

// Remove stops a coordinator's timers and forgets it
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	c, ok := r.coordinators[id]
	delete(r.coordinators, id)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
	return ok
}

// Len returns the number of registered coordinators
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.coordinators)
}

// CloseAll stops every coordinator's timers
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coordinators {
		c.Close()
	}
}
