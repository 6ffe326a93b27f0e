// Package graph holds the session-scoped graph store: the in-memory source
// of truth for the current editing session. It is populated once at session
// start and mutated exclusively through setter execution; it performs no
// network or persistence calls of its own.
package graph

import (
	"sync"

	"dailygoals-backend/internal/domain/goal"
)

// Store owns the current graph for one session. Callers are expected to
// arrive one at a time (human editor and agent alternate); the mutex only
// guards against the two actors overlapping, it does not reorder them.
type Store struct {
	mu sync.Mutex
	g  goal.Graph
}

// NewStore creates a store seeded with the bootstrap graph.
func NewStore(initial goal.Graph) *Store {
	return &Store{g: initial.Clone()}
}

// Current returns a deep copy of the present graph state.
func (s *Store) Current() goal.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Clone()
}

// Apply runs fn against the current graph and installs its result as the
// new state, atomically with respect to other Apply and Current calls.
// The returned graph is the installed state.
func (s *Store) Apply(fn func(goal.Graph) goal.Graph) goal.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = fn(s.g.Clone())
	return s.g.Clone()
}
