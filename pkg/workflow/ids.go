package workflow

import (
	"fmt"
	"sync"
)

// Sentinel contents for registry entries that never legitimately match a
// generated step's content, so Claim cannot alias them.
const (
	userIDContent   = "\x00user"
	uniqueIDContent = "\x00unique"
)

// idRegistry hands out generated step identifiers for one compilation.
// Each compilation owns its own registry so concurrent or repeated
// compilations stay independent; the mutex keeps a registry safe if a
// caller compiles jobs in parallel.
type idRegistry struct {
	mu      sync.Mutex
	entries map[string]string // id -> content that claimed it
}

func newIDRegistry() *idRegistry {
	return &idRegistry{entries: make(map[string]string)}
}

// claim returns the identifier for canonical: the canonical name itself
// when free or already claimed with identical content (safe reuse), else
// the first numeric-suffixed variant that is free or content-identical.
func (r *idRegistry) claim(canonical, content string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; ; i++ {
		id := canonical
		if i > 0 {
			id = fmt.Sprintf("%s-%d", canonical, i+1)
		}
		existing, taken := r.entries[id]
		if !taken {
			r.entries[id] = content
			return id
		}
		if existing == content {
			return id
		}
	}
}

// claimUser reserves a user-authored step id so generated ids never
// collide with it. Reserving the same id twice is a no-op.
func (r *idRegistry) claimUser(id string) {
	if id == "" {
		return
	}
	r.claim(id, userIDContent)
}

// unique returns a fresh identifier derived from canonical, never
// reusing a claimed one. Bail gates use this: their outputs are private
// to a single step, so two gates must never share an id.
func (r *idRegistry) unique(canonical string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; ; i++ {
		id := canonical
		if i > 0 {
			id = fmt.Sprintf("%s-%d", canonical, i+1)
		}
		if _, taken := r.entries[id]; !taken {
			r.entries[id] = uniqueIDContent
			return id
		}
	}
}
