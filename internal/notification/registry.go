package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Sender delivers one staff-facing message to a branch's notification
// target.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Registry resolves the delivery target for a branch. It is built at boot
// from the branches table and injected where needed; nothing in the process
// holds senders as global state.
type Registry struct {
	mu      sync.RWMutex
	senders map[uuid.UUID]Sender
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{senders: make(map[uuid.UUID]Sender)}
}

// Register attaches a sender to a branch, replacing any previous one
func (r *Registry) Register(branchID uuid.UUID, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[branchID] = sender
}

// Resolve returns the branch's sender, or false when the branch has no
// delivery target configured
func (r *Registry) Resolve(branchID uuid.UUID) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.senders[branchID]
	return s, ok
}
