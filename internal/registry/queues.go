package registry

import (
	"sync"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// QueueRegistry holds queue definitions and their live statistics snapshots.
// Registration order is preserved; the queue selector breaks scoring ties in
// favor of the queue defined first.
type QueueRegistry struct {
	order  []string
	queues map[string]*types.Queue
	mu     sync.RWMutex
}

// NewQueueRegistry creates an empty QueueRegistry
func NewQueueRegistry() *QueueRegistry {
	return &QueueRegistry{
		queues: make(map[string]*types.Queue),
	}
}

// Register adds a queue definition. Re-registering an id replaces the config
// but keeps its position in the iteration order.
func (r *QueueRegistry) Register(cfg types.QueueConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.queues[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.queues[cfg.ID] = &types.Queue{
		Config: cfg,
		Status: types.QueueActive,
	}
}

// Get returns a copy of the queue
func (r *QueueRegistry) Get(id string) (types.Queue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.queues[id]
	if !ok {
		return types.Queue{}, false
	}
	return *q, true
}

// SetStatus changes a queue's operational status
func (r *QueueRegistry) SetStatus(id string, status types.QueueStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[id]
	if !ok {
		return false
	}
	q.Status = status
	return true
}

// UpdateStats replaces a queue's statistics snapshot
func (r *QueueRegistry) UpdateStats(id string, stats types.QueueStats) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[id]
	if !ok {
		return false
	}
	q.Stats = stats
	return true
}

// InOrder returns copies of all queues in registration order
func (r *QueueRegistry) InOrder() []types.Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Queue, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.queues[id])
	}
	return out
}

// IDs returns the queue ids in registration order
func (r *QueueRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered queues
func (r *QueueRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}
