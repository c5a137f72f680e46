package callback

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/sched"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// Manager schedules, fires and tracks deferred outbound call attempts.
// Firing a due timer emits a callback_due event; it never creates the call
// itself — execution is an explicit operation on the engine.
type Manager struct {
	mu        sync.RWMutex
	callbacks map[string]*types.ScheduledCallback
	order     []string
	timers    map[string]sched.Handle
	scheduler *sched.Scheduler
	bus       *bus.Bus
	logger    zerolog.Logger
}

// Filter narrows List results
type Filter struct {
	Status types.CallbackStatus
	Phone  string
	After  *time.Time // ScheduledFor >= After
	Before *time.Time // ScheduledFor < Before
}

// NewManager creates a Manager
func NewManager(scheduler *sched.Scheduler, eventBus *bus.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		callbacks: make(map[string]*types.ScheduledCallback),
		timers:    make(map[string]sched.Handle),
		scheduler: scheduler,
		bus:       eventBus,
		logger:    logger,
	}
}

// Schedule persists the callback and arms a one-shot due-timer at
// ScheduledFor (delays beyond the scheduler maximum are clamped).
func (m *Manager) Schedule(cb types.ScheduledCallback) types.ScheduledCallback {
	if cb.ID == "" {
		cb.ID = uuid.New().String()
	}
	if cb.CreatedAt.IsZero() {
		cb.CreatedAt = time.Now()
	}
	cb.Status = types.CallbackScheduled

	m.mu.Lock()
	stored := cb
	m.callbacks[cb.ID] = &stored
	m.order = append(m.order, cb.ID)
	m.timers[cb.ID] = m.scheduler.ScheduleAt(cb.ScheduledFor, func() {
		m.fireDue(cb.ID)
	})
	m.mu.Unlock()

	m.logger.Info().
		Str("callback_id", cb.ID).
		Time("scheduled_for", cb.ScheduledFor).
		Str("reason", cb.Reason).
		Msg("callback scheduled")

	return cb
}

// fireDue publishes the callback_due event for a still-scheduled callback
func (m *Manager) fireDue(id string) {
	m.mu.Lock()
	delete(m.timers, id)
	cb, ok := m.callbacks[id]
	if !ok || cb.Status != types.CallbackScheduled {
		m.mu.Unlock()
		return
	}
	due := types.CallbackDueEvent{
		CallbackID:   cb.ID,
		Phone:        cb.Phone,
		ScheduledFor: cb.ScheduledFor,
		Reason:       cb.Reason,
	}
	m.mu.Unlock()

	m.logger.Info().Str("callback_id", id).Msg("callback due")
	m.bus.Publish(types.Event{
		Type:      types.EventCallbackDue,
		Timestamp: time.Now(),
		Data:      due,
	})
}

// Cancel disarms and cancels a scheduled callback. Returns false for an
// unknown id; cancelling a non-scheduled callback is rejected.
func (m *Manager) Cancel(id string) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cb, ok := m.callbacks[id]
	if !ok {
		return false, false
	}
	if cb.Status != types.CallbackScheduled {
		return true, false
	}
	if h, armed := m.timers[id]; armed {
		m.scheduler.Cancel(h)
		delete(m.timers, id)
	}
	cb.Status = types.CallbackCancelled
	return true, true
}

// Get returns a copy of one callback
func (m *Manager) Get(id string) (types.ScheduledCallback, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cb, ok := m.callbacks[id]
	if !ok {
		return types.ScheduledCallback{}, false
	}
	return *cb, true
}

// RecordAttempt appends an attempt and moves the callback to newStatus.
// Returns false for an unknown id.
func (m *Manager) RecordAttempt(id string, attempt types.CallbackAttempt, newStatus types.CallbackStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cb, ok := m.callbacks[id]
	if !ok {
		return false
	}
	cb.Attempts = append(cb.Attempts, attempt)
	cb.Status = newStatus
	return true
}

// List returns callbacks matching the filter, in scheduling order
func (m *Manager) List(f Filter) []types.ScheduledCallback {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.ScheduledCallback, 0)
	for _, id := range m.order {
		cb := m.callbacks[id]
		if f.Status != "" && cb.Status != f.Status {
			continue
		}
		if f.Phone != "" && cb.Phone != f.Phone {
			continue
		}
		if f.After != nil && cb.ScheduledFor.Before(*f.After) {
			continue
		}
		if f.Before != nil && !cb.ScheduledFor.Before(*f.Before) {
			continue
		}
		out = append(out, *cb)
	}
	return out
}
