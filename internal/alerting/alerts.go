package alerting

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// Manager stores supervisor alerts and publishes them on the event bus.
// Alerts are never destroyed; acknowledgement is the only mutation.
type Manager struct {
	mu     sync.RWMutex
	alerts map[string]*types.SupervisorAlert
	order  []string // insertion order, for stable sorting within a severity
	bus    *bus.Bus
	logger zerolog.Logger
}

// NewManager creates a Manager
func NewManager(eventBus *bus.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		alerts: make(map[string]*types.SupervisorAlert),
		bus:    eventBus,
		logger: logger,
	}
}

// Raise stores the alert, fills in id and timestamp when missing, and
// publishes a supervisor_alert event. Returns the stored copy.
func (m *Manager) Raise(alert types.SupervisorAlert) types.SupervisorAlert {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	m.mu.Lock()
	stored := alert
	m.alerts[alert.ID] = &stored
	m.order = append(m.order, alert.ID)
	m.mu.Unlock()

	m.logger.Info().
		Str("alert_id", alert.ID).
		Str("type", string(alert.Type)).
		Str("severity", string(alert.Severity)).
		Str("call_id", alert.CallID).
		Str("queue_id", alert.QueueID).
		Msg("supervisor alert raised")

	m.bus.Publish(types.Event{
		Type:      types.EventSupervisorAlert,
		Timestamp: alert.Timestamp,
		Data:      alert,
	})

	return alert
}

// Acknowledge marks an alert acknowledged. Acknowledging an already
// acknowledged alert is a silent success; an unknown id returns false.
func (m *Manager) Acknowledge(id, by string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok {
		return false
	}
	if alert.Acknowledged {
		return true
	}
	alert.Acknowledged = true
	alert.AcknowledgedBy = by
	return true
}

// Get returns a copy of one alert
func (m *Manager) Get(id string) (types.SupervisorAlert, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alert, ok := m.alerts[id]
	if !ok {
		return types.SupervisorAlert{}, false
	}
	return *alert, true
}

// Active returns unacknowledged alerts ordered by severity (critical first),
// then by the order they were raised.
func (m *Manager) Active() []types.SupervisorAlert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.SupervisorAlert, 0)
	for _, id := range m.order {
		if alert := m.alerts[id]; !alert.Acknowledged {
			out = append(out, *alert)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// All returns copies of every alert in the order raised
func (m *Manager) All() []types.SupervisorAlert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.SupervisorAlert, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.alerts[id])
	}
	return out
}
