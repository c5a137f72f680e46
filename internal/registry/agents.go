package registry

import (
	"sync"
	"time"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// AgentRegistry maintains the current state of all registered agents.
// Mutating methods are called with the engine lock held; the internal
// RWMutex protects concurrent snapshot readers (API, dashboards).
type AgentRegistry struct {
	agents map[string]*types.Agent
	mu     sync.RWMutex
}

// NewAgentRegistry creates an empty AgentRegistry
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[string]*types.Agent),
	}
}

// Register adds or replaces an agent record
func (r *AgentRegistry) Register(agent *types.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if agent.RegisteredAt.IsZero() {
		agent.RegisteredAt = now
	}
	if agent.StatusSince.IsZero() {
		agent.StatusSince = now
	}
	if agent.Status == "" {
		agent.Status = types.AgentOffline
	}
	r.agents[agent.ID] = agent
}

// Get returns a copy of the agent record
func (r *AgentRegistry) Get(id string) (types.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[id]
	if !ok {
		return types.Agent{}, false
	}
	return *agent, true
}

// SetStatus moves an agent to a new status, returning the previous one.
// CurrentCallID is cleared whenever the agent leaves on_call.
func (r *AgentRegistry) SetStatus(id string, status types.AgentStatus) (types.AgentStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[id]
	if !ok {
		return "", false
	}
	prev := agent.Status
	agent.Status = status
	agent.StatusSince = time.Now()
	if status != types.AgentOnCall {
		agent.CurrentCallID = ""
	}
	return prev, true
}

// BindCall claims an agent for a call: status on_call, CurrentCallID set
func (r *AgentRegistry) BindCall(id, callID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[id]
	if !ok {
		return false
	}
	agent.Status = types.AgentOnCall
	agent.CurrentCallID = callID
	agent.StatusSince = time.Now()
	return true
}

// AvailableForQueue returns copies of the available agents bound to a queue,
// in stable registration-independent order is not required here; the matcher
// resolves ties deterministically by agent id.
func (r *AgentRegistry) AvailableForQueue(queueID string) []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Agent, 0)
	for _, agent := range r.agents {
		if agent.Status == types.AgentAvailable && agent.QueueID == queueID {
			out = append(out, *agent)
		}
	}
	return out
}

// CountByQueue returns available, on-call and total agent counts for a queue
func (r *AgentRegistry) CountByQueue(queueID string) (available, onCall, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, agent := range r.agents {
		if agent.QueueID != queueID {
			continue
		}
		total++
		switch agent.Status {
		case types.AgentAvailable:
			available++
		case types.AgentOnCall:
			onCall++
		}
	}
	return
}

// RecordCompletion folds one finished call into the agent's rolling metrics
// (plain running mean, no decay).
func (r *AgentRegistry) RecordCompletion(id string, handleTime time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[id]
	if !ok {
		return
	}
	m := &agent.Metrics
	m.CallsHandled++
	m.CallsToday++
	n := time.Duration(m.CallsHandled)
	m.AvgHandleTime = (m.AvgHandleTime*(n-1) + handleTime) / n
	m.TransferRate = rate(m.Transfers, m.CallsHandled)
	m.EscalationRate = rate(m.Escalations, m.CallsHandled)
}

// RecordTransfer counts one transfer against the agent
func (r *AgentRegistry) RecordTransfer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent, ok := r.agents[id]; ok {
		agent.Metrics.Transfers++
		if agent.Metrics.CallsHandled > 0 {
			agent.Metrics.TransferRate = rate(agent.Metrics.Transfers, agent.Metrics.CallsHandled)
		}
	}
}

// RecordEscalation counts one escalation against the agent
func (r *AgentRegistry) RecordEscalation(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent, ok := r.agents[id]; ok {
		agent.Metrics.Escalations++
		if agent.Metrics.CallsHandled > 0 {
			agent.Metrics.EscalationRate = rate(agent.Metrics.Escalations, agent.Metrics.CallsHandled)
		}
	}
}

// All returns copies of every agent record
func (r *AgentRegistry) All() []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		out = append(out, *agent)
	}
	return out
}

// Count returns the number of registered agents
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100.0
}
