package engine

import (
	"fmt"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// RegisterAgent adds an agent to the roster. The agent's queue must already
// be registered. Agents joining as available immediately pull waiting calls.
func (e *Engine) RegisterAgent(agent types.Agent) (types.Agent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if agent.ID == "" {
		return types.Agent{}, fmt.Errorf("agent id required: %w", ErrInvalidTransition)
	}
	if _, ok := e.queues.Get(agent.QueueID); !ok {
		return types.Agent{}, fmt.Errorf("queue %s: %w", agent.QueueID, ErrNotFound)
	}

	stored := agent
	e.agents.Register(&stored)
	e.recomputeQueueStats(stored.QueueID)

	e.logger.Info().
		Str("agent_id", stored.ID).
		Str("queue_id", stored.QueueID).
		Str("status", string(stored.Status)).
		Msg("agent registered")

	if stored.Status == types.AgentAvailable {
		e.drainQueue(stored.QueueID)
	}
	return stored, nil
}

// UpdateAgentStatus moves an agent between presence states. Leaving on_call
// is only possible through the call lifecycle, and an agent carrying a live
// call cannot be moved onto one either.
func (e *Engine) UpdateAgentStatus(agentID string, status types.AgentStatus) (types.Agent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	agent, ok := e.agents.Get(agentID)
	if !ok {
		return types.Agent{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if agent.Status == types.AgentOnCall || status == types.AgentOnCall {
		return types.Agent{}, fmt.Errorf("on_call is managed by the call lifecycle: %w", ErrInvalidTransition)
	}

	// Manual move out of wrap-up disarms the auto-return timer
	if agent.Status == types.AgentWrapUp {
		if h, armed := e.wrapTimers[agentID]; armed {
			e.scheduler.Cancel(h)
			delete(e.wrapTimers, agentID)
		}
	}

	prev, _ := e.agents.SetStatus(agentID, status)
	e.recomputeQueueStats(agent.QueueID)

	e.logger.Info().
		Str("agent_id", agentID).
		Str("from", string(prev)).
		Str("to", string(status)).
		Msg("agent status changed")

	e.publish(types.EventAgentStatus, types.AgentStatusEvent{
		AgentID:  agentID,
		Previous: prev,
		Current:  status,
	})

	if status == types.AgentAvailable {
		e.drainQueue(agent.QueueID)
	}

	updated, _ := e.agents.Get(agentID)
	return updated, nil
}

// RequestAssist raises a supervisor alert from an agent who needs help on a
// live call.
func (e *Engine) RequestAssist(agentID, message string) (types.SupervisorAlert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	agent, ok := e.agents.Get(agentID)
	if !ok {
		return types.SupervisorAlert{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if message == "" {
		message = fmt.Sprintf("agent %s requested assistance", agentID)
	}

	alert := e.alerts.Raise(types.SupervisorAlert{
		Type:     types.AlertAgentAssist,
		Severity: types.SeverityWarning,
		AgentID:  agentID,
		CallID:   agent.CurrentCallID,
		QueueID:  agent.QueueID,
		Message:  message,
	})
	if e.metrics != nil {
		e.metrics.AlertRaised(string(alert.Type), string(alert.Severity))
	}
	return alert, nil
}

// GetAgent returns a copy of an agent record
func (e *Engine) GetAgent(agentID string) (types.Agent, error) {
	agent, ok := e.agents.Get(agentID)
	if !ok {
		return types.Agent{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	return agent, nil
}

// GetAgentPerformance returns an agent's rolling metrics
func (e *Engine) GetAgentPerformance(agentID string) (types.AgentMetrics, error) {
	agent, ok := e.agents.Get(agentID)
	if !ok {
		return types.AgentMetrics{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	return agent.Metrics, nil
}

// ListAgents returns copies of all agent records
func (e *Engine) ListAgents() []types.Agent {
	return e.agents.All()
}
