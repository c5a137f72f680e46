package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// triage derives the initial crisis level: the caller's declared risk level
// when present, medium for frequent callers, low otherwise.
func triage(caller types.CallerInfo) types.CrisisLevel {
	if caller.RiskLevel != "" {
		return caller.RiskLevel
	}
	if caller.PreviousCalls > 5 {
		return types.CrisisLevelMedium
	}
	return types.CrisisLevelLow
}

// ReceiveCall creates a call in queued state, triages it, assigns the best
// queue and immediately attempts routing. Critical triage auto-escalates.
func (e *Engine) ReceiveCall(channel types.CallChannel, caller types.CallerInfo, crisisType types.CrisisType) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, err := e.receiveCall(channel, caller, crisisType)
	if err != nil {
		return types.Call{}, err
	}
	return *call, nil
}

// receiveCall is the lock-held intake path, shared with callback execution
func (e *Engine) receiveCall(channel types.CallChannel, caller types.CallerInfo, crisisType types.CrisisType) (*types.Call, error) {
	if crisisType == "" {
		crisisType = types.CrisisGeneral
	}

	now := time.Now()
	call := &types.Call{
		ID:          uuid.New().String(),
		Channel:     channel,
		Status:      types.CallStatusQueued,
		CrisisLevel: triage(caller),
		CrisisType:  crisisType,
		Caller:      caller,
		Timing: types.CallTiming{
			Created: now,
			Queued:  now,
		},
	}
	call.Timeline = append(call.Timeline, types.TimelineEntry{At: now, To: types.CallStatusQueued})

	queueID := e.selectQueue(crisisType, caller.Language)
	if queueID == "" {
		return nil, fmt.Errorf("no queue configured: %w", ErrNotFound)
	}
	e.calls[call.ID] = call
	e.enqueue(call, queueID)

	e.logger.Info().
		Str("call_id", call.ID).
		Str("channel", string(channel)).
		Str("crisis_type", string(crisisType)).
		Str("crisis_level", string(call.CrisisLevel)).
		Str("queue_id", queueID).
		Int("position", call.Queue.Position).
		Msg("call received")

	if e.metrics != nil {
		e.metrics.CallReceived(string(channel), string(call.CrisisLevel))
	}
	e.publish(types.EventCallReceived, *call)

	if call.CrisisLevel == types.CrisisLevelCritical {
		e.escalate(call, "critical triage at intake")
	}

	e.route(call)

	return call, nil
}

// enqueue appends the call to a queue's waiting list, snapshots the queue
// assignment and recomputes statistics. Raises a queue_backup alert when the
// waiting count crosses the occupancy threshold.
func (e *Engine) enqueue(call *types.Call, queueID string) {
	q, _ := e.queues.Get(queueID)

	before := len(e.waiting[queueID])
	e.waiting[queueID] = append(e.waiting[queueID], call)

	call.Queue = types.QueueAssignment{
		ID:            queueID,
		Name:          q.Config.Name,
		Priority:      q.Config.Priority,
		Position:      before + 1,
		EstimatedWait: e.estimateWait(queueID),
	}
	call.Status = types.CallStatusQueued

	e.recomputeQueueStats(queueID)
	e.checkOccupancy(q, before, before+1)
}

// checkOccupancy raises a queue_backup alert when the waiting count crosses
// 80% of the configured maximum (crossing only, to avoid an alert per call).
func (e *Engine) checkOccupancy(q types.Queue, before, after int) {
	if q.Config.MaxQueueSize <= 0 {
		return
	}
	threshold := int(float64(q.Config.MaxQueueSize) * occupancyAlertRatio)
	if threshold < 1 {
		threshold = 1
	}
	if before >= threshold || after < threshold {
		return
	}

	e.publish(types.EventQueueAlert, types.QueueAlertEvent{
		QueueID:      q.Config.ID,
		CallsWaiting: after,
		MaxQueueSize: q.Config.MaxQueueSize,
		Message:      fmt.Sprintf("queue %s at %d of %d slots", q.Config.ID, after, q.Config.MaxQueueSize),
	})
	alert := e.alerts.Raise(types.SupervisorAlert{
		Type:     types.AlertQueueBackup,
		Severity: types.SeverityWarning,
		QueueID:  q.Config.ID,
		Message:  fmt.Sprintf("queue %s has %d calls waiting (max %d)", q.Config.ID, after, q.Config.MaxQueueSize),
	})
	if e.metrics != nil {
		e.metrics.AlertRaised(string(alert.Type), string(alert.Severity))
	}
}

// RouteCall attempts to move a queued call to an agent. Returns false when
// no eligible agent exists; the call stays queued (not an error).
func (e *Engine) RouteCall(callID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return false, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusQueued {
		return false, fmt.Errorf("route from %s: %w", call.Status, ErrInvalidTransition)
	}
	return e.route(call), nil
}

// route matches and binds an agent to a queued call under the engine lock,
// so the availability check and the claim commit cannot race.
func (e *Engine) route(call *types.Call) bool {
	if call.Status != types.CallStatusQueued {
		return false
	}

	start := time.Now()
	agentID := e.selectAgent(call, call.Queue.ID)
	if agentID == "" {
		return false
	}

	agent, _ := e.agents.Get(agentID)
	e.agents.BindCall(agentID, call.ID)
	e.removeWaiting(call)

	call.Agent = &types.AgentAssignment{
		ID:         agentID,
		Name:       agent.Name,
		AssignedAt: time.Now(),
	}
	e.transition(call, types.CallStatusRinging, "assigned to "+agentID)

	e.recomputeQueueStats(call.Queue.ID)

	e.logger.Info().
		Str("call_id", call.ID).
		Str("agent_id", agentID).
		Str("queue_id", call.Queue.ID).
		Msg("call routed to agent")

	if e.metrics != nil {
		e.metrics.CallRouted(time.Since(start).Seconds())
	}
	e.publish(types.EventAgentStatus, types.AgentStatusEvent{
		AgentID:  agentID,
		Previous: types.AgentAvailable,
		Current:  types.AgentOnCall,
		CallID:   call.ID,
	})

	return true
}

// drainQueue routes as many waiting calls as agents allow, FIFO
func (e *Engine) drainQueue(queueID string) {
	for {
		list := e.waiting[queueID]
		if len(list) == 0 {
			return
		}
		if !e.route(list[0]) {
			return
		}
	}
}
