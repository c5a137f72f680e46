package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// AnswerCall moves a ringing call to active and records the answer time.
// A warm-transfer escort still parked in busy is released here.
func (e *Engine) AnswerCall(callID string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusRinging {
		return types.Call{}, fmt.Errorf("answer from %s: %w", call.Status, ErrInvalidTransition)
	}

	now := time.Now()
	if call.Timing.Answered == nil {
		call.Timing.Answered = &now
	}
	e.transition(call, types.CallStatusActive, "")

	wait := now.Sub(call.Timing.Queued)
	call.Timing.WaitTime = wait

	q, _ := e.queues.Get(call.Queue.ID)
	c := e.countersFor(call.Queue.ID)
	c.totalAnswered++
	c.waitSum += wait
	threshold := time.Duration(q.Config.ServiceLevel.ThresholdSecs) * time.Second
	if threshold > 0 && wait <= threshold {
		c.answeredInSL++
	}

	if call.WarmFromAgentID != "" {
		e.releaseWarmEscort(call)
	}

	e.recomputeQueueStats(call.Queue.ID)

	e.logger.Info().
		Str("call_id", call.ID).
		Str("agent_id", call.Agent.ID).
		Dur("wait", wait).
		Msg("call answered")

	e.publish(types.EventCallAnswered, *call)
	return *call, nil
}

// releaseWarmEscort returns the escorting agent of a warm transfer to
// available once the new agent has picked up.
func (e *Engine) releaseWarmEscort(call *types.Call) {
	escortID := call.WarmFromAgentID
	call.WarmFromAgentID = ""

	escort, ok := e.agents.Get(escortID)
	if !ok || escort.Status != types.AgentBusy {
		return
	}
	e.agents.SetStatus(escortID, types.AgentAvailable)
	e.publish(types.EventAgentStatus, types.AgentStatusEvent{
		AgentID:  escortID,
		Previous: types.AgentBusy,
		Current:  types.AgentAvailable,
	})
	e.drainQueue(escort.QueueID)
}

// HoldCall parks an active call, opening a hold interval
func (e *Engine) HoldCall(callID, reason string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusActive {
		return types.Call{}, fmt.Errorf("hold from %s: %w", call.Status, ErrInvalidTransition)
	}

	call.Timing.Holds = append(call.Timing.Holds, types.HoldInterval{
		Start:  time.Now(),
		Reason: reason,
	})
	e.transition(call, types.CallStatusOnHold, reason)

	return *call, nil
}

// ResumeCall takes a call off hold, closing the most recent open interval
func (e *Engine) ResumeCall(callID string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusOnHold {
		return types.Call{}, fmt.Errorf("resume from %s: %w", call.Status, ErrInvalidTransition)
	}

	closeOpenHolds(call, time.Now())
	e.transition(call, types.CallStatusActive, "")

	return *call, nil
}

// closeOpenHolds ends any open hold interval at t
func closeOpenHolds(call *types.Call, t time.Time) {
	for i := range call.Timing.Holds {
		if call.Timing.Holds[i].End == nil {
			end := t
			call.Timing.Holds[i].End = &end
		}
	}
}

// TransferCall releases the current agent and re-enqueues the call on the
// target queue, then immediately retries routing. A warm transfer parks the
// outgoing agent in busy until the new agent answers; a cold transfer sends
// the agent straight to wrap-up.
func (e *Engine) TransferCall(callID, targetQueueID string, warm bool) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusActive && call.Status != types.CallStatusOnHold {
		return types.Call{}, fmt.Errorf("transfer from %s: %w", call.Status, ErrInvalidTransition)
	}
	if _, ok := e.queues.Get(targetQueueID); !ok {
		return types.Call{}, fmt.Errorf("queue %s: %w", targetQueueID, ErrNotFound)
	}

	fromQueueID := call.Queue.ID
	agentID := call.Agent.ID
	e.agents.RecordTransfer(agentID)

	if warm {
		// Policy: the escorting agent goes busy with its call reference
		// cleared; the call remembers the escort until the handoff completes.
		e.agents.SetStatus(agentID, types.AgentBusy)
		call.WarmFromAgentID = agentID
		e.publish(types.EventAgentStatus, types.AgentStatusEvent{
			AgentID:  agentID,
			Previous: types.AgentOnCall,
			Current:  types.AgentBusy,
		})
	} else {
		e.parkInWrapUp(agentID, fromQueueID)
	}

	closeOpenHolds(call, time.Now())
	call.Agent = nil
	mode := "cold"
	if warm {
		mode = "warm"
	}
	e.transition(call, types.CallStatusTransferred, mode+" transfer to "+targetQueueID)
	e.transition(call, types.CallStatusQueued, "")

	// Restart the wait clock so the target queue's service level measures
	// from the handoff, not the original intake.
	call.Timing.Queued = time.Now()

	e.enqueue(call, targetQueueID)
	e.recomputeQueueStats(fromQueueID)

	e.logger.Info().
		Str("call_id", call.ID).
		Str("from_queue", fromQueueID).
		Str("to_queue", targetQueueID).
		Bool("warm", warm).
		Msg("call transferred")

	e.route(call)
	return *call, nil
}

// EndCall finalizes a call with a disposition from any non-terminal state,
// freezes derived timing, moves the agent to wrap-up and optionally
// schedules a follow-up callback.
func (e *Engine) EndCall(callID string, disposition types.Disposition) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status.IsTerminal() {
		return types.Call{}, fmt.Errorf("end from %s: %w", call.Status, ErrInvalidTransition)
	}

	now := time.Now()
	if call.Status == types.CallStatusQueued {
		e.removeWaiting(call)
	}
	closeOpenHolds(call, now)

	call.Timing.Ended = &now
	call.Timing.TotalDuration = now.Sub(call.Timing.Created)
	var hold time.Duration
	for _, h := range call.Timing.Holds {
		end := now
		if h.End != nil {
			end = *h.End
		}
		if end.After(now) {
			end = now
		}
		hold += end.Sub(h.Start)
	}
	call.Timing.HoldTime = hold
	if call.Timing.Answered != nil {
		// Talk time excludes holds so talk + hold never exceeds the total
		call.Timing.TalkTime = now.Sub(*call.Timing.Answered) - hold
	} else {
		call.Timing.WaitTime = now.Sub(call.Timing.Queued)
	}

	d := disposition
	call.Disposition = &d
	e.transition(call, types.CallStatusCompleted, d.Code)

	if call.Agent != nil {
		agentID := call.Agent.ID
		handle := hold
		if call.Timing.Answered != nil {
			handle = now.Sub(*call.Timing.Answered)
		}
		e.agents.RecordCompletion(agentID, handle)
		e.parkInWrapUp(agentID, call.Queue.ID)
		call.Agent = nil
		e.archiveAgentDay(agentID, call, now)
	}

	c := e.countersFor(call.Queue.ID)
	if call.Timing.Answered != nil {
		c.handleSum += now.Sub(*call.Timing.Answered)
		c.handleCount++
	}

	e.recomputeQueueStats(call.Queue.ID)

	e.logger.Info().
		Str("call_id", call.ID).
		Str("disposition", d.Code).
		Dur("total", call.Timing.TotalDuration).
		Dur("talk", call.Timing.TalkTime).
		Dur("hold", call.Timing.HoldTime).
		Msg("call ended")

	if e.metrics != nil {
		e.metrics.CallCompleted(d.Code)
	}
	e.publish(types.EventCallEnded, *call)

	e.archiveCall(call)

	if d.FollowUp.Required {
		e.scheduleFollowUp(call, d.FollowUp)
	}

	return *call, nil
}

// parkInWrapUp moves an agent to wrap_up and arms the auto-return timer
// using the queue's configured wrap-up time. Any previous timer for the
// agent is replaced.
func (e *Engine) parkInWrapUp(agentID, queueID string) {
	wrapUp := defaultWrapUpTime
	if q, ok := e.queues.Get(queueID); ok && q.Config.WrapUpTime > 0 {
		wrapUp = q.Config.WrapUpTime
	}

	prev, ok := e.agents.SetStatus(agentID, types.AgentWrapUp)
	if !ok {
		return
	}
	e.publish(types.EventAgentStatus, types.AgentStatusEvent{
		AgentID:  agentID,
		Previous: prev,
		Current:  types.AgentWrapUp,
	})

	if h, armed := e.wrapTimers[agentID]; armed {
		e.scheduler.Cancel(h)
	}
	e.wrapTimers[agentID] = e.scheduler.ScheduleAfter(wrapUp, func() {
		e.finishWrapUp(agentID)
	})
}

// finishWrapUp is the wrap-up timer callback returning an agent to available
func (e *Engine) finishWrapUp(agentID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.wrapTimers, agentID)

	agent, ok := e.agents.Get(agentID)
	if !ok || agent.Status != types.AgentWrapUp {
		return
	}
	e.agents.SetStatus(agentID, types.AgentAvailable)
	e.publish(types.EventAgentStatus, types.AgentStatusEvent{
		AgentID:  agentID,
		Previous: types.AgentWrapUp,
		Current:  types.AgentAvailable,
	})

	e.logger.Debug().Str("agent_id", agentID).Msg("wrap-up finished, agent available")
	e.drainQueue(agent.QueueID)
}

// scheduleFollowUp creates a callback from a completed call's disposition
func (e *Engine) scheduleFollowUp(call *types.Call, fu types.FollowUp) {
	scheduledFor := fu.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = time.Now().Add(24 * time.Hour)
	}
	cb := e.callbacks.Schedule(types.ScheduledCallback{
		Phone:        call.Caller.Phone,
		CallerName:   call.Caller.Name,
		Language:     call.Caller.Language,
		ScheduledFor: scheduledFor,
		Reason:       fu.Reason,
		CrisisType:   call.CrisisType,
		CrisisLevel:  call.CrisisLevel,
		SourceCallID: call.ID,
	})

	e.logger.Info().
		Str("call_id", call.ID).
		Str("callback_id", cb.ID).
		Time("scheduled_for", cb.ScheduledFor).
		Msg("follow-up callback scheduled")
}

// AbandonCall marks a waiting or ringing call as given up by the caller,
// removing it from the queue atomically with the status change.
func (e *Engine) AbandonCall(callID string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status != types.CallStatusQueued && call.Status != types.CallStatusRinging {
		return types.Call{}, fmt.Errorf("abandon from %s: %w", call.Status, ErrInvalidTransition)
	}

	now := time.Now()
	if call.Status == types.CallStatusQueued {
		e.removeWaiting(call)
	}
	if call.Agent != nil {
		// Ringing abandon: the assigned agent never spoke, return directly
		agentID := call.Agent.ID
		e.agents.SetStatus(agentID, types.AgentAvailable)
		call.Agent = nil
		e.publish(types.EventAgentStatus, types.AgentStatusEvent{
			AgentID:  agentID,
			Previous: types.AgentOnCall,
			Current:  types.AgentAvailable,
		})
	}

	call.Timing.Ended = &now
	call.Timing.WaitTime = now.Sub(call.Timing.Queued)
	call.Timing.TotalDuration = now.Sub(call.Timing.Created)
	e.transition(call, types.CallStatusAbandoned, "")

	e.countersFor(call.Queue.ID).abandoned++
	e.recomputeQueueStats(call.Queue.ID)

	e.logger.Info().
		Str("call_id", call.ID).
		Dur("waited", call.Timing.WaitTime).
		Msg("call abandoned")

	if e.metrics != nil {
		e.metrics.CallAbandoned()
	}
	e.publish(types.EventCallEnded, *call)
	e.archiveCall(call)

	e.drainQueue(call.Queue.ID)
	return *call, nil
}

// FailCall marks a call undeliverable (dropped carrier leg, dead channel).
// Valid from any non-terminal state.
func (e *Engine) FailCall(callID, reason string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.Call{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status.IsTerminal() {
		return types.Call{}, fmt.Errorf("fail from %s: %w", call.Status, ErrInvalidTransition)
	}

	now := time.Now()
	if call.Status == types.CallStatusQueued {
		e.removeWaiting(call)
	}
	closeOpenHolds(call, now)
	if call.Agent != nil {
		e.parkInWrapUp(call.Agent.ID, call.Queue.ID)
		call.Agent = nil
	}

	call.Timing.Ended = &now
	call.Timing.TotalDuration = now.Sub(call.Timing.Created)
	e.transition(call, types.CallStatusFailed, reason)
	e.recomputeQueueStats(call.Queue.ID)

	e.logger.Warn().
		Str("call_id", call.ID).
		Str("reason", reason).
		Msg("call failed")

	e.publish(types.EventCallEnded, *call)
	e.archiveCall(call)

	return *call, nil
}

// EscalateCall forces a call to critical, tags it and raises a high-crisis
// supervisor alert. Valid from any non-terminal state; the call's status is
// unchanged.
func (e *Engine) EscalateCall(callID, reason string) (types.SupervisorAlert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.SupervisorAlert{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if call.Status.IsTerminal() {
		return types.SupervisorAlert{}, fmt.Errorf("escalate from %s: %w", call.Status, ErrInvalidTransition)
	}

	return e.escalate(call, reason), nil
}

// escalate is the lock-held escalation path shared with critical triage
func (e *Engine) escalate(call *types.Call, reason string) types.SupervisorAlert {
	call.CrisisLevel = types.CrisisLevelCritical
	if !call.HasTag("escalated") {
		call.Tags = append(call.Tags, "escalated")
	}
	if call.Agent != nil {
		e.agents.RecordEscalation(call.Agent.ID)
	}

	alert := e.alerts.Raise(types.SupervisorAlert{
		Type:     types.AlertHighCrisis,
		Severity: types.SeverityCritical,
		CallID:   call.ID,
		QueueID:  call.Queue.ID,
		Message:  fmt.Sprintf("call %s escalated: %s", call.ID, reason),
	})

	e.logger.Warn().
		Str("call_id", call.ID).
		Str("reason", reason).
		Str("alert_id", alert.ID).
		Msg("call escalated")

	if e.metrics != nil {
		e.metrics.CallEscalated()
		e.metrics.AlertRaised(string(alert.Type), string(alert.Severity))
	}

	return alert
}

// AddCallNote appends an ordered note to a call
func (e *Engine) AddCallNote(callID, authorID, text string) (types.CallNote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return types.CallNote{}, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}

	note := types.CallNote{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	call.Notes = append(call.Notes, note)
	return note, nil
}

// CreateSafetyPlan records a safety-plan reference on the call. The plan
// itself lives with the external case-management collaborator.
func (e *Engine) CreateSafetyPlan(callID, planID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return "", fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	if planID == "" {
		planID = uuid.New().String()
	}
	call.SafetyPlanIDs = append(call.SafetyPlanIDs, planID)
	if !call.HasTag("safety_plan") {
		call.Tags = append(call.Tags, "safety_plan")
	}
	return planID, nil
}

// RequestEmergencyDispatch records a dispatch reference on the call and
// raises a critical supervisor alert.
func (e *Engine) RequestEmergencyDispatch(callID, location string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[callID]
	if !ok {
		return "", fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}

	dispatchID := uuid.New().String()
	call.DispatchIDs = append(call.DispatchIDs, dispatchID)
	if !call.HasTag("emergency_dispatch") {
		call.Tags = append(call.Tags, "emergency_dispatch")
	}
	if location == "" {
		location = call.Caller.Location
	}

	alert := e.alerts.Raise(types.SupervisorAlert{
		Type:     types.AlertHighCrisis,
		Severity: types.SeverityCritical,
		CallID:   call.ID,
		Message:  fmt.Sprintf("emergency dispatch requested for call %s at %q", call.ID, location),
	})
	if e.metrics != nil {
		e.metrics.AlertRaised(string(alert.Type), string(alert.Severity))
	}

	return dispatchID, nil
}

// archiveAgentDay accumulates the agent's daily talk and hold totals and
// upserts the day row. Called under the engine lock at completion.
func (e *Engine) archiveAgentDay(agentID string, call *types.Call, now time.Time) {
	date := now.Format("2006-01-02")
	key := agentID + "|" + date
	day, ok := e.agentDays[key]
	if !ok {
		day = &agentDayCounters{}
		e.agentDays[key] = day
	}
	day.talkSum += call.Timing.TalkTime
	day.holdSum += call.Timing.HoldTime

	agent, ok := e.agents.Get(agentID)
	if !ok {
		return
	}
	stats := types.AgentDailyStats{
		AgentID:       agentID,
		Date:          date,
		QueueID:       agent.QueueID,
		TotalCalls:    agent.Metrics.CallsToday,
		TotalTalkTime: day.talkSum.Seconds(),
		TotalHoldTime: day.holdSum.Seconds(),
		AvgHandleTime: agent.Metrics.AvgHandleTime.Seconds(),
		Escalations:   agent.Metrics.Escalations,
		Transfers:     agent.Metrics.Transfers,
	}
	go func() {
		if err := e.store.SaveAgentDailyStats(stats); err != nil {
			e.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to archive agent daily stats")
		}
	}()
}

// archiveCall persists a finished call asynchronously; archive failures are
// logged and never affect routing.
func (e *Engine) archiveCall(call *types.Call) {
	record := callToRecord(call)
	go func() {
		if err := e.store.SaveCallRecord(record); err != nil {
			e.logger.Error().Err(err).Str("call_id", record.CallID).Msg("failed to archive call record")
		}
	}()
}

// callToRecord converts a finished call into its archive row
func callToRecord(call *types.Call) types.CallRecord {
	record := types.CallRecord{
		CallID:      call.ID,
		Channel:     string(call.Channel),
		QueueID:     call.Queue.ID,
		CrisisType:  string(call.CrisisType),
		CrisisLevel: string(call.CrisisLevel),
		CreatedTime: call.Timing.Created.Format(time.RFC3339),
		DateKey:     call.Timing.Created.Format("2006-01-02"),
		WaitTime:    call.Timing.WaitTime.Seconds(),
		TalkTime:    call.Timing.TalkTime.Seconds(),
		HoldTime:    call.Timing.HoldTime.Seconds(),
		TotalTime:   call.Timing.TotalDuration.Seconds(),
		Abandoned:   call.Status == types.CallStatusAbandoned,
		Escalated:   call.HasTag("escalated"),
	}
	if call.Disposition != nil {
		record.Disposition = call.Disposition.Code
	}
	if call.Timing.Answered != nil {
		record.AnsweredTime = call.Timing.Answered.Format(time.RFC3339)
	}
	if call.Timing.Ended != nil {
		record.EndedTime = call.Timing.Ended.Format(time.RFC3339)
	}
	// Agent is detached at completion; recover it from the timeline
	for i := len(call.Timeline) - 1; i >= 0; i-- {
		entry := call.Timeline[i]
		if entry.To == types.CallStatusRinging && len(entry.Detail) > len("assigned to ") {
			record.AgentID = entry.Detail[len("assigned to "):]
			break
		}
	}
	return record
}
