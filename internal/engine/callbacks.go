package engine

import (
	"fmt"
	"time"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/callback"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// ScheduleCallback registers a deferred outbound call attempt
func (e *Engine) ScheduleCallback(cb types.ScheduledCallback) (types.ScheduledCallback, error) {
	if cb.Phone == "" {
		return types.ScheduledCallback{}, fmt.Errorf("callback phone required: %w", ErrInvalidTransition)
	}
	if cb.ScheduledFor.IsZero() {
		return types.ScheduledCallback{}, fmt.Errorf("callback time required: %w", ErrInvalidTransition)
	}
	return e.callbacks.Schedule(cb), nil
}

// ExecuteCallback creates the outbound call for a scheduled callback and
// records the attempt. The new call enters the normal intake path as a voice
// call carrying the stored caller details.
func (e *Engine) ExecuteCallback(callbackID, agentID string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cb, ok := e.callbacks.Get(callbackID)
	if !ok {
		return types.Call{}, fmt.Errorf("callback %s: %w", callbackID, ErrNotFound)
	}
	if cb.Status != types.CallbackScheduled {
		return types.Call{}, fmt.Errorf("execute from %s: %w", cb.Status, ErrInvalidTransition)
	}

	caller := types.CallerInfo{
		Phone:     cb.Phone,
		Name:      cb.CallerName,
		Language:  cb.Language,
		RiskLevel: cb.CrisisLevel,
	}
	call, err := e.receiveCall(types.ChannelVoice, caller, cb.CrisisType)
	if err != nil {
		// Record the failed attempt but keep the callback scheduled so a
		// manual retry is possible.
		e.callbacks.RecordAttempt(callbackID, types.CallbackAttempt{
			At:      time.Now(),
			AgentID: agentID,
			Result:  "failed",
			Error:   err.Error(),
		}, types.CallbackScheduled)
		return types.Call{}, err
	}

	call.CallbackID = callbackID
	if !call.HasTag("callback") {
		call.Tags = append(call.Tags, "callback")
	}

	e.callbacks.RecordAttempt(callbackID, types.CallbackAttempt{
		At:      time.Now(),
		AgentID: agentID,
		CallID:  call.ID,
		Result:  "dialed",
	}, types.CallbackAttempted)

	e.logger.Info().
		Str("callback_id", callbackID).
		Str("call_id", call.ID).
		Str("agent_id", agentID).
		Msg("callback executed")

	return *call, nil
}

// CompleteCallback marks a callback's final outcome after its call ended
func (e *Engine) CompleteCallback(callbackID string, success bool, note string) error {
	status := types.CallbackCompleted
	result := "completed"
	if !success {
		status = types.CallbackFailed
		result = "failed"
	}
	if !e.callbacks.RecordAttempt(callbackID, types.CallbackAttempt{
		At:     time.Now(),
		Result: result,
		Error:  note,
	}, status) {
		return fmt.Errorf("callback %s: %w", callbackID, ErrNotFound)
	}
	return nil
}

// CancelCallback withdraws a scheduled callback
func (e *Engine) CancelCallback(callbackID string) error {
	found, cancelled := e.callbacks.Cancel(callbackID)
	if !found {
		return fmt.Errorf("callback %s: %w", callbackID, ErrNotFound)
	}
	if !cancelled {
		return fmt.Errorf("callback %s is not scheduled: %w", callbackID, ErrInvalidTransition)
	}
	return nil
}

// GetCallback returns one callback record
func (e *Engine) GetCallback(callbackID string) (types.ScheduledCallback, error) {
	cb, ok := e.callbacks.Get(callbackID)
	if !ok {
		return types.ScheduledCallback{}, fmt.Errorf("callback %s: %w", callbackID, ErrNotFound)
	}
	return cb, nil
}

// GetScheduledCallbacks lists callbacks matching the filter
func (e *Engine) GetScheduledCallbacks(f callback.Filter) []types.ScheduledCallback {
	return e.callbacks.List(f)
}
