package types

import "time"

// CallbackStatus is the lifecycle state of a scheduled callback
type CallbackStatus string

const (
	CallbackScheduled CallbackStatus = "scheduled"
	CallbackAttempted CallbackStatus = "attempted"
	CallbackCompleted CallbackStatus = "completed"
	CallbackFailed    CallbackStatus = "failed"
	CallbackCancelled CallbackStatus = "cancelled"
)

// CallbackAttempt records one execution of a callback
type CallbackAttempt struct {
	At      time.Time `json:"at"`
	AgentID string    `json:"agentId,omitempty"`
	CallID  string    `json:"callId,omitempty"`
	Result  string    `json:"result"`
	Error   string    `json:"error,omitempty"`
}

// ScheduledCallback is a deferred outbound call attempt. A timer fires a
// callback_due event at ScheduledFor; execution creates a new outbound call.
type ScheduledCallback struct {
	ID           string            `json:"id"`
	Phone        string            `json:"phone"`
	CallerName   string            `json:"callerName,omitempty"`
	Language     string            `json:"language,omitempty"`
	ScheduledFor time.Time         `json:"scheduledFor"`
	Reason       string            `json:"reason,omitempty"`
	CrisisType   CrisisType        `json:"crisisType,omitempty"`
	CrisisLevel  CrisisLevel       `json:"crisisLevel,omitempty"`
	AgentID      string            `json:"agentId,omitempty"`
	Status       CallbackStatus    `json:"status"`
	Attempts     []CallbackAttempt `json:"attempts,omitempty"`
	SourceCallID string            `json:"sourceCallId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
