package types

import "time"

// EventType identifies an event bus payload
type EventType string

const (
	EventCallReceived    EventType = "call_received"
	EventCallAnswered    EventType = "call_answered"
	EventCallEnded       EventType = "call_ended"
	EventAgentStatus     EventType = "agent_status"
	EventQueueAlert      EventType = "queue_alert"
	EventSupervisorAlert EventType = "supervisor_alert"
	EventCallbackDue     EventType = "callback_due"
)

// AllEventTypes lists every event type published by the engine
var AllEventTypes = []EventType{
	EventCallReceived,
	EventCallAnswered,
	EventCallEnded,
	EventAgentStatus,
	EventQueueAlert,
	EventSupervisorAlert,
	EventCallbackDue,
}

// Event is the fan-out payload published to subscribers. Data is an opaque
// object specific to the event type.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// AgentStatusEvent is the Data payload of agent_status events
type AgentStatusEvent struct {
	AgentID  string      `json:"agentId"`
	Previous AgentStatus `json:"previous"`
	Current  AgentStatus `json:"current"`
	CallID   string      `json:"callId,omitempty"`
}

// QueueAlertEvent is the Data payload of queue_alert events
type QueueAlertEvent struct {
	QueueID      string `json:"queueId"`
	CallsWaiting int    `json:"callsWaiting"`
	MaxQueueSize int    `json:"maxQueueSize"`
	Message      string `json:"message"`
}

// CallbackDueEvent is the Data payload of callback_due events
type CallbackDueEvent struct {
	CallbackID   string    `json:"callbackId"`
	Phone        string    `json:"phone"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Reason       string    `json:"reason,omitempty"`
}
