package types

import "time"

// AlertSeverity orders supervisor alerts: critical before warning before info
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Rank returns the sort order of a severity, lowest first
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// AlertType categorizes a supervisor alert
type AlertType string

const (
	AlertHighCrisis  AlertType = "high_crisis"
	AlertQueueBackup AlertType = "queue_backup"
	AlertAgentAssist AlertType = "agent_assist"
)

// SupervisorAlert is raised by escalation logic, queue thresholds or explicit
// assist requests. Mutated only by acknowledgement, never destroyed.
type SupervisorAlert struct {
	ID             string        `json:"id"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	CallID         string        `json:"callId,omitempty"`
	AgentID        string        `json:"agentId,omitempty"`
	QueueID        string        `json:"queueId,omitempty"`
	Message        string        `json:"message"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedBy string        `json:"acknowledgedBy,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}
