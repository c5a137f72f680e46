package types

import "time"

// QueueStatus represents the operational state of a queue
type QueueStatus string

const (
	QueueActive   QueueStatus = "active"
	QueuePaused   QueueStatus = "paused"
	QueueOverflow QueueStatus = "overflow"
	QueueClosed   QueueStatus = "closed"
)

// ServiceLevelConfig defines the answer-time target for a queue
type ServiceLevelConfig struct {
	ThresholdSecs int `json:"thresholdSecs"` // e.g. 20
	TargetPercent int `json:"targetPercent"` // e.g. 80
}

// QueueConfig is the setup-time definition of a queue
type QueueConfig struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	CrisisTypes      []CrisisType       `json:"crisisTypes"`
	Languages        []string           `json:"languages"`
	Priority         int                `json:"priority"`
	MaxWait          time.Duration      `json:"maxWait"`
	WrapUpTime       time.Duration      `json:"wrapUpTime"`
	ServiceLevel     ServiceLevelConfig `json:"serviceLevel"`
	OverflowQueueID  string             `json:"overflowQueueId,omitempty"`
	AfterHoursQueueID string            `json:"afterHoursQueueId,omitempty"`
	MaxQueueSize     int                `json:"maxQueueSize"`
	Announcements    []string           `json:"announcements,omitempty"`
}

// SupportsCrisisType reports whether the queue handles the given crisis type
func (c *QueueConfig) SupportsCrisisType(t CrisisType) bool {
	for _, ct := range c.CrisisTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// SupportsLanguage reports whether the queue handles the given language
func (c *QueueConfig) SupportsLanguage(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// QueueStats are live figures recomputed after every mutation that could
// change them (enqueue, dequeue, agent status change).
type QueueStats struct {
	CallsWaiting    int           `json:"callsWaiting"`
	CallsInProgress int           `json:"callsInProgress"`
	AvgWait         time.Duration `json:"avgWait"`
	LongestWait     time.Duration `json:"longestWait"`
	AbandonRate     float64       `json:"abandonRate"`     // 0-100%
	ServiceLevelMet float64       `json:"serviceLevelMet"` // 0-100%
	AgentsAvailable int           `json:"agentsAvailable"`
	AgentsOnCall    int           `json:"agentsOnCall"`
	AgentsTotal     int           `json:"agentsTotal"`
}

// Queue couples a queue's configuration with its live statistics
type Queue struct {
	Config QueueConfig `json:"config"`
	Status QueueStatus `json:"status"`
	Stats  QueueStats  `json:"stats"`
}
