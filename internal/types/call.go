package types

import "time"

// CallChannel is the medium a call arrives on
type CallChannel string

const (
	ChannelVoice CallChannel = "voice"
	ChannelSMS   CallChannel = "sms"
	ChannelChat  CallChannel = "chat"
	ChannelVideo CallChannel = "video"
	ChannelTTY   CallChannel = "tty"
	ChannelRelay CallChannel = "relay"
)

// CallStatus represents the lifecycle state of a call
type CallStatus string

const (
	CallStatusQueued      CallStatus = "queued"      // waiting in a queue, no agent
	CallStatusRinging     CallStatus = "ringing"     // agent assigned, not yet answered
	CallStatusActive      CallStatus = "active"      // agent talking to caller
	CallStatusOnHold      CallStatus = "on_hold"     // caller parked by the agent
	CallStatusTransferred CallStatus = "transferred" // handed to another queue
	CallStatusCompleted   CallStatus = "completed"   // ended with a disposition
	CallStatusAbandoned   CallStatus = "abandoned"   // caller hung up while waiting
	CallStatusFailed      CallStatus = "failed"      // could not be delivered
)

// IsTerminal reports whether the status ends the call for analytics purposes.
// A transferred call re-enters queued under a new queue with the same ID.
func (s CallStatus) IsTerminal() bool {
	return s == CallStatusCompleted || s == CallStatusAbandoned || s == CallStatusFailed
}

// CrisisLevel is the triage severity of a call
type CrisisLevel string

const (
	CrisisLevelCritical CrisisLevel = "critical"
	CrisisLevelHigh     CrisisLevel = "high"
	CrisisLevelMedium   CrisisLevel = "medium"
	CrisisLevelLow      CrisisLevel = "low"
)

// CrisisType categorizes a call for skill and queue matching
type CrisisType string

const (
	CrisisSuicide          CrisisType = "suicide"
	CrisisMentalHealth     CrisisType = "mental_health"
	CrisisDomesticViolence CrisisType = "domestic_violence"
	CrisisSubstanceAbuse   CrisisType = "substance_abuse"
	CrisisChildWelfare     CrisisType = "child_welfare"
	CrisisElderAbuse       CrisisType = "elder_abuse"
	CrisisDisaster         CrisisType = "disaster"
	CrisisWelfareCheck     CrisisType = "welfare_check"
	CrisisGeneral          CrisisType = "general"
)

// CallerInfo holds what we know about the person on the line
type CallerInfo struct {
	Phone         string      `json:"phone,omitempty"`
	Name          string      `json:"name,omitempty"`
	Location      string      `json:"location,omitempty"`
	Language      string      `json:"language,omitempty"`
	RiskLevel     CrisisLevel `json:"riskLevel,omitempty"` // declared by IVR or prior record
	PreviousCalls int         `json:"previousCalls,omitempty"`
	Anonymous     bool        `json:"anonymous,omitempty"`
}

// QueueAssignment is the call's snapshot of its queue at assignment time
type QueueAssignment struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Priority      int           `json:"priority"`
	Position      int           `json:"position"`      // 1-based position in the waiting list
	EstimatedWait time.Duration `json:"estimatedWait"` // estimate at enqueue time
}

// AgentAssignment references the agent currently bound to a call
type AgentAssignment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AssignedAt time.Time `json:"assignedAt"`
}

// HoldInterval records one hold period; End is nil while the hold is open
type HoldInterval struct {
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// CallTiming tracks the timestamps and derived durations of a call.
// Answered is set at most once and never precedes Queued.
type CallTiming struct {
	Created  time.Time      `json:"created"`
	Queued   time.Time      `json:"queued"`
	Answered *time.Time     `json:"answered,omitempty"`
	Ended    *time.Time     `json:"ended,omitempty"`
	Holds    []HoldInterval `json:"holds,omitempty"`

	// Derived at completion
	TotalDuration time.Duration `json:"totalDuration,omitempty"`
	TalkTime      time.Duration `json:"talkTime,omitempty"`
	HoldTime      time.Duration `json:"holdTime,omitempty"`
	WaitTime      time.Duration `json:"waitTime,omitempty"`
}

// CallNote is an ordered annotation on a call
type CallNote struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// FollowUp describes a requested post-call contact
type FollowUp struct {
	Required     bool      `json:"required"`
	ScheduledFor time.Time `json:"scheduledFor,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// Disposition is the outcome record frozen at call completion
type Disposition struct {
	Code     string   `json:"code"`
	Notes    string   `json:"notes,omitempty"`
	FollowUp FollowUp `json:"followUp,omitempty"`
}

// TimelineEntry records a status transition on a call
type TimelineEntry struct {
	At     time.Time  `json:"at"`
	From   CallStatus `json:"from,omitempty"`
	To     CallStatus `json:"to"`
	Detail string     `json:"detail,omitempty"`
}

// Call is the unit of truth for one contact with the hotline.
// A call holds exactly one queue assignment at any instant and an agent
// reference only while status is ringing, active or on_hold.
type Call struct {
	ID          string           `json:"id"`
	Channel     CallChannel      `json:"channel"`
	Status      CallStatus       `json:"status"`
	CrisisLevel CrisisLevel      `json:"crisisLevel"`
	CrisisType  CrisisType       `json:"crisisType"`
	Caller      CallerInfo       `json:"caller"`
	Queue       QueueAssignment  `json:"queue"`
	Agent       *AgentAssignment `json:"agent,omitempty"`
	Timing      CallTiming       `json:"timing"`
	Notes       []CallNote       `json:"notes,omitempty"`
	Disposition *Disposition     `json:"disposition,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Timeline    []TimelineEntry  `json:"timeline,omitempty"`

	// WarmFromAgentID marks the escorting agent during a warm transfer.
	// Cleared when the transferred call is answered.
	WarmFromAgentID string `json:"warmFromAgentId,omitempty"`

	// References recorded for the external case-management collaborator
	SafetyPlanIDs []string `json:"safetyPlanIds,omitempty"`
	DispatchIDs   []string `json:"dispatchIds,omitempty"`

	// CallbackID links an outbound call to the callback that spawned it
	CallbackID string `json:"callbackId,omitempty"`
}

// HasTag reports whether the call carries the given tag
func (c *Call) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
