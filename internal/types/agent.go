package types

import "time"

// AgentStatus represents the current state of a counselor
type AgentStatus string

const (
	AgentAvailable AgentStatus = "available"
	AgentBusy      AgentStatus = "busy"
	AgentOnCall    AgentStatus = "on_call"
	AgentWrapUp    AgentStatus = "wrap_up"
	AgentBreak     AgentStatus = "break"
	AgentOffline   AgentStatus = "offline"
	AgentTraining  AgentStatus = "training"
)

// SkillLevel grades an agent's proficiency for a crisis type
type SkillLevel string

const (
	SkillBasic        SkillLevel = "basic"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillSpecialist   SkillLevel = "specialist"
)

// Weight returns the numeric matching weight of a skill level (basic=1..specialist=4)
func (l SkillLevel) Weight() int {
	switch l {
	case SkillBasic:
		return 1
	case SkillIntermediate:
		return 2
	case SkillAdvanced:
		return 3
	case SkillSpecialist:
		return 4
	}
	return 0
}

// Skill is an agent's proficiency for one crisis type
type Skill struct {
	Level     SkillLevel `json:"level"`
	Certified bool       `json:"certified"`
}

// AgentMetrics are rolling performance figures, updated at call completion
type AgentMetrics struct {
	CallsHandled         int           `json:"callsHandled"`
	CallsToday           int           `json:"callsToday"`
	AvgHandleTime        time.Duration `json:"avgHandleTime"`
	AvgWrapUpTime        time.Duration `json:"avgWrapUpTime"`
	CustomerSatisfaction float64       `json:"customerSatisfaction"` // 1-5
	FirstCallResolution  float64       `json:"firstCallResolution"`  // 0-100%
	TransferRate         float64       `json:"transferRate"`         // 0-100%
	EscalationRate       float64       `json:"escalationRate"`       // 0-100%
	Transfers            int           `json:"transfers"`
	Escalations          int           `json:"escalations"`
}

// Agent is a registered counselor. CurrentCallID is non-empty iff the agent
// is on_call; busy and wrap_up never retain a call reference past handoff.
type Agent struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Status        AgentStatus           `json:"status"`
	Skills        map[CrisisType]Skill  `json:"skills,omitempty"`
	Languages     []string              `json:"languages,omitempty"`
	QueueID       string                `json:"queueId"`
	CurrentCallID string                `json:"currentCallId,omitempty"`
	StatusSince   time.Time             `json:"statusSince"`
	RegisteredAt  time.Time             `json:"registeredAt"`
	Metrics       AgentMetrics          `json:"metrics"`
}

// SpeaksLanguage reports whether the agent lists the given language
func (a *Agent) SpeaksLanguage(lang string) bool {
	for _, l := range a.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
