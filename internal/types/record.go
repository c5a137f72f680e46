package types

import "time"

// CallRecord represents a finished call for DynamoDB persistence
type CallRecord struct {
	DateKey      string  `json:"dateKey" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	CallID       string  `json:"callId" dynamodbav:"CallID"`   // sort key
	Channel      string  `json:"channel" dynamodbav:"Channel"`
	QueueID      string  `json:"queueId" dynamodbav:"QueueID"`
	AgentID      string  `json:"agentId" dynamodbav:"AgentID"`
	CrisisType   string  `json:"crisisType" dynamodbav:"CrisisType"`
	CrisisLevel  string  `json:"crisisLevel" dynamodbav:"CrisisLevel"`
	Disposition  string  `json:"disposition" dynamodbav:"Disposition"`
	CreatedTime  string  `json:"createdTime" dynamodbav:"CreatedTime"`   // RFC3339
	AnsweredTime string  `json:"answeredTime" dynamodbav:"AnsweredTime"` // RFC3339
	EndedTime    string  `json:"endedTime" dynamodbav:"EndedTime"`       // RFC3339
	WaitTime     float64 `json:"waitTime" dynamodbav:"WaitTime"`         // seconds
	TalkTime     float64 `json:"talkTime" dynamodbav:"TalkTime"`         // seconds
	HoldTime     float64 `json:"holdTime" dynamodbav:"HoldTime"`         // seconds
	TotalTime    float64 `json:"totalTime" dynamodbav:"TotalTime"`       // seconds
	Abandoned    bool    `json:"abandoned" dynamodbav:"Abandoned"`
	Escalated    bool    `json:"escalated" dynamodbav:"Escalated"`
	AnsweredInSL bool    `json:"answeredInSL" dynamodbav:"AnsweredInSL"`
}

// AgentDailyStats represents an agent's daily aggregates for DynamoDB
type AgentDailyStats struct {
	AgentID       string  `json:"agentId" dynamodbav:"AgentID"` // partition key
	Date          string  `json:"date" dynamodbav:"Date"`       // YYYY-MM-DD (sort key)
	QueueID       string  `json:"queueId" dynamodbav:"QueueID"`
	TotalCalls    int     `json:"totalCalls" dynamodbav:"TotalCalls"`
	TotalTalkTime float64 `json:"totalTalkTime" dynamodbav:"TotalTalkTime"` // seconds
	TotalHoldTime float64 `json:"totalHoldTime" dynamodbav:"TotalHoldTime"` // seconds
	AvgHandleTime float64 `json:"avgHandleTime" dynamodbav:"AvgHandleTime"` // seconds
	Escalations   int     `json:"escalations" dynamodbav:"Escalations"`
	Transfers     int     `json:"transfers" dynamodbav:"Transfers"`
}

// CallStatistics is the aggregate report returned by the statistics endpoint
type CallStatistics struct {
	From           *time.Time             `json:"from,omitempty"`
	To             *time.Time             `json:"to,omitempty"`
	TotalCalls     int                    `json:"totalCalls"`
	ByStatus       map[CallStatus]int     `json:"byStatus"`
	ByCrisisLevel  map[CrisisLevel]int    `json:"byCrisisLevel"`
	ByCrisisType   map[CrisisType]int     `json:"byCrisisType"`
	ByChannel      map[CallChannel]int    `json:"byChannel"`
	AvgWaitTime    time.Duration          `json:"avgWaitTime"`
	AvgTalkTime    time.Duration          `json:"avgTalkTime"`
	AbandonRate    float64                `json:"abandonRate"` // 0-100%
	EscalatedCalls int                    `json:"escalatedCalls"`
	Queues         map[string]QueueStats  `json:"queues"`
}
