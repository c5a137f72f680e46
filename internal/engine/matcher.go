package engine

import (
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// Scoring weights for agent matching
const (
	agentSkillWeight     = 10
	agentCertifiedScore  = 5
	agentLanguageScore   = 15
	agentSatisfactionMul = 2
)

// matchScore rates one candidate agent for a call
func matchScore(call *types.Call, agent *types.Agent) float64 {
	score := 0.0

	if skill, ok := agent.Skills[call.CrisisType]; ok {
		score += float64(skill.Level.Weight() * agentSkillWeight)
		if skill.Certified {
			score += agentCertifiedScore
		}
	}
	if call.Caller.Language != "" && agent.SpeaksLanguage(call.Caller.Language) {
		score += agentLanguageScore
	}

	score += agent.Metrics.CustomerSatisfaction * agentSatisfactionMul
	score += agent.Metrics.FirstCallResolution / 10

	// Load balancing: every call already handled today counts against
	score -= float64(agent.Metrics.CallsToday)

	return score
}

// selectAgent picks the best available agent bound to the call's queue, or
// "" when the pool is empty. Ties resolve to the lexicographically smallest
// agent id so the result is deterministic for identical inputs.
//
// Caller must hold e.mu; the commit that claims the returned agent happens
// under the same lock hold, so the pool cannot change in between.
func (e *Engine) selectAgent(call *types.Call, queueID string) string {
	pool := e.agents.AvailableForQueue(queueID)
	if len(pool) == 0 {
		return ""
	}

	bestID := ""
	bestScore := 0.0
	for i := range pool {
		score := matchScore(call, &pool[i])
		if bestID == "" || score > bestScore || (score == bestScore && pool[i].ID < bestID) {
			bestID = pool[i].ID
			bestScore = score
		}
	}
	return bestID
}
