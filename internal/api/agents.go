package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// AgentsHandler exposes the counselor roster over HTTP
type AgentsHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewAgentsHandler creates a new AgentsHandler
func NewAgentsHandler(eng *engine.Engine, logger zerolog.Logger) *AgentsHandler {
	return &AgentsHandler{engine: eng, logger: logger}
}

// Routes mounts the agent endpoints on a chi router
func (h *AgentsHandler) Routes(r chi.Router) {
	r.Post("/", h.Register)
	r.Get("/", h.List)
	r.Get("/{agentID}", h.Get)
	r.Put("/{agentID}/status", h.UpdateStatus)
	r.Get("/{agentID}/performance", h.Performance)
	r.Post("/{agentID}/assist", h.Assist)
}

// Register handles POST /api/agents
func (h *AgentsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var agent types.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	registered, err := h.engine.RegisterAgent(agent)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, registered)
}

// List handles GET /api/agents
func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.ListAgents())
}

// Get handles GET /api/agents/{agentID}
func (h *AgentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	agent, err := h.engine.GetAgent(chi.URLParam(r, "agentID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// UpdateStatus handles PUT /api/agents/{agentID}/status
func (h *AgentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status types.AgentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.engine.UpdateAgentStatus(chi.URLParam(r, "agentID"), req.Status)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// Performance handles GET /api/agents/{agentID}/performance
func (h *AgentsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.engine.GetAgentPerformance(chi.URLParam(r, "agentID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// Assist handles POST /api/agents/{agentID}/assist
func (h *AgentsHandler) Assist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	alert, err := h.engine.RequestAssist(chi.URLParam(r, "agentID"), req.Message)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}
