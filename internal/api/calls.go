package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// CallsHandler exposes the call lifecycle over HTTP
type CallsHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewCallsHandler creates a new CallsHandler
func NewCallsHandler(eng *engine.Engine, logger zerolog.Logger) *CallsHandler {
	return &CallsHandler{engine: eng, logger: logger}
}

// Routes mounts the call endpoints on a chi router
func (h *CallsHandler) Routes(r chi.Router) {
	r.Post("/", h.Receive)
	r.Get("/", h.List)
	r.Get("/{callID}", h.Get)
	r.Post("/{callID}/route", h.Route)
	r.Post("/{callID}/answer", h.Answer)
	r.Post("/{callID}/hold", h.Hold)
	r.Post("/{callID}/resume", h.Resume)
	r.Post("/{callID}/transfer", h.Transfer)
	r.Post("/{callID}/end", h.End)
	r.Post("/{callID}/abandon", h.Abandon)
	r.Post("/{callID}/fail", h.Fail)
	r.Post("/{callID}/escalate", h.Escalate)
	r.Post("/{callID}/notes", h.AddNote)
	r.Post("/{callID}/safety-plan", h.SafetyPlan)
	r.Post("/{callID}/dispatch", h.Dispatch)
}

// Receive handles POST /api/calls
func (h *CallsHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel    types.CallChannel `json:"channel"`
		Caller     types.CallerInfo  `json:"caller"`
		CrisisType types.CrisisType  `json:"crisisType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Channel == "" {
		req.Channel = types.ChannelVoice
	}

	call, err := h.engine.ReceiveCall(req.Channel, req.Caller, req.CrisisType)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, call)
}

// List handles GET /api/calls?status=queued
func (h *CallsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := types.CallStatus(r.URL.Query().Get("status"))
	respondJSON(w, http.StatusOK, h.engine.ListCalls(status))
}

// Get handles GET /api/calls/{callID}
func (h *CallsHandler) Get(w http.ResponseWriter, r *http.Request) {
	call, err := h.engine.GetCall(chi.URLParam(r, "callID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Route handles POST /api/calls/{callID}/route
func (h *CallsHandler) Route(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	routed, err := h.engine.RouteCall(callID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"routed": routed})
}

// Answer handles POST /api/calls/{callID}/answer
func (h *CallsHandler) Answer(w http.ResponseWriter, r *http.Request) {
	call, err := h.engine.AnswerCall(chi.URLParam(r, "callID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Hold handles POST /api/calls/{callID}/hold
func (h *CallsHandler) Hold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	call, err := h.engine.HoldCall(chi.URLParam(r, "callID"), req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Resume handles POST /api/calls/{callID}/resume
func (h *CallsHandler) Resume(w http.ResponseWriter, r *http.Request) {
	call, err := h.engine.ResumeCall(chi.URLParam(r, "callID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Transfer handles POST /api/calls/{callID}/transfer
func (h *CallsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetQueueID string `json:"targetQueueId"`
		Warm          bool   `json:"warm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	call, err := h.engine.TransferCall(chi.URLParam(r, "callID"), req.TargetQueueID, req.Warm)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// End handles POST /api/calls/{callID}/end
func (h *CallsHandler) End(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Disposition types.Disposition `json:"disposition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Disposition.Code == "" {
		respondError(w, http.StatusBadRequest, "disposition code required")
		return
	}

	call, err := h.engine.EndCall(chi.URLParam(r, "callID"), req.Disposition)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Abandon handles POST /api/calls/{callID}/abandon
func (h *CallsHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	call, err := h.engine.AbandonCall(chi.URLParam(r, "callID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Fail handles POST /api/calls/{callID}/fail
func (h *CallsHandler) Fail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	call, err := h.engine.FailCall(chi.URLParam(r, "callID"), req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Escalate handles POST /api/calls/{callID}/escalate
func (h *CallsHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	alert, err := h.engine.EscalateCall(chi.URLParam(r, "callID"), req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

// AddNote handles POST /api/calls/{callID}/notes
func (h *CallsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID string `json:"authorId"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "note text required")
		return
	}

	note, err := h.engine.AddCallNote(chi.URLParam(r, "callID"), req.AuthorID, req.Text)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

// SafetyPlan handles POST /api/calls/{callID}/safety-plan
func (h *CallsHandler) SafetyPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"planId"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	planID, err := h.engine.CreateSafetyPlan(chi.URLParam(r, "callID"), req.PlanID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"planId": planID})
}

// Dispatch handles POST /api/calls/{callID}/dispatch
func (h *CallsHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location string `json:"location"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	dispatchID, err := h.engine.RequestEmergencyDispatch(chi.URLParam(r, "callID"), req.Location)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"dispatchId": dispatchID})
}
