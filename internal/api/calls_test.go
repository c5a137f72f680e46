package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/alerting"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/callback"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/registry"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/sched"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

func newTestRouter(t *testing.T) (*chi.Mux, *engine.Engine) {
	t.Helper()
	logger := zerolog.Nop()

	scheduler := sched.New(logger)
	t.Cleanup(scheduler.Stop)

	eventBus := bus.New(logger)
	t.Cleanup(eventBus.Close)

	eng := engine.New(engine.Options{
		Queues:    registry.NewQueueRegistry(),
		Agents:    registry.NewAgentRegistry(),
		Scheduler: scheduler,
		Bus:       eventBus,
		Alerts:    alerting.NewManager(eventBus, logger),
		Callbacks: callback.NewManager(scheduler, eventBus, logger),
		Logger:    logger,
	})

	if _, err := eng.RegisterQueue(types.QueueConfig{
		ID:          "general",
		Name:        "General",
		CrisisTypes: []types.CrisisType{types.CrisisGeneral},
		Languages:   []string{"en"},
		Priority:    1,
	}); err != nil {
		t.Fatalf("RegisterQueue: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/api/calls", NewCallsHandler(eng, logger).Routes)
	r.Route("/api/agents", NewAgentsHandler(eng, logger).Routes)
	r.Route("/api/queues", NewQueuesHandler(eng, logger).Routes)
	r.Route("/api/alerts", NewAlertsHandler(eng, logger).Routes)
	return r, eng
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReceiveCallEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calls", map[string]interface{}{
		"channel":    "voice",
		"crisisType": "general",
		"caller":     map[string]string{"phone": "+15550001"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var call types.Call
	if err := json.Unmarshal(rec.Body.Bytes(), &call); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if call.ID == "" || call.Status != types.CallStatusQueued {
		t.Errorf("call = %+v, want queued with id", call)
	}
	if call.Queue.ID != "general" {
		t.Errorf("queue = %s, want general", call.Queue.ID)
	}
}

func TestReceiveCallInvalidBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calls", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetCallNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/calls/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Error("missing error message")
	}
}

func TestInvalidTransitionMapsToConflict(t *testing.T) {
	router, eng := newTestRouter(t)

	call, err := eng.ReceiveCall(types.ChannelVoice, types.CallerInfo{}, types.CrisisGeneral)
	if err != nil {
		t.Fatalf("ReceiveCall: %v", err)
	}

	// Answering a queued call (no agent assigned) is an invalid transition
	rec := doJSON(t, router, http.MethodPost, "/api/calls/"+call.ID+"/answer", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestCallLifecycleOverHTTP(t *testing.T) {
	router, eng := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/agents", types.Agent{
		ID:      "a1",
		Name:    "Agent One",
		Status:  types.AgentAvailable,
		QueueID: "general",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register agent status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/calls", map[string]interface{}{
		"channel":    "voice",
		"crisisType": "general",
	})
	var call types.Call
	json.Unmarshal(rec.Body.Bytes(), &call)
	if call.Status != types.CallStatusRinging {
		t.Fatalf("status = %s, want ringing", call.Status)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/calls/"+call.ID+"/answer", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/calls/"+call.ID+"/end", map[string]interface{}{
		"disposition": map[string]interface{}{"code": "resolved"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d: %s", rec.Code, rec.Body.String())
	}

	ended, _ := eng.GetCall(call.ID)
	if ended.Status != types.CallStatusCompleted {
		t.Errorf("final status = %s, want completed", ended.Status)
	}
}

func TestEndCallRequiresDispositionCode(t *testing.T) {
	router, eng := newTestRouter(t)

	call, _ := eng.ReceiveCall(types.ChannelVoice, types.CallerInfo{}, types.CrisisGeneral)

	rec := doJSON(t, router, http.MethodPost, "/api/calls/"+call.ID+"/end", map[string]interface{}{
		"disposition": map[string]interface{}{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEscalateEndpointAndAlertAcknowledge(t *testing.T) {
	router, eng := newTestRouter(t)

	call, _ := eng.ReceiveCall(types.ChannelVoice, types.CallerInfo{}, types.CrisisGeneral)

	rec := doJSON(t, router, http.MethodPost, "/api/calls/"+call.ID+"/escalate", map[string]string{
		"reason": "imminent risk",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("escalate status = %d: %s", rec.Code, rec.Body.String())
	}

	var alert types.SupervisorAlert
	json.Unmarshal(rec.Body.Bytes(), &alert)
	if alert.Severity != types.SeverityCritical {
		t.Errorf("severity = %s, want critical", alert.Severity)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/alerts/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("alerts status = %d", rec.Code)
	}
	var active []types.SupervisorAlert
	json.Unmarshal(rec.Body.Bytes(), &active)
	if len(active) != 1 {
		t.Fatalf("active alerts = %d, want 1", len(active))
	}

	rec = doJSON(t, router, http.MethodPost, "/api/alerts/"+alert.ID+"/acknowledge", map[string]string{
		"acknowledgedBy": "supervisor-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ack status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/alerts/unknown/acknowledge", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("ack unknown status = %d, want 404", rec.Code)
	}
}

func TestQueueEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/queues", types.QueueConfig{
		ID:          "suicide",
		Name:        "Suicide Prevention",
		CrisisTypes: []types.CrisisType{types.CrisisSuicide},
		Priority:    10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register queue status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/queues/", nil)
	var queues []types.Queue
	json.Unmarshal(rec.Body.Bytes(), &queues)
	if len(queues) != 2 {
		t.Errorf("queues = %d, want 2", len(queues))
	}

	rec = doJSON(t, router, http.MethodPut, "/api/queues/suicide/status", map[string]string{
		"status": "paused",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d: %s", rec.Code, rec.Body.String())
	}
	var queue types.Queue
	json.Unmarshal(rec.Body.Bytes(), &queue)
	if queue.Status != types.QueuePaused {
		t.Errorf("status = %s, want paused", queue.Status)
	}
}
