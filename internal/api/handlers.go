package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/export"
	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type handlers struct {
	fleet   *fleet.Store
	ledger  Ledger
	ids     engine.IDGenerator
	book    *ScenarioBook
	metrics *Metrics
	logger  *slog.Logger
}

// A helper function to write standard JSON responses.
func (h *handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error("encode response", "error", err)
		}
	}
}

// A helper function to return consistent error messages.
func (h *handlers) httpError(w http.ResponseWriter, message string, code string, status int) {
	h.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// Error codes in ErrorResponse that are not engine codes.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeInternal    = "INTERNAL"
	codeUnavailable = "LEDGER_UNAVAILABLE"
)

// engineError maps engine and fleet errors to HTTP responses.
func (h *handlers) engineError(w http.ResponseWriter, err error) {
	var ee *engine.Error
	switch {
	case errors.As(err, &ee) && ee.Code == engine.ErrCodeNotFound:
		h.httpError(w, ee.Error(), string(ee.Code), http.StatusNotFound)
	case errors.As(err, &ee):
		h.httpError(w, ee.Error(), string(ee.Code), http.StatusBadRequest)
	case errors.Is(err, fleet.ErrTrainNotFound):
		h.httpError(w, err.Error(), string(engine.ErrCodeNotFound), http.StatusNotFound)
	default:
		h.logger.Error("request failed", "error", err)
		h.httpError(w, "internal error", codeInternal, http.StatusInternalServerError)
	}
}

// TrainView is a train with its score, as shown on the dashboard.
type TrainView struct {
	fleet.Train
	Score     float64          `json:"score"`
	Eligible  bool             `json:"eligible"`
	Breakdown engine.Breakdown `json:"breakdown"`
}

func viewOf(t fleet.Train) TrainView {
	a := engine.Assess(t)
	return TrainView{Train: t, Score: a.Score, Eligible: a.Eligible, Breakdown: a.Breakdown}
}

// Health handles GET /healthz.
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"revision": h.fleet.Revision(),
		"ledger":   h.ledger != nil,
	})
}

// ListTrains handles GET /api/trains?search=&bay=&status=.
func (h *handlers) ListTrains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := fleet.Filter{Search: q.Get("search"), Bay: q.Get("bay")}
	if s := q.Get("status"); s != "" {
		status, err := fleet.ParseStatus(s)
		if err != nil {
			h.httpError(w, err.Error(), codeBadRequest, http.StatusBadRequest)
			return
		}
		filter.Status = status
	}

	trains := filter.Apply(h.fleet.Trains())
	views := make([]TrainView, len(trains))
	for i, t := range trains {
		views[i] = viewOf(t)
	}
	h.respondJSON(w, http.StatusOK, views)
}

// GetTrain handles GET /api/trains/{id}.
func (h *handlers) GetTrain(w http.ResponseWriter, r *http.Request) {
	t, err := h.fleet.Train(r.PathValue("id"))
	if err != nil {
		h.engineError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, viewOf(t))
}

// PatchTrain handles PATCH /api/trains/{id}. The edit replaces the train
// copy-on-write and re-derives its computed fields.
func (h *handlers) PatchTrain(w http.ResponseWriter, r *http.Request) {
	var patch fleet.TrainPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		h.httpError(w, "Invalid request body", codeBadRequest, http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	updated, err := h.fleet.Update(id, patch)
	if err != nil {
		if errors.Is(err, fleet.ErrTrainNotFound) {
			h.engineError(w, err)
			return
		}
		h.httpError(w, err.Error(), string(engine.ErrCodeInvalidPatch), http.StatusBadRequest)
		return
	}

	h.logger.Info("train updated", "train", id, "revision", h.fleet.Revision())
	h.respondJSON(w, http.StatusOK, viewOf(updated))
}

func (h *handlers) buildPlan() (engine.Plan, []fleet.Train) {
	trains := h.fleet.Trains()
	start := time.Now()
	plan := engine.BuildPlan(trains)
	h.metrics.ObserveRankDuration(time.Since(start).Seconds())
	return plan, trains
}

// GetPlan handles GET /api/plan.
func (h *handlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, _ := h.buildPlan()
	h.respondJSON(w, http.StatusOK, plan)
}

// ExportPlan handles GET /api/plan/export?format=csv|xlsx.
func (h *handlers) ExportPlan(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		h.httpError(w, fmt.Sprintf("unsupported format %q", format), codeBadRequest, http.StatusBadRequest)
		return
	}

	plan, _ := h.buildPlan()
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=induction-plan.%s", format))
	if err := export.Write(w, format, plan); err != nil {
		h.logger.Error("export plan", "format", format, "error", err)
	}
}

// DecisionRequest is the body of POST /api/plan/decision.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Actor    string `json:"actor"`
	Notes    string `json:"notes"`
}

// DecidePlan handles POST /api/plan/decision. The current plan is recorded
// in the ledger; an approved plan's ranks become the fleet's prior ranks.
func (h *handlers) DecidePlan(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		h.httpError(w, "plan ledger not configured", codeUnavailable, http.StatusServiceUnavailable)
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", codeBadRequest, http.StatusBadRequest)
		return
	}
	decision, err := store.ParseDecision(req.Decision)
	if err != nil {
		h.httpError(w, err.Error(), codeBadRequest, http.StatusBadRequest)
		return
	}
	if req.Actor == "" {
		h.httpError(w, "actor is required", codeBadRequest, http.StatusBadRequest)
		return
	}

	plan, trains := h.buildPlan()
	digest, err := fleet.Digest(trains)
	if err != nil {
		h.engineError(w, err)
		return
	}

	rec := store.PlanRecord{
		ID:          h.ids.Generate(),
		Decision:    decision,
		Actor:       req.Actor,
		Notes:       req.Notes,
		FleetDigest: digest,
		Entries:     plan.Entries,
	}
	if err := h.ledger.RecordPlan(r.Context(), rec); err != nil {
		h.engineError(w, err)
		return
	}
	if decision == store.DecisionApproved {
		h.fleet.CommitRanks(plan.RankedTrains())
	}

	saved, err := h.ledger.GetPlan(r.Context(), rec.ID)
	if err != nil {
		h.engineError(w, err)
		return
	}

	h.logger.Info("plan decided", "id", rec.ID, "decision", decision, "actor", req.Actor)
	h.respondJSON(w, http.StatusCreated, saved)
}

// PlanHistory handles GET /api/plan/history?limit=.
func (h *handlers) PlanHistory(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		h.httpError(w, "plan ledger not configured", codeUnavailable, http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.httpError(w, "limit must be a positive integer", codeBadRequest, http.StatusBadRequest)
			return
		}
		limit = n
	}

	plans, err := h.ledger.ListPlans(r.Context(), limit)
	if err != nil {
		h.engineError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plans)
}

// GetPlanRecord handles GET /api/plan/history/{id}.
func (h *handlers) GetPlanRecord(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		h.httpError(w, "plan ledger not configured", codeUnavailable, http.StatusServiceUnavailable)
		return
	}

	rec, err := h.ledger.GetPlan(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrPlanNotFound) {
		h.httpError(w, err.Error(), string(engine.ErrCodeNotFound), http.StatusNotFound)
		return
	}
	if err != nil {
		h.engineError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rec)
}

// ConflictsResponse separates engine-detected conflicts from the conflicts
// recorded with the fleet snapshot.
type ConflictsResponse struct {
	Detected []fleet.Conflict `json:"detected"`
	Recorded []fleet.Conflict `json:"recorded"`
}

// ListConflicts handles GET /api/conflicts.
func (h *handlers) ListConflicts(w http.ResponseWriter, r *http.Request) {
	snap := h.fleet.Snapshot()
	resp := ConflictsResponse{
		Detected: engine.DetectConflicts(snap.Trains),
		Recorded: snap.Conflicts,
	}
	if resp.Detected == nil {
		resp.Detected = []fleet.Conflict{}
	}
	if resp.Recorded == nil {
		resp.Recorded = []fleet.Conflict{}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// HandleConflict handles POST /api/conflicts/{id}/handled, marking a
// recorded conflict as dealt with.
func (h *handlers) HandleConflict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.fleet.SetConflictHandled(id, true); err != nil {
		h.httpError(w, err.Error(), string(engine.ErrCodeNotFound), http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ScenarioRequest is the body of POST /api/scenarios.
type ScenarioRequest struct {
	Kind    string           `json:"kind"`
	TrainID string           `json:"train_id"`
	Patch   fleet.TrainPatch `json:"patch"`
}

// ScenarioSummary is a scenario without its modified fleet.
type ScenarioSummary struct {
	ID          string        `json:"id"`
	Kind        engine.Kind   `json:"kind"`
	TrainID     string        `json:"train_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Applied     bool          `json:"applied"`
	Impact      engine.Impact `json:"impact"`
}

func summaryOf(sc *engine.Scenario) ScenarioSummary {
	return ScenarioSummary{
		ID:          sc.ID,
		Kind:        sc.Kind,
		TrainID:     sc.TrainID,
		Name:        sc.Name,
		Description: sc.Description,
		Applied:     sc.Applied,
		Impact:      sc.Impact,
	}
}

// CreateScenario handles POST /api/scenarios. Every scenario is derived
// from the current fleet, never from another scenario.
func (h *handlers) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", codeBadRequest, http.StatusBadRequest)
		return
	}

	snap := h.fleet.Snapshot()
	sim := &engine.Simulator{Today: snap.ReferenceDate, IDs: h.ids, Logger: h.logger}
	sc, err := sim.Simulate(snap.Trains, req.Kind, req.TrainID, req.Patch)
	if err != nil {
		kind := req.Kind
		if engine.IsInvalidScenarioType(err) {
			kind = "unknown"
		}
		h.metrics.IncSimulations(kind, OutcomeRejected)
		h.engineError(w, err)
		return
	}

	outcome := OutcomeApplied
	if !sc.Applied {
		outcome = OutcomeNoop
	}
	h.metrics.IncSimulations(string(sc.Kind), outcome)
	h.book.Add(sc)

	h.respondJSON(w, http.StatusCreated, sc)
}

// ListScenarios handles GET /api/scenarios.
func (h *handlers) ListScenarios(w http.ResponseWriter, r *http.Request) {
	list := h.book.List()
	out := make([]ScenarioSummary, len(list))
	for i, sc := range list {
		out[i] = summaryOf(sc)
	}
	h.respondJSON(w, http.StatusOK, out)
}

// GetScenario handles GET /api/scenarios/{id}.
func (h *handlers) GetScenario(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.book.Get(r.PathValue("id"))
	if !ok {
		h.httpError(w, "scenario not found", string(engine.ErrCodeNotFound), http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, sc)
}

// ClearScenarios handles DELETE /api/scenarios.
func (h *handlers) ClearScenarios(w http.ResponseWriter, r *http.Request) {
	n := h.book.Clear()
	h.logger.Debug("scenarios discarded", "count", n)
	h.respondJSON(w, http.StatusNoContent, nil)
}
