package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dailygoals-backend/internal/domain/goal"
	"dailygoals-backend/internal/service/goals"
	"dailygoals-backend/pkg/api"
	appErrors "dailygoals-backend/pkg/errors"
)

// GoalHandler services the human editor's direct CRUD surface over the
// session graph.
type GoalHandler struct {
	service *goals.Service
	logger  *zap.Logger
}

// NewGoalHandler creates the handler.
func NewGoalHandler(service *goals.Service, logger *zap.Logger) *GoalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalHandler{service: service, logger: logger.Named("GoalHandler")}
}

// ListGoals handles GET /api/goals.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	g := h.service.Graph()
	out := make([]api.GoalResponse, 0, len(g.Days))
	for _, d := range g.Days {
		out = append(out, toGoalResponse(d))
	}
	api.Success(w, http.StatusOK, out)
}

// GetGraph handles GET /api/graph: the full day graph for the canvas.
func (h *GoalHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := h.service.Graph()
	out := api.GraphResponse{
		Nodes: make([]api.GoalResponse, 0, len(g.Days)),
		Edges: make([]api.EdgeData, 0, len(g.Links)),
	}
	for _, d := range g.Days {
		out.Nodes = append(out.Nodes, toGoalResponse(d))
	}
	for _, l := range g.Links {
		out.Edges = append(out.Edges, api.EdgeData{ID: l.ID, Source: l.Source, Target: l.Target})
	}
	api.Success(w, http.StatusOK, out)
}

// GetGoal handles GET /api/goals/{date}.
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	day, err := h.service.GetDay(date)
	if err != nil {
		api.Error(w, http.StatusNotFound, "No goal for date "+date)
		return
	}
	api.Success(w, http.StatusOK, toGoalResponse(day))
}

// PutGoal handles PUT /api/goals/{date}: the human editor's upsert.
func (h *GoalHandler) PutGoal(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := goal.ValidateDateKey(date); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	day := goal.Day{
		Date:      date,
		Goal:      req.Goal,
		Completed: req.Completed,
		Summary:   req.Summary,
		Todos:     make([]goal.Todo, 0, len(req.Todos)),
	}
	for _, t := range req.Todos {
		day.Todos = append(day.Todos, goal.Todo{ID: t.ID, Text: t.Text, Completed: t.Completed})
	}

	if _, err := h.service.PutDay(r.Context(), day); err != nil {
		if appErrors.IsValidation(err) {
			api.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to put goal", zap.String("date", date), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}

	day, err := h.service.GetDay(date)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}
	api.Success(w, http.StatusOK, toGoalResponse(day))
}

// DeleteGoal handles DELETE /api/goals/{date}.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	deleted, err := h.service.DeleteDay(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to delete goal", zap.String("date", date), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}
	if !deleted {
		api.Error(w, http.StatusNotFound, "No goal for date "+date)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toGoalResponse(d goal.Day) api.GoalResponse {
	todos := make([]api.TodoItem, 0, len(d.Todos))
	for _, t := range d.Todos {
		todos = append(todos, api.TodoItem{ID: t.ID, Text: t.Text, Completed: t.Completed})
	}
	return api.GoalResponse{
		ID:        d.ID(),
		Date:      d.Date,
		Goal:      d.Goal,
		Completed: d.Completed,
		Summary:   d.Summary,
		Todos:     todos,
	}
}
