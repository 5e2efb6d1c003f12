package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
	"github.com/Yerlan2901/Progress_Engine/internal/services"
)

// GoalHandler handles HTTP requests related to goals.
type GoalHandler struct {
	Service         *services.GoalService
	ProgressService *services.ProgressService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(goalService *services.GoalService, progressService *services.ProgressService) *GoalHandler {
	return &GoalHandler{
		Service:         goalService,
		ProgressService: progressService,
	}
}

// CreateGoalHandler handles the creation of a new goal.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if goal.UserID.IsZero() {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	createdGoal, err := h.Service.CreateGoal(r.Context(), &goal)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create goal")
		http.Error(w, err.Error(), statusForEngineError(err))
		return
	}

	logrus.WithFields(logrus.Fields{
		"goal_id": createdGoal.ID.Hex(),
		"pattern": createdGoal.Pattern,
	}).Info("Goal successfully created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdGoal)
}

// GetGoalHandler handles fetching a single goal by its ID.
func (h *GoalHandler) GetGoalHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Warn("Failed to fetch goal")
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// GetGoalsHandler lists a user's goals, optionally filtered by pattern.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}
	pattern := models.GoalPattern(r.URL.Query().Get("pattern"))

	goals, err := h.Service.GetGoals(r.Context(), userID, pattern)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch goals")
		http.Error(w, "Failed to fetch goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

// UpdateGoalStatusHandler moves a goal through its lifecycle.
func (h *GoalHandler) UpdateGoalStatusHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	var payload struct {
		Status models.GoalStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.UpdateStatus(r.Context(), goalID, payload.Status)
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Warn("Failed to update goal status")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// DeleteGoalHandler removes a goal.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	if err := h.Service.DeleteGoal(r.Context(), goalID); err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Error("Failed to delete goal")
		http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGoalProgressHandler returns the goal's current snapshot.
func (h *GoalHandler) GetGoalProgressHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	progress := goal.Progress
	if progress == nil {
		progress = models.EmptySnapshot()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progress)
}

// RecomputeProgressHandler re-derives the snapshot from the full
// activity history on demand.
func (h *GoalHandler) RecomputeProgressHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	snapshot, err := h.ProgressService.Recompute(r.Context(), goalID)
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Warn("Recompute failed")
		http.Error(w, err.Error(), statusForEngineError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}
