package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
	"github.com/Yerlan2901/Progress_Engine/internal/models"
	"github.com/Yerlan2901/Progress_Engine/internal/services"
)

// ActivityHandler handles activity logging against goals.
type ActivityHandler struct {
	ProgressService *services.ProgressService
	ActivityStore   services.ActivityStore
	GoalService     *services.GoalService
}

func NewActivityHandler(progressService *services.ProgressService, activityStore services.ActivityStore, goalService *services.GoalService) *ActivityHandler {
	return &ActivityHandler{
		ProgressService: progressService,
		ActivityStore:   activityStore,
		GoalService:     goalService,
	}
}

// LogActivityHandler validates and appends one activity, returning the
// freshly recomputed snapshot.
func (h *ActivityHandler) LogActivityHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	var activity models.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during activity logging")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	snapshot, err := h.ProgressService.LogActivity(r.Context(), goalID, &activity)
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Warn("Activity rejected")
		http.Error(w, err.Error(), statusForEngineError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snapshot)
}

// GetActivitiesHandler lists a goal's history ordered by activity date.
func (h *ActivityHandler) GetActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["id"]

	goal, err := h.GoalService.GetGoal(r.Context(), goalID)
	if err != nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	activities, err := h.ActivityStore.GetGoalActivities(r.Context(), goal.ID)
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Error("Failed to fetch activities")
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}

// SupersedeActivityHandler appends a correction for a logged activity.
func (h *ActivityHandler) SupersedeActivityHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	goalID := vars["id"]
	activityID := vars["activityId"]

	snapshot, err := h.ProgressService.SupersedeActivity(r.Context(), goalID, activityID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"goal_id":     goalID,
			"activity_id": activityID,
		}).WithError(err).Warn("Failed to supersede activity")
		http.Error(w, err.Error(), statusForEngineError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// statusForEngineError maps the engine's error taxonomy onto HTTP
// status codes.
func statusForEngineError(err error) int {
	var (
		validationErr *engine.ValidationError
		mismatchErr   *engine.PatternMismatchError
		notActiveErr  *engine.GoalNotActiveError
		cfgErr        *engine.ConfigurationError
	)
	switch {
	case errors.As(err, &notActiveErr):
		return http.StatusConflict
	case errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErr), errors.As(err, &mismatchErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
