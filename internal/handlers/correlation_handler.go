package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
	"github.com/Yerlan2901/Progress_Engine/internal/services"
)

// CorrelationHandler exposes the cross-goal correlator.
type CorrelationHandler struct {
	Service *services.CorrelationService
}

func NewCorrelationHandler(service *services.CorrelationService) *CorrelationHandler {
	return &CorrelationHandler{Service: service}
}

// CorrelateHandler compares two goals' daily completion series.
// Insufficient overlap is a defined outcome, not an error status.
func (h *CorrelationHandler) CorrelateHandler(w http.ResponseWriter, r *http.Request) {
	goalA := r.URL.Query().Get("goal_a")
	goalB := r.URL.Query().Get("goal_b")
	if goalA == "" || goalB == "" {
		http.Error(w, "goal_a and goal_b query parameters are required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	result, err := h.Service.Correlate(r.Context(), goalA, goalB)
	if errors.Is(err, engine.ErrInsufficientData) {
		json.NewEncoder(w).Encode(map[string]bool{"insufficient_data": true})
		return
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"goal_a": goalA,
			"goal_b": goalB,
		}).WithError(err).Warn("Correlation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(result)
}
