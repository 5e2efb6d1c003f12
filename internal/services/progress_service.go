package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// ProgressService drives the activity → recompute → persist flow. Each
// accepted activity triggers an immediate recompute of its goal's
// snapshot from the full ordered history; the per-goal lock keeps at
// most one recompute in flight per goal while leaving different goals
// fully parallel.
type ProgressService struct {
	goals      GoalStore
	activities ActivityStore
	locks      *engine.GoalLocks
	now        func() time.Time
}

func NewProgressService(goals GoalStore, activities ActivityStore) *ProgressService {
	return &ProgressService{
		goals:      goals,
		activities: activities,
		locks:      engine.NewGoalLocks(),
		now:        time.Now,
	}
}

// LogActivity validates and appends one activity, then recomputes the
// owning goal's snapshot. On any validation or compute error the
// stored snapshot is left exactly as it was.
func (s *ProgressService) LogActivity(ctx context.Context, goalID string, activity *models.Activity) (*models.ProgressSnapshot, error) {
	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	goal, err := s.goals.GetGoalByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}

	history, err := s.activities.GetGoalActivities(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %v", err)
	}

	if err := engine.ValidateActivity(goal, history, activity, s.now()); err != nil {
		logrus.WithFields(logrus.Fields{
			"goal_id": goalID,
			"pattern": goal.Pattern,
		}).WithError(err).Warn("Activity rejected")
		return nil, err
	}

	activity.GoalID = goal.ID
	activity.UserID = goal.UserID
	activity.LoggedAt = s.now()

	if _, err := s.activities.InsertActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to log activity: %v", err)
	}

	return s.recomputeLocked(ctx, goal)
}

// Recompute re-derives a goal's snapshot from scratch without logging
// anything new. The batch refresher and the recompute endpoint use it.
func (s *ProgressService) Recompute(ctx context.Context, goalID string) (*models.ProgressSnapshot, error) {
	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	goal, err := s.goals.GetGoalByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	return s.recomputeLocked(ctx, goal)
}

// SupersedeActivity retracts a logged activity by appending a
// tombstone entry dated on the original's day, then recomputing. The
// calculator drops the original and the tombstone together, which
// keeps the retraction correct for measurement and streak goals where
// a negated value would be meaningless. The original document is
// never touched.
func (s *ProgressService) SupersedeActivity(ctx context.Context, goalID, activityID string) (*models.ProgressSnapshot, error) {
	goalObjID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}
	actObjID, err := primitive.ObjectIDFromHex(activityID)
	if err != nil {
		return nil, fmt.Errorf("invalid activity ID: %v", err)
	}

	goal, err := s.goals.GetGoalByID(ctx, goalObjID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}

	original, err := s.activities.GetActivityByID(ctx, actObjID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %v", err)
	}
	if original.GoalID != goal.ID {
		return nil, fmt.Errorf("activity %s does not belong to goal %s", activityID, goalID)
	}
	if original.Supersedes != nil {
		return nil, fmt.Errorf("a correction cannot be superseded")
	}

	correction := &models.Activity{
		GoalID:       goal.ID,
		UserID:       goal.UserID,
		Type:         models.ActivitySkipped,
		ActivityDate: original.ActivityDate,
		Supersedes:   &original.ID,
		LoggedAt:     s.now(),
	}
	if _, err := s.activities.InsertActivity(ctx, correction); err != nil {
		return nil, fmt.Errorf("failed to log correction: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goal_id":     goalID,
		"activity_id": activityID,
	}).Info("Activity superseded")

	return s.recomputeLocked(ctx, goal)
}

// recomputeLocked serializes the load-fold-persist cycle per goal.
// The snapshot write is all-or-nothing: a compute error leaves the
// previous snapshot in place.
func (s *ProgressService) recomputeLocked(ctx context.Context, goal *models.Goal) (*models.ProgressSnapshot, error) {
	goalID := goal.ID.Hex()
	s.locks.Lock(goalID)
	defer s.locks.Unlock(goalID)

	history, err := s.activities.GetGoalActivities(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %v", err)
	}

	snapshot, err := engine.ComputeProgress(goal, history, s.now())
	if err != nil {
		logrus.WithField("goal_id", goalID).WithError(err).Error("Recompute failed, snapshot unchanged")
		return nil, err
	}

	if err := s.goals.UpdateProgress(ctx, goal.ID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goal_id":          goalID,
		"percent_complete": snapshot.PercentComplete,
		"trend":            snapshot.Trend,
	}).Info("Progress snapshot recomputed")
	return snapshot, nil
}
