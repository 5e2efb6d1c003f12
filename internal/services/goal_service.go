package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// GoalService encapsulates the business logic for goals.
type GoalService struct {
	store GoalStore
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store}
}

// CreateGoal validates a goal's pattern configuration against the rule
// table and stores it with an empty snapshot attached.
func (s *GoalService) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if goal.Name == "" {
		logrus.Warn("Goal name is empty during creation")
		return nil, fmt.Errorf("goal name is required")
	}
	if !models.AllowedPatterns[goal.Pattern] {
		logrus.WithField("pattern", goal.Pattern).Warn("Unknown goal pattern during creation")
		return nil, fmt.Errorf("unknown goal pattern %q", goal.Pattern)
	}
	if err := engine.CheckGoalConfig(goal); err != nil {
		logrus.WithError(err).Warn("Goal configuration rejected")
		return nil, err
	}

	if goal.Status == "" {
		goal.Status = models.StatusActive
	}
	goal.Progress = models.EmptySnapshot()

	createdGoal, err := s.store.CreateGoal(ctx, goal)
	if err != nil {
		logrus.WithError(err).Error("Service failed to create goal")
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goal_id": createdGoal.ID.Hex(),
		"pattern": createdGoal.Pattern,
	}).Info("Goal created in service layer")
	return createdGoal, nil
}

// GetGoal retrieves a goal by its ID.
func (s *GoalService) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithField("goal_id", id).WithError(err).Warn("Invalid goal ID in GetGoal")
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	goal, err := s.store.GetGoalByID(ctx, objID)
	if err != nil {
		logrus.WithField("goal_id", id).WithError(err).Error("Failed to get goal from store")
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	return goal, nil
}

// GetGoals retrieves a user's goals with an optional pattern filter.
func (s *GoalService) GetGoals(ctx context.Context, userID primitive.ObjectID, pattern models.GoalPattern) ([]models.Goal, error) {
	if pattern != "" && !models.AllowedPatterns[pattern] {
		return nil, fmt.Errorf("unknown goal pattern %q", pattern)
	}

	goals, err := s.store.GetGoals(ctx, userID, pattern)
	if err != nil {
		logrus.WithField("user_id", userID.Hex()).WithError(err).Error("Failed to get goals in service")
		return nil, err
	}
	return goals, nil
}

// UpdateStatus moves a goal through its lifecycle. The engine never
// changes status itself; this is caller policy.
func (s *GoalService) UpdateStatus(ctx context.Context, id string, status models.GoalStatus) (*models.Goal, error) {
	if !models.AllowedStatuses[status] {
		return nil, fmt.Errorf("unknown goal status %q", status)
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	if err := s.store.UpdateStatus(ctx, objID, status); err != nil {
		logrus.WithField("goal_id", id).WithError(err).Error("Failed to update goal status")
		return nil, fmt.Errorf("failed to update goal status: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goal_id": id,
		"status":  status,
	}).Info("Goal status updated in service layer")
	return s.store.GetGoalByID(ctx, objID)
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid goal ID: %v", err)
	}

	if err := s.store.DeleteGoal(ctx, objID); err != nil {
		logrus.WithField("goal_id", id).WithError(err).Error("Failed to delete goal")
		return fmt.Errorf("failed to delete goal: %v", err)
	}

	logrus.WithField("goal_id", id).Info("Goal deleted in service layer")
	return nil
}
