package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
)

// CorrelationService computes the pairwise association between two
// goals' daily completion series. It reads immutable snapshots of both
// histories and writes nothing.
type CorrelationService struct {
	goals      GoalStore
	activities ActivityStore
	now        func() time.Time
}

func NewCorrelationService(goals GoalStore, activities ActivityStore) *CorrelationService {
	return &CorrelationService{
		goals:      goals,
		activities: activities,
		now:        time.Now,
	}
}

// Correlate builds both goals' daily series and hands them to the
// correlator. ErrInsufficientData passes through untouched so the
// caller can report "not enough overlap" instead of a failure.
func (s *CorrelationService) Correlate(ctx context.Context, goalAID, goalBID string) (*engine.CorrelationResult, error) {
	if goalAID == goalBID {
		return nil, fmt.Errorf("cannot correlate a goal with itself")
	}

	seriesA, err := s.dailySeries(ctx, goalAID)
	if err != nil {
		return nil, err
	}
	seriesB, err := s.dailySeries(ctx, goalBID)
	if err != nil {
		return nil, err
	}

	result, err := engine.Correlate(seriesA, seriesB)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"goal_a":      goalAID,
		"goal_b":      goalBID,
		"correlation": result.Correlation,
		"sample_size": result.SampleSize,
	}).Info("Goals correlated")
	return result, nil
}

func (s *CorrelationService) dailySeries(ctx context.Context, goalID string) ([]engine.DailyPoint, error) {
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
	return engine.BuildDailySeries(goal, history, s.now()), nil
}
