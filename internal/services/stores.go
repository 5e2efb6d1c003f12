package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// GoalStore is the persistence surface the services need for goals.
// The mongo repository satisfies it; tests use in-memory fakes.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
	GetGoals(ctx context.Context, userID primitive.ObjectID, pattern models.GoalPattern) ([]models.Goal, error)
	GetActiveGoals(ctx context.Context) ([]models.Goal, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.GoalStatus) error
	UpdateProgress(ctx context.Context, id primitive.ObjectID, snapshot *models.ProgressSnapshot) error
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
}

// ActivityStore is the append-only activity log surface.
type ActivityStore interface {
	InsertActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetActivityByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error)
	GetGoalActivities(ctx context.Context, goalID primitive.ObjectID) ([]models.Activity, error)
}
