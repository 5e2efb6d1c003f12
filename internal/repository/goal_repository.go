package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
	"github.com/Yerlan2901/Progress_Engine/pkg/logger"
)

// GoalRepository handles database operations related to goals
type GoalRepository struct {
	collection *mongo.Collection
}

// NewGoalRepository creates a new instance of GoalRepository
func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{
		collection: db.Collection("goals"),
	}
}

// CreateGoal inserts a new goal in the database
func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert goal")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted goal ID")
		return nil, err
	}
	goal.ID = insertedID

	logger.Log.WithField("goal_id", goal.ID.Hex()).Info("Goal created successfully")
	return goal, nil
}

// GetGoalByID fetches a goal by its ID
func (r *GoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to find goal by ID")
		return nil, err
	}

	return &goal, nil
}

// GetGoals fetches goals for a specific user with an optional pattern filter
func (r *GoalRepository) GetGoals(ctx context.Context, userID primitive.ObjectID, pattern models.GoalPattern) ([]models.Goal, error) {
	filter := bson.M{"user_id": userID}
	if pattern != "" {
		filter["pattern"] = pattern
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		logger.Log.WithError(err).Error("Failed to decode goals")
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   len(goals),
	}).Info("Goals fetched successfully")

	return goals, nil
}

// GetActiveGoals fetches every goal in active status, for the batch
// snapshot refresh pass.
func (r *GoalRepository) GetActiveGoals(ctx context.Context) ([]models.Goal, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch active goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		logger.Log.WithError(err).Error("Failed to decode active goals")
		return nil, err
	}
	return goals, nil
}

// UpdateStatus moves a goal to a new lifecycle status
func (r *GoalRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.GoalStatus) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update goal status")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": id.Hex(),
		"status":  status,
	}).Info("Goal status updated successfully")
	return nil
}

// UpdateProgress replaces a goal's computed snapshot as a whole. The
// snapshot is never patched field by field.
func (r *GoalRepository) UpdateProgress(ctx context.Context, id primitive.ObjectID, snapshot *models.ProgressSnapshot) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"progress": snapshot, "updated_at": time.Now()}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update goal progress")
		return err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal progress updated successfully")
	return nil
}

// DeleteGoal deletes a goal from the database by its ID
func (r *GoalRepository) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to delete goal")
		return err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal deleted successfully")
	return nil
}
