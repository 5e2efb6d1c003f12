package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
	"github.com/Yerlan2901/Progress_Engine/pkg/logger"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

// InsertActivity appends a new activity. Activities are never updated
// in place; corrections arrive as new documents.
func (r *ActivityRepository) InsertActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert activity")
		return nil, fmt.Errorf("failed to insert activity: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = insertedID
	}

	logger.Log.WithFields(map[string]interface{}{
		"activity_id": activity.ID.Hex(),
		"goal_id":     activity.GoalID.Hex(),
	}).Info("Activity logged successfully")
	return activity, nil
}

// GetActivityByID fetches a single activity
func (r *ActivityRepository) GetActivityByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity); err != nil {
		logger.Log.WithError(err).WithField("activity_id", id.Hex()).Error("Failed to find activity by ID")
		return nil, fmt.Errorf("failed to find activity: %v", err)
	}
	return &activity, nil
}

// GetGoalActivities fetches the full history of a goal ordered by
// activity date ascending, which is the order the engine folds over.
func (r *ActivityRepository) GetGoalActivities(ctx context.Context, goalID primitive.ObjectID) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "activity_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"goal_id": goalID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}
