package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType classifies a logged event.
type ActivityType string

const (
	ActivityProgress  ActivityType = "progress"
	ActivityCompleted ActivityType = "completed"
	ActivitySkipped   ActivityType = "skipped"
	ActivityPartial   ActivityType = "partial"
)

var AllowedActivityTypes = map[ActivityType]bool{
	ActivityProgress:  true,
	ActivityCompleted: true,
	ActivitySkipped:   true,
	ActivityPartial:   true,
}

// Activity is a single logged event against a goal. Activities are
// append-only: corrections are new activities that reference the one
// they supersede, never edits of historical values.
type Activity struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GoalID       primitive.ObjectID  `bson:"goal_id" json:"goal_id"`
	UserID       primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Value        float64             `bson:"value" json:"value"`
	Type         ActivityType        `bson:"type" json:"type"`
	ActivityDate time.Time           `bson:"activity_date" json:"activity_date"`
	Context      map[string]string   `bson:"context,omitempty" json:"context,omitempty"`
	Supersedes   *primitive.ObjectID `bson:"supersedes,omitempty" json:"supersedes,omitempty"`
	LoggedAt     time.Time           `bson:"logged_at" json:"logged_at"`
}
