package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a reusable workout definition referenced by a plan's
// schedule slots.
type WorkoutTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Owner of the template
	Name        string             `bson:"name" json:"name"`           // e.g., "Leg Day", "Upper Body Push"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Focus       string             `bson:"focus,omitempty" json:"focus,omitempty"` // e.g., "Strength", "Hypertrophy", "Conditioning"
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
