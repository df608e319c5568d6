// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan represents a dated workout plan a trainer creates for a client.
// The schedule maps each weekday to an optional workout template; a nil
// slot is a rest day.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who authored the plan
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`   // Who the plan is for
	Name      string             `bson:"name" json:"name"`           // e.g., "8-Week Strength Block"
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	StartDate time.Time          `bson:"startDate" json:"startDate"` // Calendar date; time-of-day is ignored
	EndDate   time.Time          `bson:"endDate" json:"endDate"`     // Calendar date; start <= end assumed upstream
	Schedule  WeeklySchedule     `bson:"schedule" json:"schedule"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeeklySchedule holds one optional template reference per weekday.
// The field list is exhaustive on purpose: adding or renaming a storage
// field must be reflected here, never patched around with loose maps.
type WeeklySchedule struct {
	Monday    *primitive.ObjectID `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday   *primitive.ObjectID `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday *primitive.ObjectID `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday  *primitive.ObjectID `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday    *primitive.ObjectID `bson:"friday,omitempty" json:"friday,omitempty"`
	Saturday  *primitive.ObjectID `bson:"saturday,omitempty" json:"saturday,omitempty"`
	Sunday    *primitive.ObjectID `bson:"sunday,omitempty" json:"sunday,omitempty"`
}

// WeekdayLabels lists the seven schedule slots in display order.
var WeekdayLabels = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Slots returns the schedule entries in Monday..Sunday order, matching
// WeekdayLabels index for index.
func (s WeeklySchedule) Slots() [7]*primitive.ObjectID {
	return [7]*primitive.ObjectID{
		s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday,
	}
}

// WorkoutsPerWeek counts the weekday slots that reference a template.
func (s WeeklySchedule) WorkoutsPerWeek() int {
	count := 0
	for _, slot := range s.Slots() {
		if slot != nil {
			count++
		}
	}
	return count
}
