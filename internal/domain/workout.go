package domain

import (
	"time"

	"alcyxob/kinevo/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a named workout of a Program recurring on fixed weekdays.
type Workout struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID     primitive.ObjectID `bson:"programId" json:"programId"` // Link back to the program
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`     // Denormalized for easier query/auth
	StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"` // Denormalized
	Name          string             `bson:"name" json:"name"`           // e.g., "Day 1: Upper Body", "Long Run"
	ScheduledDays []int              `bson:"scheduledDays" json:"scheduledDays"` // 0 = Sunday ... 6 = Saturday
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Sequence      int                `bson:"sequence" json:"sequence"` // Order within the program
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (w *Workout) Ref() schedule.ScheduledWorkoutRef {
	return schedule.ScheduledWorkoutRef{
		ID:            w.ID.Hex(),
		Name:          w.Name,
		ScheduledDays: w.ScheduledDays,
	}
}

// WorkoutRefs maps workouts to their projection references.
func WorkoutRefs(workouts []Workout) []schedule.ScheduledWorkoutRef {
	refs := make([]schedule.ScheduledWorkoutRef, 0, len(workouts))
	for i := range workouts {
		refs = append(refs, workouts[i].Ref())
	}
	return refs
}
