package domain

import (
	"time"

	"alcyxob/kinevo/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the session lifecycle
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Session is a student's recorded attempt at one of the program's workouts.
type Session struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID         primitive.ObjectID `bson:"programId" json:"programId"`
	StudentID         primitive.ObjectID `bson:"studentId" json:"studentId"`
	AssignedWorkoutID primitive.ObjectID `bson:"assignedWorkoutId" json:"assignedWorkoutId"`
	StartedAt         time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Status            SessionStatus      `bson:"status" json:"status"`
	RPE               *int               `bson:"rpe,omitempty" json:"rpe,omitempty"` // Perceived effort, 1-10
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (s *Session) Ref() schedule.SessionRef {
	return schedule.SessionRef{
		ID:                s.ID.Hex(),
		AssignedWorkoutID: s.AssignedWorkoutID.Hex(),
		StartedAt:         s.StartedAt,
		CompletedAt:       s.CompletedAt,
		Status:            schedule.SessionStatus(s.Status),
	}
}

// SessionRefs maps sessions to their projection references.
func SessionRefs(sessions []Session) []schedule.SessionRef {
	refs := make([]schedule.SessionRef, 0, len(sessions))
	for i := range sessions {
		refs = append(refs, sessions[i].Ref())
	}
	return refs
}
