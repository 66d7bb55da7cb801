// internal/domain/program.go
package domain

import (
	"time"

	"alcyxob/kinevo/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus tracks whether a program is being edited, running or over.
type ProgramStatus string

const (
	ProgramDraft     ProgramStatus = "draft"
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
)

// Program is a multi-week training plan a coach assigns to a student.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"`
	Name          string             `bson:"name" json:"name"` // e.g., "Phase 1: Hypertrophy"
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	StartedAt     *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`         // Set when the program is activated
	DurationWeeks *int               `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"` // nil = open-ended
	Status        ProgramStatus      `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasStarted reports whether the program has a start date to project from.
func (p *Program) HasStarted() bool {
	return p.StartedAt != nil && !p.StartedAt.IsZero()
}

// Window converts the program into the projection window. Callers must
// check HasStarted first.
func (p *Program) Window() schedule.ProgramWindow {
	w := schedule.ProgramWindow{DurationWeeks: p.DurationWeeks}
	if p.StartedAt != nil {
		w.StartedAt = *p.StartedAt
	}
	return w
}
