package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleCoach   Role = "coach"
	RoleStudent Role = "student"
)

// User represents a user in the system (either a Coach or a Student).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Coach-specific ---
	StudentIDs []primitive.ObjectID `bson:"studentIds,omitempty" json:"studentIds,omitempty"`

	// --- Student-specific ---
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
