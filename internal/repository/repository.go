package repository

import (
	"alcyxob/kinevo/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddStudentIDToCoach(ctx context.Context, coachID, studentID primitive.ObjectID) error
	SetCoachForStudent(ctx context.Context, studentID, coachID primitive.ObjectID) error
	GetStudentsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, workoutID, coachID primitive.ObjectID) error
}

// SessionRepository defines the interface for interacting with session logs.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetByProgramInRange returns sessions whose StartedAt lies in [from, to).
	GetByProgramInRange(ctx context.Context, programID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
	Complete(ctx context.Context, id primitive.ObjectID, completedAt time.Time, rpe *int, notes string) error
}

// ReportExportRepository defines the interface for exported report metadata.
type ReportExportRepository interface {
	Create(ctx context.Context, export *domain.ReportExport) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ReportExport, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ReportExport, error)
}
