package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionAccessDenied    = errors.New("access denied to this session")
	ErrWorkoutNotInProgram    = errors.New("workout does not belong to this program")
	ErrInvalidRPE             = errors.New("rpe must be between 1 and 10")
	ErrInvalidSessionInterval = errors.New("session range end must be after its start")
)

type StudentService interface {
	GetMyPrograms(ctx context.Context, studentID primitive.ObjectID) ([]domain.Program, error)
	GetMyProgramWorkouts(ctx context.Context, studentID, programID primitive.ObjectID) ([]domain.Workout, error)

	// Session logging
	StartSession(ctx context.Context, studentID, programID, workoutID primitive.ObjectID) (*domain.Session, error)
	CompleteSession(ctx context.Context, studentID, sessionID primitive.ObjectID, rpe *int, notes string) (*domain.Session, error)
	ListSessions(ctx context.Context, studentID, programID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
}

// studentService implements the StudentService interface.
type studentService struct {
	programRepo repository.ProgramRepository
	workoutRepo repository.WorkoutRepository
	sessionRepo repository.SessionRepository
	progress    ProgressInvalidator
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	progress ProgressInvalidator,
	metricsManager *metrics.Manager,
) StudentService {
	return &studentService{
		programRepo: programRepo,
		workoutRepo: workoutRepo,
		sessionRepo: sessionRepo,
		progress:    progress,
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// GetMyPrograms lists the student's programs, drafts excluded.
func (s *studentService) GetMyPrograms(ctx context.Context, studentID primitive.ObjectID) ([]domain.Program, error) {
	if studentID == primitive.NilObjectID {
		return nil, errors.New("student ID is required")
	}
	programs, err := s.programRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Program, 0, len(programs))
	for _, p := range programs {
		if p.Status != domain.ProgramDraft {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *studentService) GetMyProgramWorkouts(ctx context.Context, studentID, programID primitive.ObjectID) ([]domain.Workout, error) {
	if _, err := s.myProgram(ctx, studentID, programID); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByProgramID(ctx, programID)
}

// StartSession opens an in-progress session for one of the program's workouts.
func (s *studentService) StartSession(ctx context.Context, studentID, programID, workoutID primitive.ObjectID) (*domain.Session, error) {
	program, err := s.myProgram(ctx, studentID, programID)
	if err != nil {
		return nil, err
	}
	if program.Status != domain.ProgramActive || !program.HasStarted() {
		return nil, ErrProgramNotActive
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.ProgramID != program.ID {
		return nil, ErrWorkoutNotInProgram
	}

	session := &domain.Session{
		ProgramID:         program.ID,
		StudentID:         studentID,
		AssignedWorkoutID: workout.ID,
		StartedAt:         s.now().UTC(),
		Status:            domain.SessionInProgress,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	s.progress.Invalidate(program.ID.Hex())
	log.Debugf("session %s started for workout %s", sessionID.Hex(), workout.ID.Hex())
	return session, nil
}

// CompleteSession closes a session. Completing an already completed session
// returns it unchanged.
func (s *studentService) CompleteSession(ctx context.Context, studentID, sessionID primitive.ObjectID, rpe *int, notes string) (*domain.Session, error) {
	if rpe != nil && (*rpe < 1 || *rpe > 10) {
		return nil, ErrInvalidRPE
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.StudentID != studentID {
		return nil, ErrSessionAccessDenied
	}
	if session.Status == domain.SessionCompleted {
		return session, nil
	}

	completedAt := s.now().UTC()
	notes = strings.TrimSpace(notes)
	if err := s.sessionRepo.Complete(ctx, sessionID, completedAt, rpe, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	session.CompletedAt = &completedAt
	session.Status = domain.SessionCompleted
	session.RPE = rpe
	session.Notes = notes
	s.progress.Invalidate(session.ProgramID.Hex())
	s.metrics.CounterSessionsClosed.Inc()
	return session, nil
}

// ListSessions returns the student's sessions of a program started in [from, to).
func (s *studentService) ListSessions(ctx context.Context, studentID, programID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	if !to.After(from) {
		return nil, ErrInvalidSessionInterval
	}
	if _, err := s.myProgram(ctx, studentID, programID); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByProgramInRange(ctx, programID, from, to)
}

func (s *studentService) myProgram(ctx context.Context, studentID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.StudentID != studentID || program.Status == domain.ProgramDraft {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}
