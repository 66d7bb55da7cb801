package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStudentNotFound        = errors.New("student user not found")
	ErrStudentNotRole         = errors.New("user found but is not a student")
	ErrStudentAlreadyAssigned = errors.New("student is already assigned to a coach")
	ErrStudentNotManaged      = errors.New("student is not managed by this coach")
	ErrProgramNotFound        = errors.New("program not found")
	ErrProgramAccessDenied    = errors.New("access denied to this program")
	ErrProgramAlreadyStarted  = errors.New("program has already been started")
	ErrProgramNotActive       = errors.New("program is not active")
	ErrWorkoutNotFound        = errors.New("workout not found")
	ErrWorkoutAccessDenied    = errors.New("access denied to this workout")
	ErrInvalidScheduledDays   = errors.New("scheduled days must be weekdays between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidDuration        = errors.New("duration must be a positive number of weeks")
)

// ProgressInvalidator drops memoized progress for a program.
type ProgressInvalidator interface {
	Invalidate(programID string)
}

type CoachService interface {
	// Student management
	AddStudentByEmail(ctx context.Context, coachID primitive.ObjectID, studentEmail string) (*domain.User, error)
	GetManagedStudents(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)

	// Program management
	CreateProgram(ctx context.Context, coachID, studentID primitive.ObjectID, name, description string, durationWeeks *int) (*domain.Program, error)
	GetProgramsForStudent(ctx context.Context, coachID, studentID primitive.ObjectID) ([]domain.Program, error)
	ActivateProgram(ctx context.Context, coachID, programID primitive.ObjectID, startedAt time.Time) (*domain.Program, error)
	FinishProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error)

	// Workout management
	AddWorkout(ctx context.Context, coachID, programID primitive.ObjectID, name, notes string, scheduledDays []int) (*domain.Workout, error)
	GetProgramWorkouts(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, name, notes string, scheduledDays []int) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID) error
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo    repository.UserRepository
	programRepo repository.ProgramRepository
	workoutRepo repository.WorkoutRepository
	progress    ProgressInvalidator
	now         func() time.Time
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	progress ProgressInvalidator,
) CoachService {
	return &coachService{
		userRepo:    userRepo,
		programRepo: programRepo,
		workoutRepo: workoutRepo,
		progress:    progress,
		now:         time.Now,
	}
}

// === Student Management ===

// AddStudentByEmail finds a student by email and assigns them to the coach.
func (s *coachService) AddStudentByEmail(ctx context.Context, coachID primitive.ObjectID, studentEmail string) (*domain.User, error) {
	studentEmail = strings.ToLower(strings.TrimSpace(studentEmail))
	if coachID == primitive.NilObjectID || studentEmail == "" {
		return nil, errors.New("coach ID and student email are required")
	}

	student, err := s.userRepo.GetByEmail(ctx, studentEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrStudentNotRole
	}

	if student.CoachID != nil && *student.CoachID != primitive.NilObjectID {
		if *student.CoachID == coachID {
			student.PasswordHash = ""
			return student, nil
		}
		return nil, ErrStudentAlreadyAssigned
	}

	if err := s.userRepo.AddStudentIDToCoach(ctx, coachID, student.ID); err != nil {
		return nil, err
	}
	// TODO: run both updates in a mongo transaction once the deployment is a replica set
	if err := s.userRepo.SetCoachForStudent(ctx, student.ID, coachID); err != nil {
		log.Errorf("student %s added to coach %s but coach link failed: %s", student.ID.Hex(), coachID.Hex(), err)
		return nil, err
	}

	student.CoachID = &coachID
	student.PasswordHash = ""
	return student, nil
}

// GetManagedStudents retrieves the list of students managed by the coach.
func (s *coachService) GetManagedStudents(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	students, err := s.userRepo.GetStudentsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

// === Program Management ===

// CreateProgram creates a draft program for a managed student.
func (s *coachService) CreateProgram(ctx context.Context, coachID, studentID primitive.ObjectID, name, description string, durationWeeks *int) (*domain.Program, error) {
	if coachID == primitive.NilObjectID || studentID == primitive.NilObjectID || strings.TrimSpace(name) == "" {
		return nil, errors.New("coach ID, student ID and program name are required")
	}
	if durationWeeks != nil && *durationWeeks <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := s.ensureManaged(ctx, coachID, studentID); err != nil {
		return nil, err
	}

	program := &domain.Program{
		CoachID:       coachID,
		StudentID:     studentID,
		Name:          strings.TrimSpace(name),
		Description:   description,
		DurationWeeks: durationWeeks,
		Status:        domain.ProgramDraft,
	}
	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// GetProgramsForStudent lists a managed student's programs.
func (s *coachService) GetProgramsForStudent(ctx context.Context, coachID, studentID primitive.ObjectID) ([]domain.Program, error) {
	if err := s.ensureManaged(ctx, coachID, studentID); err != nil {
		return nil, err
	}
	programs, err := s.programRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	owned := programs[:0]
	for _, p := range programs {
		if p.CoachID == coachID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// ActivateProgram sets the program start and makes it visible on the
// student's calendar. A zero startedAt means now.
func (s *coachService) ActivateProgram(ctx context.Context, coachID, programID primitive.ObjectID, startedAt time.Time) (*domain.Program, error) {
	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	if program.HasStarted() {
		return nil, ErrProgramAlreadyStarted
	}
	if startedAt.IsZero() {
		startedAt = s.now()
	}

	startedAt = startedAt.UTC()
	program.StartedAt = &startedAt
	program.Status = domain.ProgramActive
	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	s.progress.Invalidate(program.ID.Hex())
	log.Infof("program %s activated from %s", program.ID.Hex(), startedAt.Format(time.RFC3339))
	return program, nil
}

// FinishProgram marks an active program completed. The window itself is
// unchanged so its history keeps projecting the same way.
func (s *coachService) FinishProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	if program.Status != domain.ProgramActive {
		return nil, ErrProgramNotActive
	}
	program.Status = domain.ProgramCompleted
	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	s.progress.Invalidate(program.ID.Hex())
	return program, nil
}

// === Workout Management ===

// AddWorkout appends a recurring workout to the program.
func (s *coachService) AddWorkout(ctx context.Context, coachID, programID primitive.ObjectID, name, notes string, scheduledDays []int) (*domain.Workout, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("workout name is required")
	}
	days, err := normalizeScheduledDays(scheduledDays)
	if err != nil {
		return nil, err
	}
	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	existing, err := s.workoutRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		ProgramID:     program.ID,
		CoachID:       coachID,
		StudentID:     program.StudentID,
		Name:          strings.TrimSpace(name),
		ScheduledDays: days,
		Notes:         notes,
		Sequence:      len(existing) + 1,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	s.progress.Invalidate(program.ID.Hex())
	return workout, nil
}

// GetProgramWorkouts lists the workouts of a program owned by the coach.
func (s *coachService) GetProgramWorkouts(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.Workout, error) {
	if _, err := s.ownedProgram(ctx, coachID, programID); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByProgramID(ctx, programID)
}

// UpdateWorkout replaces the name, notes and weekdays of a workout.
func (s *coachService) UpdateWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, name, notes string, scheduledDays []int) (*domain.Workout, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("workout name is required")
	}
	days, err := normalizeScheduledDays(scheduledDays)
	if err != nil {
		return nil, err
	}
	workout, err := s.ownedWorkout(ctx, coachID, workoutID)
	if err != nil {
		return nil, err
	}

	workout.Name = strings.TrimSpace(name)
	workout.Notes = notes
	workout.ScheduledDays = days
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	s.progress.Invalidate(workout.ProgramID.Hex())
	return workout, nil
}

// DeleteWorkout removes a workout. Sessions already logged against it stay.
func (s *coachService) DeleteWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID) error {
	workout, err := s.ownedWorkout(ctx, coachID, workoutID)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	s.progress.Invalidate(workout.ProgramID.Hex())
	return nil
}

// --- helpers ---

func (s *coachService) ensureManaged(ctx context.Context, coachID, studentID primitive.ObjectID) error {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if student.CoachID == nil || *student.CoachID != coachID {
		return ErrStudentNotManaged
	}
	return nil
}

func (s *coachService) ownedProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func (s *coachService) ownedWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.CoachID != coachID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

// normalizeScheduledDays rejects out-of-range weekdays and returns the
// remaining ones sorted without duplicates.
func normalizeScheduledDays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, ErrInvalidScheduledDays
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}
