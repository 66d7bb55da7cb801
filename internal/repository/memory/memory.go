// Package memory holds map-backed repositories for tests and local runs
// without MongoDB.
package memory

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *UserRepo) AddStudentIDToCoach(_ context.Context, coachID, studentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.users[coachID]
	if !ok || !coach.IsCoach() {
		return repository.ErrNotFound
	}
	for _, id := range coach.StudentIDs {
		if id == studentID {
			return nil
		}
	}
	coach.StudentIDs = append(coach.StudentIDs, studentID)
	return nil
}

func (r *UserRepo) SetCoachForStudent(_ context.Context, studentID, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.users[studentID]
	if !ok || !student.IsStudent() {
		return repository.ErrNotFound
	}
	student.CoachID = &coachID
	return nil
}

func (r *UserRepo) GetStudentsByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.users[coachID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	students := make([]domain.User, 0, len(coach.StudentIDs))
	for _, id := range coach.StudentIDs {
		if s, ok := r.users[id]; ok {
			students = append(students, *s)
		}
	}
	return students, nil
}

type ProgramRepo struct {
	mu       sync.Mutex
	programs map[primitive.ObjectID]*domain.Program
}

func NewProgramRepo() *ProgramRepo {
	return &ProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (r *ProgramRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	program.ID = primitive.NewObjectID()
	program.CreatedAt = time.Now().UTC()
	program.UpdatedAt = program.CreatedAt
	stored := *program
	r.programs[program.ID] = &stored
	return program.ID, nil
}

func (r *ProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *p
	return &found, nil
}

func (r *ProgramRepo) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var programs []domain.Program
	for _, p := range r.programs {
		if p.StudentID == studentID {
			programs = append(programs, *p)
		}
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].CreatedAt.After(programs[j].CreatedAt) })
	return programs, nil
}

func (r *ProgramRepo) Update(_ context.Context, program *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	program.UpdatedAt = time.Now().UTC()
	stored := *program
	r.programs[program.ID] = &stored
	return nil
}

type WorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]*domain.Workout
}

func NewWorkoutRepo() *WorkoutRepo {
	return &WorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *WorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()
	workout.UpdatedAt = workout.CreatedAt
	stored := *workout
	r.workouts[workout.ID] = &stored
	return workout.ID, nil
}

func (r *WorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *w
	return &found, nil
}

func (r *WorkoutRepo) GetByProgramID(_ context.Context, programID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	workouts := []domain.Workout{}
	for _, w := range r.workouts {
		if w.ProgramID == programID {
			workouts = append(workouts, *w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].Sequence < workouts[j].Sequence })
	return workouts, nil
}

func (r *WorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	workout.UpdatedAt = time.Now().UTC()
	stored := *workout
	r.workouts[workout.ID] = &stored
	return nil
}

func (r *WorkoutRepo) Delete(_ context.Context, workoutID, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[workoutID]
	if !ok || w.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.workouts, workoutID)
	return nil
}

type SessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*domain.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (r *SessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ProgramID == primitive.NilObjectID || session.StudentID == primitive.NilObjectID || session.AssignedWorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires programId, studentId and assignedWorkoutId")
	}
	session.ID = primitive.NewObjectID()
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.Status == "" {
		session.Status = domain.SessionInProgress
	}
	session.UpdatedAt = time.Now().UTC()
	stored := *session
	r.sessions[session.ID] = &stored
	return session.ID, nil
}

func (r *SessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *s
	return &found, nil
}

func (r *SessionRepo) GetByProgramInRange(_ context.Context, programID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := []domain.Session{}
	for _, s := range r.sessions {
		if s.ProgramID != programID || s.StartedAt.Before(from) || !s.StartedAt.Before(to) {
			continue
		}
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartedAt.Before(sessions[j].StartedAt) })
	return sessions, nil
}

func (r *SessionRepo) Complete(_ context.Context, id primitive.ObjectID, completedAt time.Time, rpe *int, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.CompletedAt = &completedAt
	s.Status = domain.SessionCompleted
	s.RPE = rpe
	s.Notes = notes
	s.UpdatedAt = time.Now().UTC()
	return nil
}

type ReportExportRepo struct {
	mu      sync.Mutex
	exports map[primitive.ObjectID]*domain.ReportExport
}

func NewReportExportRepo() *ReportExportRepo {
	return &ReportExportRepo{exports: make(map[primitive.ObjectID]*domain.ReportExport)}
}

func (r *ReportExportRepo) Create(_ context.Context, export *domain.ReportExport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	export.ID = primitive.NewObjectID()
	export.CreatedAt = time.Now().UTC()
	stored := *export
	r.exports[export.ID] = &stored
	return export.ID, nil
}

func (r *ReportExportRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ReportExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *e
	return &found, nil
}

func (r *ReportExportRepo) GetByProgramID(_ context.Context, programID primitive.ObjectID) ([]domain.ReportExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exports := []domain.ReportExport{}
	for _, e := range r.exports {
		if e.ProgramID == programID {
			exports = append(exports, *e)
		}
	}
	sort.Slice(exports, func(i, j int) bool { return exports[i].CreatedAt.After(exports[j].CreatedAt) })
	return exports, nil
}

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.ProgramRepository      = (*ProgramRepo)(nil)
	_ repository.WorkoutRepository      = (*WorkoutRepo)(nil)
	_ repository.SessionRepository      = (*SessionRepo)(nil)
	_ repository.ReportExportRepository = (*ReportExportRepo)(nil)
)
