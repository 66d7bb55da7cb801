package service

import (
	"alcyxob/kinevo/internal/cache"
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingInvalidator struct {
	ids []string
}

func (r *recordingInvalidator) Invalidate(programID string) {
	r.ids = append(r.ids, programID)
}

type fixture struct {
	users    *memory.UserRepo
	programs *memory.ProgramRepo
	workouts *memory.WorkoutRepo
	sessions *memory.SessionRepo
	reports  *memory.ReportExportRepo
	progress *cache.ProgressCache
	metrics  *metrics.Manager

	coach   *domain.User
	student *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		users:    memory.NewUserRepo(),
		programs: memory.NewProgramRepo(),
		workouts: memory.NewWorkoutRepo(),
		sessions: memory.NewSessionRepo(),
		reports:  memory.NewReportExportRepo(),
		progress: cache.NewProgressCache(1, time.Minute),
		metrics:  metrics.NewTestManager(),
	}

	f.coach = &domain.User{Name: "Coach", Email: "coach@example.com", Role: domain.RoleCoach}
	_, err := f.users.Create(ctx, f.coach)
	require.NoError(t, err)
	f.student = &domain.User{Name: "Student", Email: "student@example.com", Role: domain.RoleStudent}
	_, err = f.users.Create(ctx, f.student)
	require.NoError(t, err)

	require.NoError(t, f.users.AddStudentIDToCoach(ctx, f.coach.ID, f.student.ID))
	require.NoError(t, f.users.SetCoachForStudent(ctx, f.student.ID, f.coach.ID))
	return f
}

func weeks(n int) *int {
	return &n
}

// activeProgram stores an active program starting at startedAt with one
// workout per entry of schedules.
func (f *fixture) activeProgram(t *testing.T, startedAt time.Time, duration *int, schedules ...[]int) (*domain.Program, []domain.Workout) {
	t.Helper()
	ctx := context.Background()

	program := &domain.Program{
		CoachID:       f.coach.ID,
		StudentID:     f.student.ID,
		Name:          "Base Building",
		StartedAt:     &startedAt,
		DurationWeeks: duration,
		Status:        domain.ProgramActive,
	}
	_, err := f.programs.Create(ctx, program)
	require.NoError(t, err)

	var workouts []domain.Workout
	for i, days := range schedules {
		w := domain.Workout{
			ProgramID:     program.ID,
			CoachID:       f.coach.ID,
			StudentID:     f.student.ID,
			Name:          "Workout " + string(rune('A'+i)),
			ScheduledDays: days,
			Sequence:      i + 1,
		}
		_, err := f.workouts.Create(ctx, &w)
		require.NoError(t, err)
		workouts = append(workouts, w)
	}
	return program, workouts
}

func (f *fixture) completedSession(t *testing.T, program *domain.Program, workoutID primitive.ObjectID, startedAt time.Time) {
	t.Helper()
	completedAt := startedAt.Add(time.Hour)
	_, err := f.sessions.Create(context.Background(), &domain.Session{
		ProgramID:         program.ID,
		StudentID:         program.StudentID,
		AssignedWorkoutID: workoutID,
		StartedAt:         startedAt,
		CompletedAt:       &completedAt,
		Status:            domain.SessionCompleted,
	})
	require.NoError(t, err)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var utcSettings = CalendarSettings{Location: time.UTC, Match: ParseMatchMode("any")}
