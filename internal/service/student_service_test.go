package service

import (
	"alcyxob/kinevo/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestStudentService(f *fixture) (*studentService, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	svc := NewStudentService(f.programs, f.workouts, f.sessions, inv, f.metrics).(*studentService)
	return svc, inv
}

func TestStudentService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, inv := newTestStudentService(f)
	program, workouts := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1, 3, 5})

	started := time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC)
	svc.now = fixedClock(started)
	session, err := svc.StartSession(ctx, f.student.ID, program.ID, workouts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, session.Status)
	assert.Equal(t, started, session.StartedAt)

	svc.now = fixedClock(started.Add(50 * time.Minute))
	rpe := 8
	done, err := svc.CompleteSession(ctx, f.student.ID, session.ID, &rpe, " felt strong ")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, "felt strong", done.Notes)

	// completing twice keeps the first completion
	svc.now = fixedClock(started.Add(3 * time.Hour))
	again, err := svc.CompleteSession(ctx, f.student.ID, session.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, *done.CompletedAt, *again.CompletedAt)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterSessionsClosed))

	sessions, err := svc.ListSessions(ctx, f.student.ID, program.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)

	assert.Equal(t, []string{program.ID.Hex(), program.ID.Hex()}, inv.ids)
}

func TestStudentService_StartSession_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, _ := newTestStudentService(f)
	program, _ := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1})
	other, otherWorkouts := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), nil, []int{2})

	_, err := svc.StartSession(ctx, f.student.ID, program.ID, otherWorkouts[0].ID)
	assert.ErrorIs(t, err, ErrWorkoutNotInProgram)

	_, err = svc.StartSession(ctx, primitive.NewObjectID(), other.ID, otherWorkouts[0].ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	_, err = svc.StartSession(ctx, f.student.ID, program.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	other.Status = domain.ProgramCompleted
	require.NoError(t, f.programs.Update(ctx, other))
	_, err = svc.StartSession(ctx, f.student.ID, other.ID, otherWorkouts[0].ID)
	assert.ErrorIs(t, err, ErrProgramNotActive)
}

func TestStudentService_CompleteSession_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, _ := newTestStudentService(f)
	program, workouts := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1})
	session, err := svc.StartSession(ctx, f.student.ID, program.ID, workouts[0].ID)
	require.NoError(t, err)

	bad := 11
	_, err = svc.CompleteSession(ctx, f.student.ID, session.ID, &bad, "")
	assert.ErrorIs(t, err, ErrInvalidRPE)

	_, err = svc.CompleteSession(ctx, primitive.NewObjectID(), session.ID, nil, "")
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	_, err = svc.CompleteSession(ctx, f.student.ID, primitive.NewObjectID(), nil, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStudentService_DraftsAreHidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, _ := newTestStudentService(f)
	f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1})
	draft := &domain.Program{CoachID: f.coach.ID, StudentID: f.student.ID, Name: "Next block", Status: domain.ProgramDraft}
	_, err := f.programs.Create(ctx, draft)
	require.NoError(t, err)

	programs, err := svc.GetMyPrograms(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, domain.ProgramActive, programs[0].Status)

	_, err = svc.GetMyProgramWorkouts(ctx, f.student.ID, draft.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)
}

func TestStudentService_ListSessions_InvalidInterval(t *testing.T) {
	f := newFixture(t)
	svc, _ := newTestStudentService(f)
	program, _ := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1})

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	_, err := svc.ListSessions(context.Background(), f.student.ID, program.ID, day, day)
	assert.ErrorIs(t, err, ErrInvalidSessionInterval)
}
