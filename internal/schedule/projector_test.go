package schedule_test

import (
	"testing"
	"time"

	"alcyxob/kinevo/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program starting Monday 2024-01-01, four weeks, one workout Mon/Wed/Fri
func fourWeekProgram() schedule.ProjectionInput {
	return schedule.ProjectionInput{
		Workouts: []schedule.ScheduledWorkoutRef{
			{ID: "w1", Name: "Full Body", ScheduledDays: []int{1, 3, 5}},
		},
		Window: schedule.ProgramWindow{
			StartedAt:     time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			DurationWeeks: weeks(4),
		},
		Today: date(2024, 1, 1),
	}
}

func completed(id, workoutID string, startedAt time.Time) schedule.SessionRef {
	done := startedAt.Add(time.Hour)
	return schedule.SessionRef{
		ID:                id,
		AssignedWorkoutID: workoutID,
		StartedAt:         startedAt,
		CompletedAt:       &done,
		Status:            schedule.SessionCompleted,
	}
}

func projectOne(t *testing.T, day time.Time, in schedule.ProjectionInput) schedule.CalendarDay {
	t.Helper()
	days := schedule.GenerateCalendarDays(schedule.DateRange{Start: day, End: day}, in)
	require.Len(t, days, 1)
	return days[0]
}

func TestGenerateCalendarDays_ScheduledToday(t *testing.T) {
	day := projectOne(t, date(2024, 1, 1), fourWeekProgram())

	assert.Equal(t, schedule.StatusScheduled, day.Status)
	assert.True(t, day.IsToday)
	assert.True(t, day.IsInProgram)
	require.NotNil(t, day.ProgramWeek)
	assert.Equal(t, 1, *day.ProgramWeek)
	assert.Equal(t, "2024-01-01", day.DateKey)
	assert.Equal(t, 1, day.DayOfWeek)
	require.Len(t, day.ScheduledWorkouts, 1)
	assert.Equal(t, "w1", day.ScheduledWorkouts[0].ID)
}

func TestGenerateCalendarDays_OutOfProgramAfterLastWeek(t *testing.T) {
	day := projectOne(t, date(2024, 1, 29), fourWeekProgram())

	assert.Equal(t, schedule.StatusOutOfProgram, day.Status)
	assert.False(t, day.IsInProgram)
	assert.Nil(t, day.ProgramWeek)
	assert.Empty(t, day.ScheduledWorkouts)
}

func TestGenerateCalendarDays_OutOfProgramBeforeStart(t *testing.T) {
	in := fourWeekProgram()
	in.Sessions = []schedule.SessionRef{completed("s0", "w1", time.Date(2023, 12, 29, 10, 0, 0, 0, time.UTC))}

	day := projectOne(t, date(2023, 12, 29), in)
	assert.Equal(t, schedule.StatusOutOfProgram, day.Status)
	assert.Empty(t, day.CompletedSessions)
}

func TestGenerateCalendarDays_Done(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 8)
	in.Sessions = []schedule.SessionRef{completed("s1", "w1", time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))}

	day := projectOne(t, date(2024, 1, 3), in)
	assert.Equal(t, schedule.StatusDone, day.Status)
	require.Len(t, day.CompletedSessions, 1)
	assert.Equal(t, "s1", day.CompletedSessions[0].ID)
}

func TestGenerateCalendarDays_Missed(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 8)

	day := projectOne(t, date(2024, 1, 5), in)
	assert.Equal(t, schedule.StatusMissed, day.Status)
	assert.False(t, day.IsToday)
}

func TestGenerateCalendarDays_InProgressSessionDoesNotCount(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 8)
	in.Sessions = []schedule.SessionRef{{
		ID:                "s1",
		AssignedWorkoutID: "w1",
		StartedAt:         time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC),
		Status:            schedule.SessionInProgress,
	}}

	day := projectOne(t, date(2024, 1, 5), in)
	assert.Equal(t, schedule.StatusMissed, day.Status)
}

func TestGenerateCalendarDays_Rest(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 8)
	in.Sessions = []schedule.SessionRef{completed("s1", "w1", time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC))}

	day := projectOne(t, date(2024, 1, 2), in)
	assert.Equal(t, schedule.StatusRest, day.Status)
	assert.Empty(t, day.ScheduledWorkouts)
}

func TestGenerateCalendarDays_FutureIsScheduled(t *testing.T) {
	day := projectOne(t, date(2024, 1, 26), fourWeekProgram())
	assert.Equal(t, schedule.StatusScheduled, day.Status)
	assert.Equal(t, 4, *day.ProgramWeek)
}

func TestGenerateCalendarDays_RestartedWorkoutSameDay(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 8)
	in.Sessions = []schedule.SessionRef{
		{ID: "s1", AssignedWorkoutID: "w1", StartedAt: time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC), Status: schedule.SessionInProgress},
		completed("s2", "w1", time.Date(2024, 1, 3, 19, 0, 0, 0, time.UTC)),
	}

	day := projectOne(t, date(2024, 1, 3), in)
	assert.Equal(t, schedule.StatusDone, day.Status)
	require.Len(t, day.CompletedSessions, 1)
	assert.Equal(t, "s2", day.CompletedSessions[0].ID)
}

func TestGenerateCalendarDays_MatchMode(t *testing.T) {
	in := fourWeekProgram()
	in.Workouts = append(in.Workouts, schedule.ScheduledWorkoutRef{ID: "w2", Name: "Mobility", ScheduledDays: []int{2}})
	in.Today = date(2024, 1, 8)
	// the Tuesday workout was done on Wednesday instead
	in.Sessions = []schedule.SessionRef{completed("s1", "w2", time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC))}

	anyDay := projectOne(t, date(2024, 1, 3), in)
	assert.Equal(t, schedule.StatusDone, anyDay.Status)

	in.Match = schedule.MatchAssignedWorkout
	strictDay := projectOne(t, date(2024, 1, 3), in)
	assert.Equal(t, schedule.StatusMissed, strictDay.Status)
	assert.Empty(t, strictDay.CompletedSessions)
}

func TestGenerateCalendarDays_InvalidWeekdaysIgnored(t *testing.T) {
	in := fourWeekProgram()
	in.Workouts = []schedule.ScheduledWorkoutRef{{ID: "w1", Name: "Odd", ScheduledDays: []int{-1, 7, 3, 42}}}

	days := schedule.GenerateCalendarDays(schedule.WeekRange(date(2024, 1, 3)), in)
	require.Len(t, days, 7)
	for _, d := range days {
		if d.DayOfWeek == 3 {
			assert.True(t, d.HasScheduledWorkout())
			continue
		}
		assert.False(t, d.HasScheduledWorkout(), d.DateKey)
	}
}

func TestGenerateCalendarDays_InvertedRange(t *testing.T) {
	days := schedule.GenerateCalendarDays(schedule.DateRange{Start: date(2024, 1, 10), End: date(2024, 1, 1)}, fourWeekProgram())
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestGenerateCalendarDays_Totality(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 17)
	in.Sessions = []schedule.SessionRef{
		completed("s1", "w1", time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)),
		completed("s2", "w1", time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)),
		completed("s3", "w1", time.Date(2024, 1, 14, 7, 0, 0, 0, time.UTC)),
	}
	r := schedule.MonthGridRange(date(2024, 1, 1))

	days := schedule.GenerateCalendarDays(r, in)
	require.Len(t, days, r.Days())

	valid := map[schedule.DayStatus]bool{
		schedule.StatusDone: true, schedule.StatusMissed: true, schedule.StatusScheduled: true,
		schedule.StatusRest: true, schedule.StatusOutOfProgram: true,
	}
	todays := 0
	for i, d := range days {
		assert.True(t, valid[d.Status], "unexpected status %q on %s", d.Status, d.DateKey)
		assert.Equal(t, d.IsInProgram, d.ProgramWeek != nil)
		assert.Equal(t, d.IsInProgram, d.Status != schedule.StatusOutOfProgram)
		if i > 0 {
			assert.Equal(t, 1, schedule.DaysBetween(days[i-1].Date, d.Date))
		}
		if d.IsToday {
			todays++
		}
	}
	assert.Equal(t, 1, todays)
}

func TestGenerateCalendarDays_Idempotent(t *testing.T) {
	in := fourWeekProgram()
	in.Today = date(2024, 1, 10)
	in.Sessions = []schedule.SessionRef{
		completed("s2", "w1", time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC)),
		completed("s1", "w1", time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)),
	}
	r := schedule.MonthGridRange(date(2024, 1, 1))

	assert.Equal(t, schedule.GenerateCalendarDays(r, in), schedule.GenerateCalendarDays(r, in))
}

func TestGenerateCalendarDays_ReferenceTimezone(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	in := fourWeekProgram()
	in.Window.StartedAt = time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	// 01:30 UTC on Thursday is still Wednesday evening in BRT
	in.Sessions = []schedule.SessionRef{completed("s1", "w1", time.Date(2024, 1, 4, 1, 30, 0, 0, time.UTC))}
	in.Today = time.Date(2024, 1, 9, 2, 0, 0, 0, time.UTC)

	r := schedule.WeekRange(time.Date(2024, 1, 3, 0, 0, 0, 0, brt))
	days := schedule.GenerateCalendarDays(r, in)
	require.Len(t, days, 7)

	byKey := make(map[string]schedule.CalendarDay)
	for _, d := range days {
		assert.Equal(t, brt, d.Date.Location())
		byKey[d.DateKey] = d
	}
	assert.Equal(t, schedule.StatusDone, byKey["2024-01-03"].Status)
	assert.Equal(t, schedule.StatusMissed, byKey["2024-01-05"].Status)
	assert.Equal(t, schedule.StatusOutOfProgram, byKey["2023-12-31"].Status)
}

func TestGenerateCalendarDays_TodayInReferenceTimezone(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	in := fourWeekProgram()
	// 02:00 UTC on Jan 8 is still Sunday Jan 7 in BRT
	in.Today = time.Date(2024, 1, 8, 2, 0, 0, 0, time.UTC)

	day := projectOne(t, time.Date(2024, 1, 8, 0, 0, 0, 0, brt), in)
	assert.False(t, day.IsToday)
	assert.Equal(t, schedule.StatusScheduled, day.Status)
}

func TestGenerateCalendarDays_PastTheFourDigitYear(t *testing.T) {
	in := schedule.ProjectionInput{
		Workouts: []schedule.ScheduledWorkoutRef{{ID: "w1", Name: "Daily", ScheduledDays: []int{0, 1, 2, 3, 4, 5, 6}}},
		Window:   schedule.ProgramWindow{StartedAt: date(9999, 12, 1)},
		Today:    date(9999, 12, 30),
	}
	days := schedule.GenerateCalendarDays(schedule.DateRange{Start: date(9999, 12, 29), End: date(10000, 1, 2)}, in)
	require.Len(t, days, 5)

	assert.Equal(t, "10000-01-01", days[3].DateKey)
	assert.Equal(t, []schedule.DayStatus{
		schedule.StatusMissed, schedule.StatusScheduled, schedule.StatusScheduled,
		schedule.StatusScheduled, schedule.StatusScheduled,
	}, []schedule.DayStatus{days[0].Status, days[1].Status, days[2].Status, days[3].Status, days[4].Status})
	assert.True(t, days[1].IsToday)
	assert.False(t, days[3].IsToday)

	// only Dec 29 and Dec 30 are due; the year 10000 days stay ahead of today
	assert.Equal(t, 0, schedule.ComputeAdherenceRate(days, in.Today))
	assert.Equal(t, 0, schedule.ComputeStreak(days, in.Today))
	weekly := schedule.ComputeWeeklyAdherence(days, in.Today)
	require.Len(t, weekly, 1)
	assert.Equal(t, 2, weekly[0].Scheduled)
}
