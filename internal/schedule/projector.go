package schedule

import "time"

// MatchMode decides which completed sessions turn a scheduled day into done.
type MatchMode int

const (
	// MatchAnyCompleted counts any completed session on the day.
	MatchAnyCompleted MatchMode = iota
	// MatchAssignedWorkout only counts sessions whose AssignedWorkoutID is
	// one of the workouts scheduled that day.
	MatchAssignedWorkout
)

// ProjectionInput carries everything the projector needs besides the range.
// Today is explicit so identical inputs always yield identical output.
type ProjectionInput struct {
	Workouts []ScheduledWorkoutRef
	Sessions []SessionRef
	Window   ProgramWindow
	Today    time.Time
	Match    MatchMode
}

// GenerateCalendarDays classifies every calendar day in r, in order.
//
// All dates are interpreted in the location of r.Start: Today, the program
// start and every session's StartedAt are moved into it before keying. An
// inverted range yields an empty slice. Sessions outside r are ignored, and
// days the caller supplied no sessions for classify as if none happened.
func GenerateCalendarDays(r DateRange, in ProjectionInput) []CalendarDay {
	loc := r.Start.Location()
	start := StartOfDay(r.Start)
	end := StartOfDay(r.End.In(loc))
	total := DaysBetween(start, end) + 1
	if total <= 0 {
		return []CalendarDay{}
	}

	today := StartOfDay(in.Today.In(loc))
	window := ProgramWindow{
		StartedAt:     in.Window.StartedAt.In(loc),
		DurationWeeks: in.Window.DurationWeeks,
	}
	byDay := sessionsByDay(in.Sessions, loc)

	days := make([]CalendarDay, 0, total)
	for i := 0; i < total; i++ {
		date := AddDays(start, i)
		days = append(days, projectDay(date, today, window, in, byDay))
	}
	return days
}

func projectDay(date, today time.Time, window ProgramWindow, in ProjectionInput, byDay map[string][]SessionRef) CalendarDay {
	key := ToDateKey(date)
	day := CalendarDay{
		Date:              date,
		DateKey:           key,
		DayOfWeek:         int(date.Weekday()),
		IsToday:           DaysBetween(today, date) == 0,
		ScheduledWorkouts: []ScheduledWorkoutRef{},
		CompletedSessions: []SessionRef{},
	}

	week, ok := window.Week(date)
	if !ok {
		day.Status = StatusOutOfProgram
		return day
	}
	day.IsInProgram = true
	day.ProgramWeek = &week

	if scheduled := workoutsOnWeekday(in.Workouts, day.DayOfWeek); scheduled != nil {
		day.ScheduledWorkouts = scheduled
	}
	for _, s := range byDay[key] {
		if s.IsCompleted() && countsToward(s, day.ScheduledWorkouts, in.Match) {
			day.CompletedSessions = append(day.CompletedSessions, s)
		}
	}

	day.Status = classify(day, today)
	return day
}

// classify is total over in-program days; every combination of schedule,
// completion and past/today/future lands in exactly one status.
func classify(day CalendarDay, today time.Time) DayStatus {
	switch {
	case !day.HasScheduledWorkout():
		return StatusRest
	case len(day.CompletedSessions) > 0:
		return StatusDone
	case DaysBetween(day.Date, today) > 0:
		return StatusMissed
	default:
		return StatusScheduled
	}
}

func countsToward(s SessionRef, scheduled []ScheduledWorkoutRef, mode MatchMode) bool {
	if mode != MatchAssignedWorkout {
		return true
	}
	for _, w := range scheduled {
		if w.ID == s.AssignedWorkoutID {
			return true
		}
	}
	return false
}

func sessionsByDay(sessions []SessionRef, loc *time.Location) map[string][]SessionRef {
	byDay := make(map[string][]SessionRef, len(sessions))
	for _, s := range sessions {
		key := ToDateKey(s.StartedAt.In(loc))
		byDay[key] = append(byDay[key], s)
	}
	return byDay
}
