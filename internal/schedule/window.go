package schedule

import "time"

// ProgramWeek resolves the 1-indexed program week that date belongs to.
// startedAt is read in date's location.
// It returns false when date precedes the program's first day or, for a
// bounded program, falls after its last week. A non-positive duration is
// treated as open-ended.
func ProgramWeek(date, startedAt time.Time, durationWeeks *int) (int, bool) {
	elapsed := DaysBetween(startedAt.In(date.Location()), date)
	if elapsed < 0 {
		return 0, false
	}
	week := elapsed/7 + 1
	if isBounded(durationWeeks) && week > *durationWeeks {
		return 0, false
	}
	return week, true
}

// Week is ProgramWeek for the window.
func (w ProgramWindow) Week(date time.Time) (int, bool) {
	return ProgramWeek(date, w.StartedAt, w.DurationWeeks)
}

// Contains reports whether date lies inside the program window.
func (w ProgramWindow) Contains(date time.Time) bool {
	_, ok := w.Week(date)
	return ok
}

// EndDate returns the inclusive last day of a bounded program as midnight
// in loc. startedAt is read in loc, matching Week for dates in loc.
func (w ProgramWindow) EndDate(loc *time.Location) (time.Time, bool) {
	if !isBounded(w.DurationWeeks) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = w.StartedAt.Location()
	}
	return ProgramEndDate(w.StartedAt.In(loc), *w.DurationWeeks), true
}

// WeeksRemaining counts the program weeks left after today's week. It
// returns false for open-ended programs. Before the program starts the
// full duration is returned; after it ends the result is 0.
func (w ProgramWindow) WeeksRemaining(today time.Time) (int, bool) {
	if !isBounded(w.DurationWeeks) {
		return 0, false
	}
	total := *w.DurationWeeks
	if DaysBetween(w.StartedAt.In(today.Location()), today) < 0 {
		return total, true
	}
	week, ok := w.Week(today)
	if !ok {
		return 0, true
	}
	return total - week, true
}

// ProgramEndDate returns the last calendar day of a program lasting
// durationWeeks weeks, as midnight in startedAt's location.
// startedAt is read in its own location; move it into the reference
// timezone first (as ProgramWeek does with the date's location).
func ProgramEndDate(startedAt time.Time, durationWeeks int) time.Time {
	return AddDays(startedAt, durationWeeks*7-1)
}

// IsDateInProgram reports whether date falls inside [start, start+duration).
func IsDateInProgram(date, startedAt time.Time, durationWeeks *int) bool {
	_, ok := ProgramWeek(date, startedAt, durationWeeks)
	return ok
}

// ScheduledWorkoutsForDate returns the workouts recurring on date's weekday,
// or nil when date is outside the program. Weekday entries outside 0..6 are
// ignored.
func ScheduledWorkoutsForDate(date time.Time, workouts []ScheduledWorkoutRef, window ProgramWindow) []ScheduledWorkoutRef {
	if !window.Contains(date) {
		return nil
	}
	return workoutsOnWeekday(workouts, int(date.Weekday()))
}

func workoutsOnWeekday(workouts []ScheduledWorkoutRef, weekday int) []ScheduledWorkoutRef {
	var out []ScheduledWorkoutRef
	for _, w := range workouts {
		for _, d := range w.ScheduledDays {
			if d < 0 || d > 6 {
				continue
			}
			if d == weekday {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func isBounded(durationWeeks *int) bool {
	return durationWeeks != nil && *durationWeeks > 0
}
