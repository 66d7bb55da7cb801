// internal/schedule/types.go
package schedule

import "time"

// SessionStatus mirrors the lifecycle of a recorded workout session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// DayStatus is the classification of a single calendar day.
type DayStatus string

const (
	StatusDone         DayStatus = "done"
	StatusMissed       DayStatus = "missed"
	StatusScheduled    DayStatus = "scheduled"
	StatusRest         DayStatus = "rest"
	StatusOutOfProgram DayStatus = "out_of_program"
)

// ScheduledWorkoutRef is a workout that recurs on a set of weekdays.
// ScheduledDays uses time.Weekday numbering: 0 = Sunday ... 6 = Saturday.
type ScheduledWorkoutRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ScheduledDays []int  `json:"scheduledDays"`
}

// SessionRef is one performance record of a workout.
type SessionRef struct {
	ID                string        `json:"id"`
	AssignedWorkoutID string        `json:"assignedWorkoutId"`
	StartedAt         time.Time     `json:"startedAt"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
	Status            SessionStatus `json:"status"`
}

func (s SessionRef) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// ProgramWindow bounds a program in time. A nil DurationWeeks means the
// program is open-ended once started.
type ProgramWindow struct {
	StartedAt     time.Time `json:"startedAt"`
	DurationWeeks *int      `json:"durationWeeks,omitempty"`
}

// CalendarDay is the projected state of one date.
type CalendarDay struct {
	Date              time.Time             `json:"date"`
	DateKey           string                `json:"dateKey"`
	DayOfWeek         int                   `json:"dayOfWeek"`
	IsToday           bool                  `json:"isToday"`
	IsInProgram       bool                  `json:"isInProgram"`
	ProgramWeek       *int                  `json:"programWeek"`
	ScheduledWorkouts []ScheduledWorkoutRef `json:"scheduledWorkouts"`
	CompletedSessions []SessionRef          `json:"completedSessions"`
	Status            DayStatus             `json:"status"`
}

// HasScheduledWorkout reports whether the day carries a training obligation.
func (d CalendarDay) HasScheduledWorkout() bool {
	return len(d.ScheduledWorkouts) > 0
}
