package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/repository"
	"alcyxob/kinevo/internal/schedule"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrProgramNotStarted = errors.New("program has not been started yet")

// CalendarSettings fixes how calendars are projected for every user.
type CalendarSettings struct {
	// Location is the timezone date keys are computed in.
	Location *time.Location
	Match    schedule.MatchMode
}

// ParseMatchMode maps the calendar.match_mode setting to a MatchMode.
// Unknown values fall back to MatchAnyCompleted.
func ParseMatchMode(mode string) schedule.MatchMode {
	if mode == "assigned_workout" {
		return schedule.MatchAssignedWorkout
	}
	return schedule.MatchAnyCompleted
}

// Progress summarizes a program as of one calendar day.
type Progress struct {
	ProgramID      string                   `json:"programId"`
	AsOf           string                   `json:"asOf"`
	Status         domain.ProgramStatus     `json:"status"`
	StartDate      string                   `json:"startDate"`
	EndDate        string                   `json:"endDate,omitempty"`
	DurationWeeks  *int                     `json:"durationWeeks,omitempty"`
	CurrentWeek    *int                     `json:"currentWeek,omitempty"`
	WeeksRemaining *int                     `json:"weeksRemaining,omitempty"`
	CurrentStreak  int                      `json:"currentStreak"`
	LongestStreak  int                      `json:"longestStreak"`
	AdherenceRate  int                      `json:"adherenceRate"`
	CompletedDays  int                      `json:"completedDays"`
	ScheduledDays  int                      `json:"scheduledDays"`
	Weekly         []schedule.WeekAdherence `json:"weekly"`
}

// projector loads a program's workouts and sessions and runs them through
// the schedule engine.
type projector struct {
	workoutRepo repository.WorkoutRepository
	sessionRepo repository.SessionRepository
	settings    CalendarSettings
	metrics     *metrics.Manager
}

func newProjector(workoutRepo repository.WorkoutRepository, sessionRepo repository.SessionRepository, settings CalendarSettings, metricsManager *metrics.Manager) *projector {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &projector{
		workoutRepo: workoutRepo,
		sessionRepo: sessionRepo,
		settings:    settings,
		metrics:     metricsManager,
	}
}

// today returns now as a day in the configured timezone.
func (p *projector) today(now time.Time) time.Time {
	return schedule.StartOfDay(now.In(p.settings.Location))
}

// days projects r for program. r must already be in the configured location.
func (p *projector) days(ctx context.Context, program *domain.Program, r schedule.DateRange, now time.Time) ([]schedule.CalendarDay, error) {
	if !program.HasStarted() {
		return nil, ErrProgramNotStarted
	}
	if r.Days() == 0 {
		return []schedule.CalendarDay{}, nil
	}

	workouts, err := p.workoutRepo.GetByProgramID(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}
	from := schedule.StartOfDay(r.Start)
	to := schedule.AddDays(schedule.StartOfDay(r.End), 1)
	sessions, err := p.sessionRepo.GetByProgramInRange(ctx, program.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	days := schedule.GenerateCalendarDays(r, schedule.ProjectionInput{
		Workouts: domain.WorkoutRefs(workouts),
		Sessions: domain.SessionRefs(sessions),
		Window:   program.Window(),
		Today:    now,
		Match:    p.settings.Match,
	})

	counts := make(map[schedule.DayStatus]int)
	for _, d := range days {
		counts[d.Status]++
	}
	for status, n := range counts {
		p.metrics.CounterProjectedDays.WithLabelValues(string(status)).Add(float64(n))
	}
	log.Tracef("projected %d days for program %s", len(days), program.ID.Hex())
	return days, nil
}

// history projects every day from the program start up to today, or up to
// the last program day if it already ended.
func (p *projector) history(ctx context.Context, program *domain.Program, now time.Time) ([]schedule.CalendarDay, error) {
	if !program.HasStarted() {
		return nil, ErrProgramNotStarted
	}
	loc := p.settings.Location
	today := p.today(now)
	window := program.Window()
	start := schedule.StartOfDay(window.StartedAt.In(loc))

	last := today
	if end, ok := window.EndDate(loc); ok {
		if end.Before(last) {
			last = end
		}
	}
	if last.Before(start) {
		return []schedule.CalendarDay{}, nil
	}
	return p.days(ctx, program, schedule.DateRange{Start: start, End: schedule.EndOfDay(last)}, now)
}

// progress aggregates history into a Progress.
func (p *projector) progress(ctx context.Context, program *domain.Program, now time.Time) (*Progress, error) {
	days, err := p.history(ctx, program, now)
	if err != nil {
		return nil, err
	}

	today := p.today(now)
	window := program.Window()
	result := &Progress{
		ProgramID:     program.ID.Hex(),
		AsOf:          schedule.ToDateKey(today),
		Status:        program.Status,
		StartDate:     schedule.ToDateKey(window.StartedAt.In(p.settings.Location)),
		DurationWeeks: program.DurationWeeks,
		CurrentStreak: schedule.ComputeStreak(days, today),
		LongestStreak: schedule.LongestStreak(days, today),
		AdherenceRate: schedule.ComputeAdherenceRate(days, today),
		Weekly:        schedule.ComputeWeeklyAdherence(days, today),
	}
	if end, ok := window.EndDate(p.settings.Location); ok {
		result.EndDate = schedule.ToDateKey(end)
	}
	if week, ok := schedule.ProgramWeek(today, window.StartedAt, window.DurationWeeks); ok {
		result.CurrentWeek = &week
	}
	if left, ok := window.WeeksRemaining(today); ok {
		result.WeeksRemaining = &left
	}
	for _, wa := range result.Weekly {
		result.CompletedDays += wa.Done
		result.ScheduledDays += wa.Scheduled
	}
	return result, nil
}
