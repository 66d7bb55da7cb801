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

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidAnchor = errors.New("anchor must be a date in YYYY-MM-DD format")

// ProgressStore memoizes Progress per program and day.
type ProgressStore interface {
	ProgressInvalidator
	Get(programID, dayKey string, dst any) bool
	Set(programID, dayKey string, value any)
}

// CalendarPage is a contiguous run of projected days.
type CalendarPage struct {
	Start string                 `json:"start"`
	End   string                 `json:"end"`
	Days  []schedule.CalendarDay `json:"days"`
}

// WeekStrip is the anchor's week together with its neighbours, for a
// swipeable week view.
type WeekStrip struct {
	Anchor   string       `json:"anchor"`
	Today    string       `json:"today"`
	Previous CalendarPage `json:"previous"`
	Current  CalendarPage `json:"current"`
	Next     CalendarPage `json:"next"`
}

// MonthGrid is a month padded to whole Sunday-to-Saturday weeks.
type MonthGrid struct {
	Month         string       `json:"month"`
	Today         string       `json:"today"`
	PreviousMonth string       `json:"previousMonth"`
	NextMonth     string       `json:"nextMonth"`
	Grid          CalendarPage `json:"grid"`
}

type CalendarService interface {
	WeekStrip(ctx context.Context, viewerID, programID primitive.ObjectID, anchorKey string) (*WeekStrip, error)
	MonthGrid(ctx context.Context, viewerID, programID primitive.ObjectID, anchorKey string) (*MonthGrid, error)
	Progress(ctx context.Context, viewerID, programID primitive.ObjectID) (*Progress, error)
}

// calendarService implements the CalendarService interface.
type calendarService struct {
	programRepo repository.ProgramRepository
	projector   *projector
	store       ProgressStore
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	store ProgressStore,
	settings CalendarSettings,
	metricsManager *metrics.Manager,
) CalendarService {
	return newCalendarService(programRepo, workoutRepo, sessionRepo, store, settings, metricsManager)
}

func newCalendarService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	store ProgressStore,
	settings CalendarSettings,
	metricsManager *metrics.Manager,
) *calendarService {
	return &calendarService{
		programRepo: programRepo,
		projector:   newProjector(workoutRepo, sessionRepo, settings, metricsManager),
		store:       store,
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// WeekStrip projects the weeks before, containing and after the anchor day.
// An empty anchorKey means today.
func (s *calendarService) WeekStrip(ctx context.Context, viewerID, programID primitive.ObjectID, anchorKey string) (*WeekStrip, error) {
	program, err := s.visibleProgram(ctx, viewerID, programID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	anchor, err := s.anchor(anchorKey, now)
	if err != nil {
		return nil, err
	}

	strip := schedule.DateRange{
		Start: schedule.WeekRange(schedule.ShiftWeek(anchor, -1)).Start,
		End:   schedule.WeekRange(schedule.ShiftWeek(anchor, 1)).End,
	}
	days, err := s.projector.days(ctx, program, strip, now)
	if err != nil {
		return nil, err
	}
	if len(days) != 21 {
		return nil, fmt.Errorf("week strip projected %d days", len(days))
	}

	return &WeekStrip{
		Anchor:   schedule.ToDateKey(anchor),
		Today:    schedule.ToDateKey(s.projector.today(now)),
		Previous: page(days[0:7]),
		Current:  page(days[7:14]),
		Next:     page(days[14:21]),
	}, nil
}

// MonthGrid projects the padded grid of the anchor's month.
func (s *calendarService) MonthGrid(ctx context.Context, viewerID, programID primitive.ObjectID, anchorKey string) (*MonthGrid, error) {
	program, err := s.visibleProgram(ctx, viewerID, programID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	anchor, err := s.anchor(anchorKey, now)
	if err != nil {
		return nil, err
	}

	days, err := s.projector.days(ctx, program, schedule.MonthGridRange(anchor), now)
	if err != nil {
		return nil, err
	}

	return &MonthGrid{
		Month:         anchor.Format("2006-01"),
		Today:         schedule.ToDateKey(s.projector.today(now)),
		PreviousMonth: schedule.ToDateKey(schedule.MonthRange(schedule.ShiftMonth(anchor, -1)).Start),
		NextMonth:     schedule.ToDateKey(schedule.MonthRange(schedule.ShiftMonth(anchor, 1)).Start),
		Grid:          page(days),
	}, nil
}

// Progress returns streaks and adherence as of today, memoized per day.
func (s *calendarService) Progress(ctx context.Context, viewerID, programID primitive.ObjectID) (*Progress, error) {
	program, err := s.visibleProgram(ctx, viewerID, programID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dayKey := schedule.ToDateKey(s.projector.today(now))

	var cached Progress
	if s.store.Get(program.ID.Hex(), dayKey, &cached) {
		s.metrics.CounterCacheHits.Inc()
		return &cached, nil
	}
	s.metrics.CounterCacheMisses.Inc()

	progress, err := s.projector.progress(ctx, program, now)
	if err != nil {
		return nil, err
	}
	s.store.Set(program.ID.Hex(), dayKey, progress)
	return progress, nil
}

func (s *calendarService) anchor(anchorKey string, now time.Time) (time.Time, error) {
	if anchorKey == "" {
		return s.projector.today(now), nil
	}
	anchor, err := schedule.ParseDateKey(anchorKey, s.projector.settings.Location)
	if err != nil {
		return time.Time{}, ErrInvalidAnchor
	}
	return anchor, nil
}

// visibleProgram loads a program the viewer may see: its coach, or its
// student once it left draft.
func (s *calendarService) visibleProgram(ctx context.Context, viewerID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, canView(program, viewerID)
}

func canView(program *domain.Program, viewerID primitive.ObjectID) error {
	if program.CoachID == viewerID {
		return nil
	}
	if program.StudentID == viewerID && program.Status != domain.ProgramDraft {
		return nil
	}
	return ErrProgramAccessDenied
}

func page(days []schedule.CalendarDay) CalendarPage {
	p := CalendarPage{Days: days}
	if len(days) > 0 {
		p.Start = days[0].DateKey
		p.End = days[len(days)-1].DateKey
	}
	return p
}
