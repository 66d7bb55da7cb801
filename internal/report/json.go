package report

import (
	"encoding/json"
	"fmt"
	"io"

	"alcyxob/kinevo/internal/schedule"
)

// Summary is the aggregate block written at the top of a JSON report.
type Summary struct {
	ProgramID     string                   `json:"program_id"`
	ProgramName   string                   `json:"program_name"`
	AsOf          string                   `json:"as_of"`
	CurrentStreak int                      `json:"current_streak"`
	LongestStreak int                      `json:"longest_streak"`
	AdherenceRate int                      `json:"adherence_rate"`
	Weekly        []schedule.WeekAdherence `json:"weekly"`
}

type jsonReport struct {
	Summary
	Count int       `json:"count"`
	Days  []jsonDay `json:"days"`
}

type jsonDay struct {
	Date              string   `json:"date"`
	Weekday           string   `json:"weekday"`
	ProgramWeek       *int     `json:"program_week,omitempty"`
	Status            string   `json:"status"`
	ScheduledWorkouts []string `json:"scheduled_workouts,omitempty"`
	CompletedSessions []string `json:"completed_sessions,omitempty"`
}

// ToJSON writes the summary followed by every projected day.
func ToJSON(w io.Writer, summary Summary, days []schedule.CalendarDay) error {
	out := jsonReport{
		Summary: summary,
		Count:   len(days),
		Days:    make([]jsonDay, 0, len(days)),
	}

	for _, d := range days {
		jd := jsonDay{
			Date:        d.DateKey,
			Weekday:     d.Date.Weekday().String(),
			ProgramWeek: d.ProgramWeek,
			Status:      string(d.Status),
		}
		for _, wo := range d.ScheduledWorkouts {
			jd.ScheduledWorkouts = append(jd.ScheduledWorkouts, wo.Name)
		}
		for _, s := range d.CompletedSessions {
			jd.CompletedSessions = append(jd.CompletedSessions, s.ID)
		}
		out.Days = append(out.Days, jd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
