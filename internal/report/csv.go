package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"alcyxob/kinevo/internal/schedule"
)

var csvHeader = []string{"Date", "Weekday", "Program Week", "Status", "Scheduled Workouts", "Completed Sessions"}

// ToCSV writes one row per projected day.
func ToCSV(w io.Writer, days []schedule.CalendarDay) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, d := range days {
		week := ""
		if d.ProgramWeek != nil {
			week = strconv.Itoa(*d.ProgramWeek)
		}
		names := make([]string, 0, len(d.ScheduledWorkouts))
		for _, wo := range d.ScheduledWorkouts {
			names = append(names, wo.Name)
		}

		row := []string{
			d.DateKey,
			d.Date.Weekday().String(),
			week,
			string(d.Status),
			strings.Join(names, "; "),
			strconv.Itoa(len(d.CompletedSessions)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", d.DateKey, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
