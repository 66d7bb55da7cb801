package schedule

import (
	"math"
	"sort"
	"time"
)

// WeekAdherence is the completion rate of one program week.
type WeekAdherence struct {
	Week      int `json:"week"`
	Done      int `json:"done"`
	Scheduled int `json:"scheduled"`
	Rate      int `json:"rate"`
}

// ComputeStreak counts consecutive done days, walking back from the most
// recent obligation on or before today. A missed day ends the streak; rest,
// scheduled and out-of-program days carry no obligation and are skipped.
func ComputeStreak(days []CalendarDay, today time.Time) int {
	streak := 0
	for _, d := range obligations(days, today, true) {
		if d.Status != StatusDone {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of done obligations in days up to today.
func LongestStreak(days []CalendarDay, today time.Time) int {
	longest, run := 0, 0
	for _, d := range obligations(days, today, false) {
		if d.Status != StatusDone {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

// ComputeWeeklyAdherence groups in-program obligations up to today by
// program week. Weeks without any obligation are omitted rather than
// reported as 0%.
func ComputeWeeklyAdherence(days []CalendarDay, today time.Time) []WeekAdherence {
	byWeek := make(map[int]*WeekAdherence)
	for _, d := range days {
		if !d.IsInProgram || d.ProgramWeek == nil || !d.HasScheduledWorkout() || afterToday(d, today) {
			continue
		}
		wa, ok := byWeek[*d.ProgramWeek]
		if !ok {
			wa = &WeekAdherence{Week: *d.ProgramWeek}
			byWeek[*d.ProgramWeek] = wa
		}
		wa.Scheduled++
		if d.Status == StatusDone {
			wa.Done++
		}
	}

	out := make([]WeekAdherence, 0, len(byWeek))
	for _, wa := range byWeek {
		wa.Rate = percent(wa.Done, wa.Scheduled)
		out = append(out, *wa)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// ComputeAdherenceRate is the overall done/scheduled percentage up to today,
// 0 when nothing was scheduled yet.
func ComputeAdherenceRate(days []CalendarDay, today time.Time) int {
	done, scheduled := 0, 0
	for _, d := range days {
		if !d.IsInProgram || !d.HasScheduledWorkout() || afterToday(d, today) {
			continue
		}
		scheduled++
		if d.Status == StatusDone {
			done++
		}
	}
	return percent(done, scheduled)
}

// obligations returns the in-program days up to today that had a workout
// scheduled and were already evaluable (done or missed), sorted by date.
func obligations(days []CalendarDay, today time.Time, newestFirst bool) []CalendarDay {
	var out []CalendarDay
	for _, d := range days {
		if !d.IsInProgram || !d.HasScheduledWorkout() || afterToday(d, today) {
			continue
		}
		if d.Status != StatusDone && d.Status != StatusMissed {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// afterToday compares calendar days with today read in d's location.
func afterToday(d CalendarDay, today time.Time) bool {
	return DaysBetween(today.In(d.Date.Location()), d.Date) > 0
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
