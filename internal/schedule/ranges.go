package schedule

import "time"

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days covered, or 0 for an inverted range.
func (r DateRange) Days() int {
	n := DaysBetween(r.Start, r.End) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Contains reports whether t's calendar day falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	t = t.In(r.Start.Location())
	return DaysBetween(r.Start, t) >= 0 && DaysBetween(t, r.End) >= 0
}

// WeekRange returns Sunday 00:00:00 through Saturday 23:59:59 of anchor's week.
func WeekRange(anchor time.Time) DateRange {
	start := AddDays(anchor, -int(anchor.Weekday()))
	return DateRange{
		Start: start,
		End:   EndOfDay(AddDays(start, 6)),
	}
}

// ShiftWeek moves anchor by delta weeks.
func ShiftWeek(anchor time.Time, delta int) time.Time {
	return AddDays(anchor, 7*delta)
}

// MonthRange returns the first and last calendar day of anchor's month.
func MonthRange(anchor time.Time) DateRange {
	y, m, _ := anchor.Date()
	loc := anchor.Location()
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	// day 0 of the next month is the last day of this one
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	return DateRange{Start: start, End: EndOfDay(last)}
}

// MonthGridRange widens MonthRange to whole Sunday-Saturday weeks so the
// result can be laid out as a rectangular 7-column grid.
func MonthGridRange(anchor time.Time) DateRange {
	month := MonthRange(anchor)
	start := AddDays(month.Start, -int(month.Start.Weekday()))
	end := AddDays(month.End, 6-int(month.End.Weekday()))
	return DateRange{Start: start, End: EndOfDay(end)}
}

// ShiftMonth moves anchor by delta months, keeping the day of month and
// clamping it to the target month's length (Jan 31 + 1 -> Feb 28/29).
func ShiftMonth(anchor time.Time, delta int) time.Time {
	y, m, d := anchor.Date()
	loc := anchor.Location()
	first := time.Date(y, m+time.Month(delta), 1, 0, 0, 0, 0, loc)
	if last := daysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
