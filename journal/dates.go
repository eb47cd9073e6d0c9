package journal

import "time"

const DateLayout = "2006-01-02"

// WeekStart returns the Monday of t's week at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the 5 weekdays of the week anchored at weekStart.
func WeekDates(weekStart time.Time) [5]time.Time {
	var dates [5]time.Time
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i)
	}
	return dates
}

// DefaultActiveDayIndex returns today's offset within the Monday-based
// 5-day window, or 0 when the window does not contain today.
func DefaultActiveDayIndex(weekStart, today time.Time) int {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	offset := int(day.Sub(start).Hours() / 24)
	if offset < 0 || offset > 4 {
		return 0
	}
	return offset
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
