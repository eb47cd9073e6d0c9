package journal

import (
	"time"

	"github.com/minigarde/portal/api"
)

type DayStatus string

const (
	StatusEmpty   DayStatus = "empty"
	StatusSaved   DayStatus = "saved"
	StatusUnsaved DayStatus = "unsaved"
	StatusAbsent  DayStatus = "absent"
)

type DayView struct {
	Date     time.Time
	Entry    api.JournalEntryTransport
	Status   DayStatus
	IsToday  bool
	HasDraft bool
}

// Reconcile merges the server's entries for a week with the local drafts.
// For each of the 5 dates a draft wins outright, then the server's matching
// entry, then an all-empty entry. The absent badge wins over saved/unsaved.
func Reconcile(childId string, weekStart time.Time, server []api.JournalEntryTransport, drafts map[string]Draft, today time.Time) [5]DayView {
	byDate := make(map[string]api.JournalEntryTransport, len(server))
	for _, entry := range server {
		byDate[entry.Date] = entry
	}

	var days [5]DayView
	for i, date := range WeekDates(weekStart) {
		key := date.Format(DateLayout)
		day := DayView{Date: date, IsToday: sameDate(date, today)}

		if draft, ok := drafts[key]; ok {
			day.Entry = draft.toEntry(childId, key)
			day.HasDraft = true
			day.Status = StatusUnsaved
		} else if entry, ok := byDate[key]; ok {
			day.Entry = entry
			day.Status = StatusSaved
		} else {
			day.Entry = emptyEntry(childId, key)
			day.Status = StatusEmpty
		}

		if day.Entry.Absent {
			day.Status = StatusAbsent
		}
		days[i] = day
	}
	return days
}
