package core

import (
	"strings"
	"time"

	"github.com/sandevgo/gomibot/internal/calendar"
)

// NoteNone is the stored sentinel for "no note".
const NoteNone = "-"

type ScheduleEntry struct {
	UserID      string
	Day         calendar.Weekday
	GarbageType string
	Note        string
	UpdatedAt   time.Time
}

func (e ScheduleEntry) HasNote() bool {
	n := strings.TrimSpace(e.Note)
	return n != "" && n != NoteNone
}

// FindDay returns the entry for day, if present.
func FindDay(entries []ScheduleEntry, day calendar.Weekday) (ScheduleEntry, bool) {
	for _, e := range entries {
		if e.Day == day {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}
