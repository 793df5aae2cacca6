package domain

import (
	"fmt"
	"time"
)

// LogStamp identifies one version of the log file on disk
type LogStamp struct {
	Size  int64 // bytes
	Mtime int64 // Unix nanoseconds
}

// FileTotal is the total growth recorded for one file
type FileTotal struct {
	FileName   string
	CharsAdded int
	Records    int
}

// HourTotal is the total growth recorded in one weekday/hour slot.
// Weekday runs from 1 (Monday) to 7 (Sunday), Hour from 0 to 23, both UTC.
type HourTotal struct {
	Weekday    int
	Hour       int
	CharsAdded int
}

// SyncStats holds statistics from an index sync
type SyncStats struct {
	Records  int
	Skipped  int // records whose timestamp could not be parsed
	Duration time.Duration
}

// ISOWeekday converts t's weekday to 1 (Monday) .. 7 (Sunday)
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayName returns the short English name of an ISO weekday
func WeekdayName(weekday int) string {
	if weekday < 1 || weekday > 7 {
		return "?"
	}
	return weekdayNames[weekday-1]
}

// Slot renders the weekday/hour slot as "Mon 09:00"
func (h HourTotal) Slot() string {
	return fmt.Sprintf("%s %02d:00", WeekdayName(h.Weekday), h.Hour)
}
