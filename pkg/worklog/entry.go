// Package worklog builds a week of work log entries from branch selections.
package worklog

import (
	"slices"
	"time"
)

// HoursPerDay is the length of a logged work day.
const HoursPerDay uint8 = 8

// DateLayout is the day format used for input and export.
const DateLayout = "2006-01-02"

// Weekdays lists the days of a week starting on Monday.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Entry is a number of hours logged against a ticket on one day.
type Entry struct {
	Ticket string
	Tag    *string // nil for untagged work
	Hours  uint8
	Date   time.Time
}

// Record is the exported form of an Entry.
type Record struct {
	Ticket string  `json:"ticket" yaml:"ticket"`
	Tag    *string `json:"tag" yaml:"tag"`
	Hours  uint8   `json:"hours" yaml:"hours"`
	Date   string  `json:"date" yaml:"date"`
}

// Record converts e for export.
func (e Entry) Record() Record {
	return Record{
		Ticket: e.Ticket,
		Tag:    e.Tag,
		Hours:  e.Hours,
		Date:   e.Date.Format(DateLayout),
	}
}

// TagString returns the tag or "" when the entry is untagged.
func (e Entry) TagString() string {
	if e.Tag == nil {
		return ""
	}
	return *e.Tag
}

// DayOffset returns how many days d comes after Monday.
func DayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -DayOffset(day.Weekday()))
}

// DateOn returns the date of weekday d in the week starting at weekStart.
func DateOn(weekStart time.Time, d time.Weekday) time.Time {
	return weekStart.AddDate(0, 0, DayOffset(d))
}

// RemoveDays drops every entry that falls on one of days.
func RemoveDays(entries []Entry, days []time.Weekday) []Entry {
	return slices.DeleteFunc(entries, func(e Entry) bool {
		return slices.Contains(days, e.Date.Weekday())
	})
}

// SortForDisplay returns a copy of entries ordered by weekday (Monday first)
// and by hours, largest first, within a day.
func SortForDisplay(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if da, db := DayOffset(a.Date.Weekday()), DayOffset(b.Date.Weekday()); da != db {
			return da - db
		}
		return int(b.Hours) - int(a.Hours)
	})
	return sorted
}
