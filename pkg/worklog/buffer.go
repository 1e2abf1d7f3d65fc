package worklog

import (
	"fmt"
	"time"

	flogerrors "github.com/gbujak/flog/pkg/errors"
)

type bufferedItem struct {
	ticket string
	tag    *string
}

// Buffer spreads each day's hours evenly over everything logged on that day.
//
// A day that has no untagged item reserves untaggedPerDay hours for the
// untagged ticket; the rest of the day is handed out one hour at a time,
// round-robin, in logging order.
type Buffer struct {
	days           map[time.Weekday][]bufferedItem
	untaggedTicket string
	untaggedPerDay uint8
}

// NewBuffer creates a Buffer. untaggedPerDay may not exceed HoursPerDay.
func NewBuffer(untaggedTicket string, untaggedPerDay uint8) (*Buffer, error) {
	if untaggedPerDay > HoursPerDay {
		return nil, flogerrors.NewLogError("hours", fmt.Sprintf("more than %d hours of untagged time per day", HoursPerDay))
	}
	return &Buffer{
		days:           make(map[time.Weekday][]bufferedItem),
		untaggedTicket: untaggedTicket,
		untaggedPerDay: untaggedPerDay,
	}, nil
}

// LogOnDay records work on ticket with tag on day.
func (b *Buffer) LogOnDay(day time.Weekday, ticket string, tag *string) {
	b.days[day] = append(b.days[day], bufferedItem{ticket: ticket, tag: tag})
}

// ClearDay forgets everything logged on day.
func (b *Buffer) ClearDay(day time.Weekday) {
	delete(b.days, day)
}

// Entries distributes the buffered work into entries for the week starting
// at weekStart. Days without logged work produce nothing.
func (b *Buffer) Entries(weekStart time.Time) []Entry {
	var result []Entry

	for _, day := range Weekdays {
		items := b.days[day]
		if len(items) == 0 {
			continue
		}
		date := DateOn(weekStart, day)

		dayEntries := make([]Entry, len(items))
		hasUntagged := false
		for i, item := range items {
			dayEntries[i] = Entry{Ticket: item.ticket, Tag: item.tag, Date: date}
			if item.tag == nil {
				hasUntagged = true
			}
		}

		timeLeft := HoursPerDay
		if !hasUntagged {
			timeLeft -= b.untaggedPerDay
		}
		for i := 0; timeLeft > 0; i = (i + 1) % len(dayEntries) {
			dayEntries[i].Hours++
			timeLeft--
		}

		if !hasUntagged {
			dayEntries = append(dayEntries, Entry{
				Ticket: b.untaggedTicket,
				Hours:  b.untaggedPerDay,
				Date:   date,
			})
		}

		for _, e := range dayEntries {
			if e.Hours > 0 {
				result = append(result, e)
			}
		}
	}

	return result
}
