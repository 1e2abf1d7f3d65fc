package worklog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gbujak/flog/pkg/config"
	"github.com/gbujak/flog/pkg/discovery"
	flogerrors "github.com/gbujak/flog/pkg/errors"
)

// Action is what the user wants to do after adding work.
type Action int

const (
	ActionContinue Action = iota
	ActionFinish
	ActionClearDays
)

// NoTag is the tag answer that logs work without a tag.
const NoTag = "-"

// Actions lists the choices offered after each addition, in display order.
var Actions = []Action{ActionContinue, ActionFinish, ActionClearDays}

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "Continue adding"
	case ActionFinish:
		return "Finish"
	case ActionClearDays:
		return "Clear Days"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Prompter asks the user for the values a Session needs.
type Prompter interface {
	Date(label string, def time.Time) (time.Time, error)
	Weekdays(label string) ([]time.Weekday, error)
	Hours(label string, max uint8) (uint8, error)
	Text(label, def string) (string, error)
	Ticket(label, def string, known []string) (string, error)
	Branch(label string, branches []discovery.BranchRecord) (discovery.BranchRecord, error)
	Action(label string, actions []Action) (Action, error)
}

// Session walks the user through logging one week of work.
type Session struct {
	Config   *config.Config
	Branches []discovery.BranchRecord
	Prompter Prompter

	// Render is called with the current entries after every change.
	Render func([]Entry)
	// Week, if set, skips the week prompt.
	Week *time.Time
	// Balanced spreads each day's hours over everything logged on it
	// instead of giving every addition a full day.
	Balanced bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run prompts until the user chooses to finish and returns the logged entries.
func (s *Session) Run(ctx context.Context) ([]Entry, error) {
	if len(s.Branches) == 0 {
		return nil, flogerrors.NewLogError("branches", "no branches found in the configured directories")
	}

	weekStart, err := s.weekStart()
	if err != nil {
		return nil, err
	}

	var buffer *Buffer
	if s.Balanced {
		buffer, err = s.newBuffer()
		if err != nil {
			return nil, err
		}
	}

	var entries []Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "work log cancelled")
		}

		added, err := s.addWork(weekStart, buffer)
		if err != nil {
			return nil, err
		}
		if buffer != nil {
			entries = buffer.Entries(weekStart)
		} else {
			entries = append(entries, added...)
		}
		s.render(entries)

		action, err := s.Prompter.Action("What to do next?", Actions)
		if err != nil {
			return nil, err
		}

		switch action {
		case ActionFinish:
			return entries, nil
		case ActionClearDays:
			days, err := s.Prompter.Weekdays("Select days to clear.")
			if err != nil {
				return nil, err
			}
			if buffer != nil {
				for _, d := range days {
					buffer.ClearDay(d)
				}
				entries = buffer.Entries(weekStart)
			} else {
				entries = RemoveDays(entries, days)
			}
			s.render(entries)
		}
	}
}

// addWork runs one round of prompts. In balanced mode the work goes into
// buffer and nil is returned.
func (s *Session) addWork(weekStart time.Time, buffer *Buffer) ([]Entry, error) {
	days, err := s.Prompter.Weekdays("Select days with the same worklog.")
	if err != nil {
		return nil, err
	}

	var untagged uint8
	if buffer == nil {
		untagged, err = s.Prompter.Hours("How much untagged work per day?", HoursPerDay)
		if err != nil {
			return nil, err
		}
		if untagged > HoursPerDay {
			return nil, flogerrors.NewLogError("hours", fmt.Sprintf("untagged work cannot exceed %d hours", HoursPerDay))
		}
	}

	ticket, err := s.Prompter.Ticket("Which ticket to log for?", s.Config.DefaultProject, s.Config.Tickets)
	if err != nil {
		return nil, err
	}

	branch, err := s.Prompter.Branch("Which branch to log work on?", s.Branches)
	if err != nil {
		return nil, err
	}

	tagText, err := s.Prompter.Text("Override tag name ('-' for none):", MakeTag(branch.BranchName, s.Config.Tag))
	if err != nil {
		return nil, err
	}
	var tag *string
	if tagText = strings.TrimSpace(tagText); tagText != "" && tagText != NoTag {
		tag = &tagText
	}

	if buffer != nil {
		for _, d := range days {
			buffer.LogOnDay(d, ticket, tag)
		}
		return nil, nil
	}

	var added []Entry
	for _, d := range days {
		date := DateOn(weekStart, d)
		for _, part := range []struct {
			hours uint8
			tag   *string
		}{
			{untagged, nil},
			{HoursPerDay - untagged, tag},
		} {
			if part.hours == 0 {
				continue
			}
			added = append(added, Entry{Ticket: ticket, Tag: part.tag, Hours: part.hours, Date: date})
		}
	}
	return added, nil
}

func (s *Session) weekStart() (time.Time, error) {
	if s.Week != nil {
		return WeekStart(*s.Week), nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	day, err := s.Prompter.Date("Select week to log (day of week doesn't matter)", now())
	if err != nil {
		return time.Time{}, err
	}
	return WeekStart(day), nil
}

func (s *Session) newBuffer() (*Buffer, error) {
	ticket, err := s.Prompter.Text("Which ticket takes untagged work?", s.Config.DefaultProject)
	if err != nil {
		return nil, err
	}
	untagged, err := s.Prompter.Hours("How much untagged work per day?", HoursPerDay)
	if err != nil {
		return nil, err
	}
	return NewBuffer(ticket, untagged)
}

func (s *Session) render(entries []Entry) {
	if s.Render != nil {
		s.Render(entries)
	}
}
