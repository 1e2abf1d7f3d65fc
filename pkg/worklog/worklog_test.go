package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbujak/flog/pkg/config"
	flogerrors "github.com/gbujak/flog/pkg/errors"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string {
	return &s
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2026-10-19", want: "2026-10-19"}, // Monday
		{in: "2026-10-21", want: "2026-10-19"}, // Wednesday
		{in: "2026-10-25", want: "2026-10-19"}, // Sunday
		{in: "2026-11-01", want: "2026-10-26"}, // Sunday across a month boundary
		{in: "2027-01-01", want: "2026-12-28"}, // Friday across a year boundary
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := WeekStart(date(t, tt.in).Add(15 * time.Hour))
			assert.Equal(t, tt.want, got.Format(DateLayout))
			assert.Equal(t, time.Monday, got.Weekday())
			assert.Zero(t, got.Hour())
		})
	}
}

func TestDateOn(t *testing.T) {
	monday := date(t, "2026-10-19")
	assert.Equal(t, "2026-10-19", DateOn(monday, time.Monday).Format(DateLayout))
	assert.Equal(t, "2026-10-23", DateOn(monday, time.Friday).Format(DateLayout))
	assert.Equal(t, "2026-10-25", DateOn(monday, time.Sunday).Format(DateLayout))
}

func TestMakeTag(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		cfg    config.TagConfig
		want   string
	}{
		{name: "default format", branch: "feature/ABC-12", cfg: config.TagConfig{Separator: "/", ElementIndex: 1, Prefix: "#CW"}, want: "#CW ABC-12"},
		{name: "missing element", branch: "main", cfg: config.TagConfig{Separator: "/", ElementIndex: 1, Prefix: "#CW"}, want: "#CW main"},
		{name: "first element", branch: "ABC-12_fix", cfg: config.TagConfig{Separator: "_", ElementIndex: 0, Prefix: "#"}, want: "# ABC-12"},
		{name: "deep element", branch: "a/b/c/d", cfg: config.TagConfig{Separator: "/", ElementIndex: 2, Prefix: "T"}, want: "T c"},
		{name: "empty element", branch: "feature/", cfg: config.TagConfig{Separator: "/", ElementIndex: 1, Prefix: "#CW"}, want: "#CW "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeTag(tt.branch, tt.cfg))
		})
	}
}

func TestRemoveDays(t *testing.T) {
	monday := date(t, "2026-10-19")
	entries := []Entry{
		{Ticket: "A", Hours: 8, Date: DateOn(monday, time.Monday)},
		{Ticket: "B", Hours: 8, Date: DateOn(monday, time.Tuesday)},
		{Ticket: "C", Hours: 8, Date: DateOn(monday, time.Wednesday)},
	}

	got := RemoveDays(entries, []time.Weekday{time.Monday, time.Wednesday})
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Ticket)
}

func TestSortForDisplay(t *testing.T) {
	monday := date(t, "2026-10-19")
	entries := []Entry{
		{Ticket: "sun", Hours: 8, Date: DateOn(monday, time.Sunday)},
		{Ticket: "mon-small", Hours: 2, Date: DateOn(monday, time.Monday)},
		{Ticket: "mon-big", Hours: 6, Date: DateOn(monday, time.Monday)},
	}

	got := SortForDisplay(entries)
	var tickets []string
	for _, e := range got {
		tickets = append(tickets, e.Ticket)
	}
	assert.Equal(t, []string{"mon-big", "mon-small", "sun"}, tickets)
	assert.Equal(t, "sun", entries[0].Ticket, "input is not modified")
}

func TestBuffer_RejectsTooMuchUntaggedTime(t *testing.T) {
	_, err := NewBuffer("PROJ", 9)
	require.Error(t, err)
	assert.True(t, flogerrors.IsLogError(err))
}

func TestBuffer_Entries(t *testing.T) {
	monday := date(t, "2026-10-19")

	b, err := NewBuffer("PROJ-0", 2)
	require.NoError(t, err)

	b.LogOnDay(time.Monday, "PROJ-1", strPtr("#CW one"))
	b.LogOnDay(time.Monday, "PROJ-2", strPtr("#CW two"))
	b.LogOnDay(time.Monday, "PROJ-3", strPtr("#CW three"))
	b.LogOnDay(time.Tuesday, "PROJ-1", nil)
	b.LogOnDay(time.Tuesday, "PROJ-2", strPtr("#CW two"))

	got := b.Entries(monday)

	type row struct {
		day    string
		ticket string
		tag    string
		hours  uint8
	}
	var rows []row
	for _, e := range got {
		rows = append(rows, row{e.Date.Format(DateLayout), e.Ticket, e.TagString(), e.Hours})
	}

	assert.Equal(t, []row{
		// 6 tagged hours round-robin over three items, 2 untagged
		{"2026-10-19", "PROJ-1", "#CW one", 2},
		{"2026-10-19", "PROJ-2", "#CW two", 2},
		{"2026-10-19", "PROJ-3", "#CW three", 2},
		{"2026-10-19", "PROJ-0", "", 2},
		// day already has untagged work, so the full 8 hours are shared
		{"2026-10-20", "PROJ-1", "", 4},
		{"2026-10-20", "PROJ-2", "#CW two", 4},
	}, rows)

	var total uint8
	for _, e := range got {
		if e.Date.Weekday() == time.Monday {
			total += e.Hours
		}
	}
	assert.Equal(t, HoursPerDay, total)
}

func TestBuffer_UnevenSplitAndClear(t *testing.T) {
	monday := date(t, "2026-10-19")

	b, err := NewBuffer("PROJ-0", 0)
	require.NoError(t, err)
	b.LogOnDay(time.Friday, "A", strPtr("a"))
	b.LogOnDay(time.Friday, "B", strPtr("b"))
	b.LogOnDay(time.Friday, "C", strPtr("c"))

	got := b.Entries(monday)
	require.Len(t, got, 3, "zero-hour untagged entry is omitted")
	assert.Equal(t, []uint8{3, 3, 2}, []uint8{got[0].Hours, got[1].Hours, got[2].Hours})

	b.ClearDay(time.Friday)
	assert.Empty(t, b.Entries(monday))
}

func TestExport_JSON(t *testing.T) {
	monday := date(t, "2026-10-19")
	entries := []Entry{
		{Ticket: "PROJ", Tag: strPtr("#CW ABC-1"), Hours: 6, Date: monday},
		{Ticket: "PROJ", Hours: 2, Date: monday},
	}

	data, err := Export(entries, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"ticket": "PROJ", "tag": "#CW ABC-1", "hours": 6, "date": "2026-10-19"},
		{"ticket": "PROJ", "tag": null, "hours": 2, "date": "2026-10-19"}
	]`, string(data))
}

func TestExport_YAML(t *testing.T) {
	monday := date(t, "2026-10-19")
	entries := []Entry{{Ticket: "PROJ", Tag: strPtr("#CW X"), Hours: 8, Date: monday}}

	data, err := Export(entries, "yaml")
	require.NoError(t, err)
	assert.YAMLEq(t, "- ticket: PROJ\n  tag: '#CW X'\n  hours: 8\n  date: \"2026-10-19\"\n", string(data))
}

func TestExport_Empty(t *testing.T) {
	data, err := Export(nil, "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(nil, "csv")
	require.Error(t, err)
	assert.True(t, flogerrors.IsConfigError(err))
}
