package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/olekukonko/tablewriter"

	"github.com/gbujak/flog/pkg/discovery"
	flogerrors "github.com/gbujak/flog/pkg/errors"
	"github.com/gbujak/flog/pkg/worklog"
)

// RenderEntries prints entries as a table, ordered by day and hours.
func RenderEntries(w io.Writer, entries []worklog.Entry) {
	fmt.Fprintln(w, "=== Current time logs: ===")
	if len(entries) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Day", "Hours", "Ticket", "Tag"})
	for _, e := range worklog.SortForDisplay(entries) {
		tag := e.TagString()
		if e.Tag == nil {
			tag = "-"
		}
		table.Append([]string{
			e.Date.Format("Mon 2006-01-02"),
			strconv.Itoa(int(e.Hours)),
			e.Ticket,
			tag,
		})
	}
	table.Render()
}

// RenderBranches prints branches as a table in the order given.
func RenderBranches(w io.Writer, branches []discovery.BranchRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Branch", "Repository", "Last Commit"})
	for _, b := range branches {
		last := "-"
		if b.LatestCommit != nil {
			last = time.Unix(*b.LatestCommit, 0).Format("2006-01-02 15:04")
		}
		table.Append([]string{b.BranchName, b.RepositoryPath, last})
	}
	table.Render()
}

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return flogerrors.NewUIError("clipboard", "no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return flogerrors.NewUIError("clipboard", "failed to copy").WithCause(err)
	}
	return nil
}
