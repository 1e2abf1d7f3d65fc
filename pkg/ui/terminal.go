package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/gbujak/flog/pkg/discovery"
	flogerrors "github.com/gbujak/flog/pkg/errors"
	"github.com/gbujak/flog/pkg/worklog"
)

// Terminal prompts on a line-oriented terminal and delegates list
// selection to fzf. It implements worklog.Prompter.
type Terminal struct {
	mu       sync.Mutex
	in       *bufio.Reader
	out      io.Writer
	selector *Selector
	location *time.Location
}

var _ worklog.Prompter = (*Terminal)(nil)

// NewTerminal creates a Terminal reading answers from in and writing prompts
// to out. A nil runner uses RunFzf.
func NewTerminal(in io.Reader, out io.Writer, runner FzfRunner) *Terminal {
	return &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		selector: NewSelector(runner),
		location: time.Local,
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// lock serializes prompts so concurrent callers cannot interleave output.
func (t *Terminal) lock() func() {
	t.mu.Lock()
	return t.mu.Unlock
}

func (t *Terminal) readLine(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s (default: %s) ", label, def)
	} else {
		fmt.Fprintf(t.out, "%s ", label)
	}

	input, err := t.in.ReadString('\n')
	input = strings.TrimSpace(input)
	if err != nil && (err != io.EOF || input == "") {
		return "", flogerrors.NewUIError(label, "no input").WithCause(err)
	}
	if input == "" {
		input = def
	}
	return input, nil
}

// Text asks for free text. An empty answer selects def.
func (t *Terminal) Text(label, def string) (string, error) {
	defer t.lock()()
	return t.readLine(label, def)
}

// Date asks for a YYYY-MM-DD date until a valid one is entered.
func (t *Terminal) Date(label string, def time.Time) (time.Time, error) {
	defer t.lock()()
	for {
		input, err := t.readLine(label, def.Format(worklog.DateLayout))
		if err != nil {
			return time.Time{}, err
		}
		d, err := time.ParseInLocation(worklog.DateLayout, input, t.location)
		if err != nil {
			fmt.Fprintf(t.out, "Invalid date %q, expected YYYY-MM-DD.\n", input)
			continue
		}
		return d, nil
	}
}

// Hours asks for a whole number of hours between 0 and max until a valid
// one is entered.
func (t *Terminal) Hours(label string, max uint8) (uint8, error) {
	defer t.lock()()
	for {
		input, err := t.readLine(fmt.Sprintf("%s [0-%d]", label, max), "")
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(input, 10, 8)
		if err != nil || n > uint64(max) {
			fmt.Fprintf(t.out, "Enter a number between 0 and %d.\n", max)
			continue
		}
		return uint8(n), nil
	}
}

// Ticket offers the known tickets in fzf, with def first. Without known
// tickets it falls back to a text prompt.
func (t *Terminal) Ticket(label, def string, known []string) (string, error) {
	if len(known) == 0 {
		return t.Text(label, def)
	}

	options := []string{def}
	for _, k := range known {
		if k != def {
			options = append(options, k)
		}
	}

	defer t.lock()()
	i, err := t.selector.SelectOne(label, options)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

// Branch lets the user pick one of branches.
func (t *Terminal) Branch(label string, branches []discovery.BranchRecord) (discovery.BranchRecord, error) {
	options := make([]string, len(branches))
	for i, b := range branches {
		options[i] = b.String()
	}

	defer t.lock()()
	i, err := t.selector.SelectOne(label, options)
	if err != nil {
		return discovery.BranchRecord{}, err
	}
	return branches[i], nil
}

// Weekdays lets the user pick one or more days of the week, Monday first.
func (t *Terminal) Weekdays(label string) ([]time.Weekday, error) {
	options := make([]string, len(worklog.Weekdays))
	for i, d := range worklog.Weekdays {
		options[i] = d.String()
	}

	defer t.lock()()
	indices, err := t.selector.SelectMany(label, options)
	if err != nil {
		return nil, err
	}

	days := make([]time.Weekday, len(indices))
	for i, idx := range indices {
		days[i] = worklog.Weekdays[idx]
	}
	return days, nil
}

// Action lets the user pick what to do next.
func (t *Terminal) Action(label string, actions []worklog.Action) (worklog.Action, error) {
	options := make([]string, len(actions))
	for i, a := range actions {
		options[i] = a.String()
	}

	defer t.lock()()
	i, err := t.selector.SelectOne(label, options)
	if err != nil {
		return 0, err
	}
	return actions[i], nil
}
