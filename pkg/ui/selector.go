package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	flogerrors "github.com/gbujak/flog/pkg/errors"
)

var (
	// ErrCancelled is returned when the user cancels the selection
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoOptions is returned when there is nothing to select from
	ErrNoOptions = errors.New("nothing to select from")
)

// FzfRunner feeds input to fzf started with args and returns what fzf
// printed on stdout.
type FzfRunner func(input string, args ...string) (string, error)

// RunFzf runs the fzf binary found in PATH.
func RunFzf(input string, args ...string) (string, error) {
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", fmt.Errorf("fzf not found in PATH: %w", err)
	}

	// #nosec G204 - fzf binary is looked up in PATH and args are built by this package
	cmd := exec.Command(fzfPath, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = os.Stderr // fzf uses stderr for UI rendering
	var output bytes.Buffer
	cmd.Stdout = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// fzf returns 130 on cancellation (ESC, Ctrl-C, Ctrl-G)
			if exitErr.ExitCode() == 130 {
				return "", ErrCancelled
			}
		}
		return "", fmt.Errorf("fzf failed: %w", err)
	}

	return output.String(), nil
}

// Selector picks options with fzf.
type Selector struct {
	run FzfRunner
}

// NewSelector creates a Selector. A nil runner uses RunFzf.
func NewSelector(run FzfRunner) *Selector {
	if run == nil {
		run = RunFzf
	}
	return &Selector{run: run}
}

// SelectOne asks the user to pick one of options and returns its index.
func (s *Selector) SelectOne(prompt string, options []string) (int, error) {
	indices, err := s.pick(prompt, options, false)
	if err != nil {
		return -1, err
	}
	return indices[0], nil
}

// SelectMany asks the user to pick any number of options and returns their
// indices in list order.
func (s *Selector) SelectMany(prompt string, options []string) ([]int, error) {
	return s.pick(prompt, options, true)
}

func (s *Selector) pick(prompt string, options []string, multi bool) ([]int, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	// Format: index <tab> label. Only the label is shown and searched.
	var input strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&input, "%d\t%s\n", i, opt)
	}

	args := []string{
		"--height=40%",
		"--layout=reverse",
		"--delimiter=\t",
		"--with-nth=2..",
		"--cycle",
		"--prompt=" + prompt + " ",
	}
	if multi {
		args = append(args, "--multi")
	}

	output, err := s.run(input.String(), args...)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return nil, ErrCancelled
		}
		return nil, flogerrors.NewUIError(prompt, err.Error()).WithCause(err)
	}

	indices, err := parseSelection(output, len(options))
	if err != nil {
		return nil, flogerrors.NewUIError(prompt, err.Error()).WithCause(err)
	}
	if len(indices) == 0 {
		return nil, ErrCancelled
	}
	return indices, nil
}

func parseSelection(output string, count int) ([]int, error) {
	var indices []int
	seen := make(map[int]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idxText, _, _ := strings.Cut(line, "\t")
		idx, err := strconv.Atoi(idxText)
		if err != nil || idx < 0 || idx >= count {
			return nil, fmt.Errorf("invalid selection output: %q", line)
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	slices.Sort(indices)
	return indices, nil
}
