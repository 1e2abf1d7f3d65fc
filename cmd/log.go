package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gbujak/flog/pkg/config"
	"github.com/gbujak/flog/pkg/discovery"
	flogerrors "github.com/gbujak/flog/pkg/errors"
	"github.com/gbujak/flog/pkg/ui"
	"github.com/gbujak/flog/pkg/worklog"
)

var (
	logWeek        string
	logFormat      string
	logNoClipboard bool
	logBalanced    bool
)

// logCmd represents the log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Interactively fill in a week of work",
	Long: `Interactively fill in a week of work from your git branches.

Branches are collected from every repository directly inside the configured
repo directories, most recently committed first. For each group of days you
pick the untagged hours, a ticket and a branch; the branch name becomes the
tag. The finished log is printed and copied to the clipboard.

Examples:
  flog log
  flog log --week 2026-10-19
  flog log --format yaml --no-clipboard
  flog log --balanced`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !ui.IsInteractive(os.Stdin) {
			return flogerrors.NewUIError("log", "flog log needs an interactive terminal; use 'flog branches' in scripts")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		opts := logOptions{
			week:      logWeek,
			format:    logFormat,
			clipboard: cfg.Output.Clipboard && !logNoClipboard,
			balanced:  logBalanced,
		}
		prompter := ui.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), nil)
		return runLog(ctx, cmd.OutOrStdout(), cfg, opts, prompter, ui.CopyToClipboard, newLogger())
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logWeek, "week", "", "any day (YYYY-MM-DD) of the week to log; prompts when empty")
	logCmd.Flags().StringVar(&logFormat, "format", "", "output format: json or yaml (default from config)")
	logCmd.Flags().BoolVar(&logNoClipboard, "no-clipboard", false, "do not copy the result to the clipboard")
	logCmd.Flags().BoolVar(&logBalanced, "balanced", false, "share each day's hours between everything logged on it")
}

type logOptions struct {
	week      string
	format    string
	clipboard bool
	balanced  bool
}

func runLog(
	ctx context.Context,
	out io.Writer,
	cfg *config.Config,
	opts logOptions,
	prompter worklog.Prompter,
	copyToClipboard func(string) error,
	logger *slog.Logger,
) error {
	if len(cfg.RepoDirs) == 0 {
		return flogerrors.NewConfigError("repo_dirs", "Must set at least one repo dir before logging!")
	}

	format := cfg.Output.Format
	if opts.format != "" {
		format = opts.format
	}
	if err := config.ValidateFormat(format); err != nil {
		return err
	}

	var week *time.Time
	if opts.week != "" {
		d, err := time.ParseInLocation(worklog.DateLayout, opts.week, time.Local)
		if err != nil {
			return errors.Wrapf(err, "invalid --week %q, expected YYYY-MM-DD", opts.week)
		}
		week = &d
	}

	branches, err := discovery.CollectBranches(ctx, cfg.RepoDirs,
		discovery.WithMaxWorkers(cfg.Scan.MaxWorkers),
		discovery.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Debug("collected branches", "count", len(branches))

	session := &worklog.Session{
		Config:   cfg,
		Branches: branches,
		Prompter: prompter,
		Render:   func(entries []worklog.Entry) { ui.RenderEntries(out, entries) },
		Week:     week,
		Balanced: opts.balanced,
	}

	entries, err := session.Run(ctx)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			fmt.Fprintln(out, "Cancelled, nothing logged.")
			return nil
		}
		return err
	}

	data, err := worklog.Export(entries, format)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Result:")
	fmt.Fprintln(out, string(data))

	if opts.clipboard && copyToClipboard != nil {
		if err := copyToClipboard(string(data)); err != nil {
			logger.Warn("could not copy result to clipboard", "error", err)
			return nil
		}
		fmt.Fprintln(out, "Copied to clipboard.")
	}
	return nil
}
