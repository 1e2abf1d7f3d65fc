package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gbujak/flog/pkg/config"
	"github.com/gbujak/flog/pkg/discovery"
	"github.com/gbujak/flog/pkg/ui"
)

// branchesCmd represents the branches command
var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List branches of all repositories in the repo directories",
	Long: `List the local branches of every repository directly inside the
configured repo directories, most recently committed first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runBranches(cmd.Context(), cmd.OutOrStdout(), cfg, newLogger())
	},
}

func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.RepoDirs) == 0 {
		fmt.Fprintln(out, "No repo directories configured. Add one with 'flog add-dir <dir>'.")
		return nil
	}

	branches, err := discovery.CollectBranches(ctx, cfg.RepoDirs,
		discovery.WithMaxWorkers(cfg.Scan.MaxWorkers),
		discovery.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if len(branches) == 0 {
		fmt.Fprintln(out, "No branches found.")
		return nil
	}
	ui.RenderBranches(out, branches)
	return nil
}
