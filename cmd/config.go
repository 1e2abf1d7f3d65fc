package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/gbujak/flog/pkg/bootstrap"
	"github.com/gbujak/flog/pkg/config"
	flogerrors "github.com/gbujak/flog/pkg/errors"
	"github.com/gbujak/flog/pkg/git"
)

var addDirCmd = &cobra.Command{
	Use:   "add-dir <dir>",
	Short: "Add a directory whose repositories provide branches",
	Long: `Add a directory to the repo directories. Every git repository directly
inside it is scanned for branches when logging.

Examples:
  flog add-dir ~/code
  flog add-dir ~/work/services`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			return addDir(cmd.ErrOrStderr(), cfg, args[0])
		})
	},
}

var rmDirCmd = &cobra.Command{
	Use:   "rm-dir <dir>",
	Short: "Remove a directory from the repo directories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			return rmDir(cfg, args[0])
		})
	},
}

var addTicketCmd = &cobra.Command{
	Use:   "add-ticket <ticket>",
	Short: "Add a ticket to the ticket picker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			if !cfg.AddTicket(args[0]) {
				return fmt.Sprintf("Ticket %s is already known", args[0]), nil
			}
			return fmt.Sprintf("Added ticket %s", args[0]), nil
		})
	},
}

var rmTicketCmd = &cobra.Command{
	Use:   "rm-ticket <ticket>",
	Short: "Remove a ticket from the ticket picker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			if !cfg.RemoveTicket(args[0]) {
				return fmt.Sprintf("Ticket %s was not known", args[0]), nil
			}
			return fmt.Sprintf("Removed ticket %s", args[0]), nil
		})
	},
}

var setBranchFormatCmd = &cobra.Command{
	Use:   "set-branch-format <separator> <index>",
	Short: "Set how a tag is cut out of a branch name",
	Long: `Set the branch format. The branch name is split on separator and the
index-th element (counting from 0) is used for the work log tag.

Examples:
  flog set-branch-format / 1    # feature/ABC-12 -> ABC-12
  flog set-branch-format _ 0    # ABC-12_fix-login -> ABC-12`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			return setBranchFormat(cfg, args[0], args[1])
		})
	},
}

var setTagPrefixCmd = &cobra.Command{
	Use:   "set-tag-prefix <prefix>",
	Short: "Set the prefix used for every work log tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			cfg.Tag.Prefix = args[0]
			return fmt.Sprintf("Tag prefix set to %q", args[0]), nil
		})
	},
}

var printConfigCmd = &cobra.Command{
	Use:   "print-config",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg, appConfigPath)
	},
}

func init() {
	rootCmd.AddCommand(addDirCmd)
	rootCmd.AddCommand(rmDirCmd)
	rootCmd.AddCommand(addTicketCmd)
	rootCmd.AddCommand(rmTicketCmd)
	rootCmd.AddCommand(setBranchFormatCmd)
	rootCmd.AddCommand(setTagPrefixCmd)
	rootCmd.AddCommand(printConfigCmd)
}

// mutateConfig loads the config file (or defaults when there is none),
// applies fn and writes the result back.
func mutateConfig(out io.Writer, fn func(*config.Config) (string, error)) error {
	path, err := bootstrap.ConfigPath(cfgFile)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		cfg, err = config.ReadFile(path)
		if err != nil {
			return err
		}
	}

	msg, err := fn(cfg)
	if err != nil {
		return err
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}
	resetConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Saved config to %s\n", path)
	}
	fmt.Fprintln(out, msg)
	return nil
}

func absDir(dir string) (string, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to expand %s", dir)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dir)
	}
	return abs, nil
}

func addDir(warn io.Writer, cfg *config.Config, dir string) (string, error) {
	abs, err := absDir(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", flogerrors.NewConfigErrorWithCause("repo_dirs", fmt.Sprintf("cannot add %s", abs), err)
	}
	if !info.IsDir() {
		return "", flogerrors.NewConfigError("repo_dirs", fmt.Sprintf("%s is not a directory", abs))
	}

	if git.IsRepository(abs) {
		fmt.Fprintf(warn, "Warning: %s is itself a git repository. Only repositories inside it are scanned; you may want its parent directory.\n", abs)
	}

	if !cfg.AddRepoDir(abs) {
		return fmt.Sprintf("%s is already a repo directory", abs), nil
	}
	return fmt.Sprintf("Added repo directory %s", abs), nil
}

func rmDir(cfg *config.Config, dir string) (string, error) {
	if cfg.RemoveRepoDir(dir) {
		return fmt.Sprintf("Removed repo directory %s", dir), nil
	}

	abs, err := absDir(dir)
	if err != nil {
		return "", err
	}
	if cfg.RemoveRepoDir(abs) {
		return fmt.Sprintf("Removed repo directory %s", abs), nil
	}
	return fmt.Sprintf("%s is not a repo directory", dir), nil
}

func setBranchFormat(cfg *config.Config, separator, index string) (string, error) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 {
		return "", flogerrors.NewConfigError("tag.element_index", fmt.Sprintf("index must be a non-negative integer, got %q", index))
	}
	cfg.Tag.Separator = separator
	cfg.Tag.ElementIndex = i
	return fmt.Sprintf("Branch format set: split on %q, use element %d", separator, i), nil
}

func printConfig(out io.Writer, cfg *config.Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	fmt.Fprintf(out, "# %s\n%s", path, data)
	return nil
}
