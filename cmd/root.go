package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gbujak/flog/pkg/bootstrap"
	"github.com/gbujak/flog/pkg/config"
	flogerrors "github.com/gbujak/flog/pkg/errors"
)

var cfgFile string
var verbose bool
var appConfig *config.Config
var appConfigPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flog",
	Short: "flog - weekly work log from your git branches",
	Long: `flog is a CLI tool that helps you fill in a weekly work log.

It scans the directories you register for git repositories, offers their
branches (most recently committed first) as work log entries, and exports
the finished week as JSON or YAML, copied to your clipboard.

Get started:
  flog add-dir ~/code
  flog log`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pre-parse global flags so the logger and config are ready before
	// cobra runs any command.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(os.Args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, flogerrors.FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/flog/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, appConfigPath, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the configuration for the current flags.
func loadConfig() (*config.Config, error) {
	if err := initConfig(); err != nil {
		return nil, err
	}
	return appConfig, nil
}

// newLogger returns the logger commands pass to library code.
func newLogger() *slog.Logger {
	return bootstrap.NewLogger(os.Stderr, verbose)
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	appConfigPath = ""
	bootstrap.Reset()
	viper.Reset()
}
