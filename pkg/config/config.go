package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	flogerrors "github.com/gbujak/flog/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	RepoDirs       []string     `mapstructure:"repo_dirs" toml:"repo_dirs"`             // Directories whose children are scanned for repositories
	DefaultProject string       `mapstructure:"default_project" toml:"default_project"` // Default ticket offered when logging
	Tickets        []string     `mapstructure:"tickets" toml:"tickets"`                 // Known tickets offered in the ticket picker
	Tag            TagConfig    `mapstructure:"tag" toml:"tag"`
	Scan           ScanConfig   `mapstructure:"scan" toml:"scan"`
	Output         OutputConfig `mapstructure:"output" toml:"output"`
}

// TagConfig controls how a work log tag is derived from a branch name.
// The branch is split on Separator and the ElementIndex-th element is
// prefixed with Prefix.
type TagConfig struct {
	Separator    string `mapstructure:"separator" toml:"separator"`
	ElementIndex int    `mapstructure:"element_index" toml:"element_index"`
	Prefix       string `mapstructure:"prefix" toml:"prefix"`
}

// ScanConfig holds repository scan configuration
type ScanConfig struct {
	MaxWorkers int `mapstructure:"max_workers" toml:"max_workers"` // 0 means one worker per repository
}

// OutputConfig holds work log export configuration
type OutputConfig struct {
	Format    string `mapstructure:"format" toml:"format"`       // "json" or "yaml"
	Clipboard bool   `mapstructure:"clipboard" toml:"clipboard"` // Copy the exported log to the clipboard
}

// ValidFormats is the list of supported export formats.
var ValidFormats = []string{"json", "yaml"}

// Default returns the built-in configuration used when no file exists
func Default() *Config {
	return &Config{
		RepoDirs:       []string{},
		DefaultProject: "PROJ",
		Tickets:        []string{},
		Tag: TagConfig{
			Separator:    "/",
			ElementIndex: 1,
			Prefix:       "#CW",
		},
		Output: OutputConfig{
			Format:    "json",
			Clipboard: true,
		},
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal the config
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	// Expand paths
	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// ValidateFormat validates that an export format is supported.
func ValidateFormat(format string) error {
	if slices.Contains(ValidFormats, format) {
		return nil
	}
	return flogerrors.NewConfigError("output.format", fmt.Sprintf("invalid format %q: must be one of: %s", format, strings.Join(ValidFormats, ", ")))
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.Tag.Separator == "" {
		return flogerrors.NewConfigError("tag.separator", "separator must not be empty")
	}
	if c.Tag.ElementIndex < 0 {
		return flogerrors.NewConfigError("tag.element_index", "index must not be negative")
	}
	if c.Scan.MaxWorkers < 0 {
		return flogerrors.NewConfigError("scan.max_workers", "must not be negative")
	}
	return ValidateFormat(c.Output.Format)
}

// AddRepoDir adds dir to the scanned directories. It reports false when dir
// was already present.
func (c *Config) AddRepoDir(dir string) bool {
	return addUnique(&c.RepoDirs, dir)
}

// RemoveRepoDir removes dir from the scanned directories. It reports false
// when dir was not present.
func (c *Config) RemoveRepoDir(dir string) bool {
	return remove(&c.RepoDirs, dir)
}

// AddTicket adds ticket to the known tickets
func (c *Config) AddTicket(ticket string) bool {
	return addUnique(&c.Tickets, ticket)
}

// RemoveTicket removes ticket from the known tickets
func (c *Config) RemoveTicket(ticket string) bool {
	return remove(&c.Tickets, ticket)
}

func addUnique(list *[]string, value string) bool {
	if slices.Contains(*list, value) {
		return false
	}
	*list = append(*list, value)
	return true
}

func remove(list *[]string, value string) bool {
	before := len(*list)
	*list = slices.DeleteFunc(*list, func(v string) bool { return v == value })
	return len(*list) != before
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	viper.SetDefault("repo_dirs", d.RepoDirs)
	viper.SetDefault("default_project", d.DefaultProject)
	viper.SetDefault("tickets", d.Tickets)

	// Tag defaults: "feature/ABC-1" -> "#CW ABC-1"
	viper.SetDefault("tag.separator", d.Tag.Separator)
	viper.SetDefault("tag.element_index", d.Tag.ElementIndex)
	viper.SetDefault("tag.prefix", d.Tag.Prefix)

	viper.SetDefault("scan.max_workers", d.Scan.MaxWorkers)

	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("output.clipboard", d.Output.Clipboard)
}

// expandPaths expands ~ in paths
func expandPaths(config *Config) error {
	var err error
	for i, path := range config.RepoDirs {
		config.RepoDirs[i], err = ExpandPath(path)
		if err != nil {
			return err
		}
	}
	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(dir, "flog", "config.toml"), nil
}
