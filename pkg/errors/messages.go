package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	var discErr *DiscoveryError
	if As(err, &discErr) {
		return formatDiscoveryError(discErr)
	}

	var uiErr *UIError
	if As(err, &uiErr) {
		return formatUIError(uiErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/flog/config.toml\n")
	if err.Field == "repo_dirs" {
		b.WriteString("  • Remove stale directories with 'flog rm-dir <dir>'\n")
		b.WriteString("  • Add repository directories with 'flog add-dir <dir>'\n")
	} else {
		b.WriteString("  • Run 'flog print-config' to inspect the active configuration\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatDiscoveryError formats a DiscoveryError with actionable guidance.
func formatDiscoveryError(err *DiscoveryError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Could not scan %s (%s): %s\n", err.Path, err.Operation, err.Message)
	b.WriteString("\nThe scan was aborted so that no branches are silently missing.\n")
	b.WriteString("  • Check permissions on the entry above\n")
	b.WriteString("  • Re-run with --verbose for details\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatUIError formats a UIError.
func formatUIError(err *UIError) string {
	var b strings.Builder

	b.WriteString(err.Error())
	b.WriteString("\n")
	if err.Cause != nil && strings.Contains(err.Cause.Error(), "fzf not found") {
		b.WriteString("\nflog uses fzf for selections. Install it from https://github.com/junegunn/fzf\n")
	}

	return b.String()
}
