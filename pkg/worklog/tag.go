package worklog

import (
	"strings"

	"github.com/gbujak/flog/pkg/config"
)

// MakeTag derives the default tag for a branch: the branch name is split on
// the configured separator and the element at the configured index is
// prefixed. The whole branch name is used when that element does not exist.
//
//	MakeTag("feature/ABC-12", {"/", 1, "#CW"}) == "#CW ABC-12"
func MakeTag(branchName string, cfg config.TagConfig) string {
	body := branchName
	parts := strings.Split(branchName, cfg.Separator)
	if cfg.ElementIndex >= 0 && cfg.ElementIndex < len(parts) {
		body = parts[cfg.ElementIndex]
	}
	return cfg.Prefix + " " + body
}
