package discovery

import (
	"fmt"

	"github.com/gbujak/flog/pkg/git"
)

// BranchRecord is a local branch found during a scan
type BranchRecord struct {
	RepositoryPath string // Path the repository was opened at
	BranchName     string // Short branch name, always valid UTF-8
	LatestCommit   *int64 // Tip commit time in epoch seconds; nil if the tip could not be resolved
}

// String renders the record the way pickers show it: "<branch> (<repo>)"
func (r BranchRecord) String() string {
	return fmt.Sprintf("%s (%s)", r.BranchName, r.RepositoryPath)
}

// LocateResult is one item of the Locator stream: either an opened
// repository or a per-entry discovery error.
type LocateResult struct {
	Repo git.Repository
	Err  error
}
