package discovery

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/gbujak/flog/pkg/git"
)

// Collector turns the Locator stream into a recency-sorted branch list
type Collector struct {
	locator    *Locator
	maxWorkers int
	logger     *slog.Logger
}

// Option configures a Collector
type Option func(*Collector)

// WithMaxWorkers bounds the number of repositories scanned at once.
// Zero or less means one worker per repository.
func WithMaxWorkers(n int) Option {
	return func(c *Collector) {
		c.maxWorkers = n
	}
}

// WithLogger sets the logger used for silently skipped repositories and branches
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCollector creates a collector reading repositories from locator
func NewCollector(locator *Locator, opts ...Option) *Collector {
	c := &Collector{
		locator: locator,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectBranches scans baseDirs on the local filesystem with go-git and
// returns every local branch, most recent tip commit first
func CollectBranches(ctx context.Context, baseDirs []string, opts ...Option) ([]BranchRecord, error) {
	c := NewCollector(nil, opts...)
	c.locator = NewLocator(afero.NewOsFs(), git.NewOpener(), c.logger)
	return c.Collect(ctx, baseDirs)
}

// Collect locates repositories under baseDirs and gathers their branches.
//
// Any per-entry discovery error aborts the whole collection and no partial
// result is returned. Repositories whose branches cannot be listed are
// dropped, branches without a usable name are dropped, and branches whose
// tip cannot be resolved are kept with a nil LatestCommit.
func (c *Collector) Collect(ctx context.Context, baseDirs []string) ([]BranchRecord, error) {
	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	located, err := c.locator.Locate(scanCtx, baseDirs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan repository directories")
	}

	records := make(chan BranchRecord, 64)
	var collected []BranchRecord
	merged := make(chan struct{})
	go func() {
		defer close(merged)
		for r := range records {
			collected = append(collected, r)
		}
	}()

	var g errgroup.Group
	if c.maxWorkers > 0 {
		g.SetLimit(c.maxWorkers)
	}

	var fatal error
	seen := make(map[string]bool)
	for res := range located {
		if res.Err != nil {
			if fatal == nil {
				fatal = res.Err
				cancel()
			}
			continue
		}
		if fatal != nil {
			continue
		}

		key := canonicalPath(res.Repo.Path())
		if seen[key] {
			c.logger.Debug("skipping duplicate repository", "path", res.Repo.Path())
			continue
		}
		seen[key] = true

		repo := res.Repo
		g.Go(func() error {
			c.collectRepository(scanCtx, repo, records)
			return nil
		})
	}

	_ = g.Wait()
	close(records)
	<-merged

	if fatal != nil {
		return nil, errors.Wrap(fatal, "repository discovery failed")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "branch collection cancelled")
	}

	SortByRecency(collected)
	return collected, nil
}

// collectRepository is the per-repository worker
func (c *Collector) collectRepository(ctx context.Context, repo git.Repository, out chan<- BranchRecord) {
	branches, err := repo.Branches()
	if err != nil {
		c.logger.Debug("skipping repository", "path", repo.Path(), "reason", err)
		return
	}

	for _, branch := range branches {
		if ctx.Err() != nil {
			return
		}

		name, ok := branch.Name()
		if !ok {
			c.logger.Debug("skipping branch without a usable name", "path", repo.Path())
			continue
		}

		record := BranchRecord{
			RepositoryPath: repo.Path(),
			BranchName:     name,
		}
		if when, err := branch.TipTime(); err != nil {
			c.logger.Debug("branch tip unresolved", "path", repo.Path(), "branch", name, "reason", err)
		} else {
			ts := when.Unix()
			record.LatestCommit = &ts
		}

		select {
		case out <- record:
		case <-ctx.Done():
			return
		}
	}
}

// SortByRecency orders records by LatestCommit descending. Records without a
// timestamp sort last; ties are broken by repository path then branch name.
func SortByRecency(records []BranchRecord) {
	slices.SortStableFunc(records, func(a, b BranchRecord) int {
		if c := compareTimestamps(b.LatestCommit, a.LatestCommit); c != 0 {
			return c
		}
		if c := cmp.Compare(a.RepositoryPath, b.RepositoryPath); c != 0 {
			return c
		}
		return cmp.Compare(a.BranchName, b.BranchName)
	})
}

// compareTimestamps compares two optional timestamps, nil being the minimum
func compareTimestamps(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// canonicalPath resolves symlinks so the same repository reached through two
// base directories is scanned once
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
