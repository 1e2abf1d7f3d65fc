package discovery

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	flogerrors "github.com/gbujak/flog/pkg/errors"
	"github.com/gbujak/flog/pkg/git"
)

// Locator finds repositories among the immediate children of base directories
type Locator struct {
	fs     afero.Fs
	opener git.Opener
	logger *slog.Logger
}

// NewLocator creates a locator reading from fs and opening repositories with opener
func NewLocator(fs afero.Fs, opener git.Opener, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Locator{
		fs:     fs,
		opener: opener,
		logger: logger,
	}
}

// Locate starts one goroutine per base directory and streams every opened
// repository (or per-entry error) on the returned channel. The channel is
// closed once all base directories have been listed.
//
// A base directory that cannot be opened for listing is a configuration
// error and is returned before any goroutine starts.
func (l *Locator) Locate(ctx context.Context, baseDirs []string) (<-chan LocateResult, error) {
	var dirs []afero.File
	for _, base := range dedupe(baseDirs) {
		dir, err := l.openBase(base)
		if err != nil {
			for _, d := range dirs {
				_ = d.Close()
			}
			return nil, err
		}
		dirs = append(dirs, dir)
	}

	out := make(chan LocateResult)
	var wg sync.WaitGroup
	for _, dir := range dirs {
		wg.Add(1)
		go func(dir afero.File) {
			defer wg.Done()
			defer dir.Close()
			l.scanBase(ctx, dir, out)
		}(dir)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// openBase opens a base directory for listing
func (l *Locator) openBase(base string) (afero.File, error) {
	info, err := l.fs.Stat(base)
	if err != nil {
		return nil, flogerrors.NewConfigErrorWithCause("repo_dirs", "cannot read directory "+base, err)
	}
	if !info.IsDir() {
		return nil, flogerrors.NewConfigError("repo_dirs", "not a directory: "+base)
	}

	dir, err := l.fs.Open(base)
	if err != nil {
		return nil, flogerrors.NewConfigErrorWithCause("repo_dirs", "cannot read directory "+base, err)
	}
	return dir, nil
}

// scanBase emits the results for every entry of one base directory, in
// listing order
func (l *Locator) scanBase(ctx context.Context, dir afero.File, out chan<- LocateResult) {
	base := dir.Name()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		send(ctx, out, LocateResult{
			Err: flogerrors.NewDiscoveryErrorWithCause("list", base, "cannot read directory entries", err),
		})
		return
	}

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}

		result, ok := l.classify(filepath.Join(base, name))
		if !ok {
			continue
		}
		if !send(ctx, out, result) {
			return
		}
	}
}

// classify turns one directory entry into a result. ok is false when the
// entry should be skipped silently.
func (l *Locator) classify(path string) (result LocateResult, ok bool) {
	info, err := l.lstat(path)
	if err != nil {
		return LocateResult{
			Err: flogerrors.NewDiscoveryErrorWithCause("classify", path, "cannot read entry type", err),
		}, true
	}

	// Symlinks are not followed.
	if !info.IsDir() {
		return LocateResult{}, false
	}

	repo, err := l.opener.Open(path)
	if err != nil {
		l.logger.Debug("skipping directory", "path", path, "reason", err)
		return LocateResult{}, false
	}

	return LocateResult{Repo: repo}, true
}

func (l *Locator) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := l.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return l.fs.Stat(path)
}

// send delivers r unless ctx is cancelled first
func send(ctx context.Context, out chan<- LocateResult, r LocateResult) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// dedupe cleans paths and drops repeats, keeping the first occurrence
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var result []string
	for _, p := range paths {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}
