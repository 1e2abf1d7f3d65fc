package discovery

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/gbujak/flog/pkg/git"
)

type fakeBranch struct {
	name   string
	noName bool
	tip    int64
	tipErr error
}

func (b fakeBranch) Name() (string, bool) {
	if b.noName {
		return "", false
	}
	return b.name, true
}

func (b fakeBranch) TipTime() (time.Time, error) {
	if b.tipErr != nil {
		return time.Time{}, b.tipErr
	}
	return time.Unix(b.tip, 0), nil
}

type fakeRepo struct {
	path     string
	branches []fakeBranch
	err      error
}

func (r *fakeRepo) Path() string {
	return r.path
}

func (r *fakeRepo) Branches() ([]git.Branch, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]git.Branch, 0, len(r.branches))
	for _, b := range r.branches {
		result = append(result, b)
	}
	return result, nil
}

// fakeOpener opens only the paths it knows about and counts every attempt
type fakeOpener struct {
	repos map[string]*fakeRepo
	calls atomic.Int32
}

func newFakeOpener(repos ...*fakeRepo) *fakeOpener {
	o := &fakeOpener{repos: make(map[string]*fakeRepo)}
	for _, r := range repos {
		o.repos[r.path] = r
	}
	return o
}

func (o *fakeOpener) Open(path string) (git.Repository, error) {
	o.calls.Add(1)
	if r, ok := o.repos[path]; ok {
		return r, nil
	}
	return nil, errors.Newf("repository does not exist at %s", path)
}

// brokenEntryFs fails lstat for a single path
type brokenEntryFs struct {
	afero.Fs
	broken string
}

func (f *brokenEntryFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if name == f.broken {
		return nil, true, &os.PathError{Op: "lstat", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.(afero.Lstater).LstatIfPossible(name)
}

func memFs(dirs ...string) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, d := range dirs {
		if err := fs.MkdirAll(d, 0755); err != nil {
			panic(err)
		}
	}
	return fs
}

func ts(v int64) *int64 {
	return &v
}
