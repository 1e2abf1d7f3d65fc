package git

import (
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Branch is a local branch reported by a Repository.
type Branch interface {
	// Name returns the short branch name. ok is false when the reference has
	// no usable name (empty or not valid UTF-8).
	Name() (name string, ok bool)
	// TipTime resolves the branch tip to a commit and returns its commit time.
	TipTime() (time.Time, error)
}

// Repository is an opened repository on disk.
type Repository interface {
	Path() string
	// Branches lists every local branch. Either the whole list or an error is
	// returned, never a partial list.
	Branches() ([]Branch, error)
}

// Opener opens the repository rooted at path.
type Opener interface {
	Open(path string) (Repository, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Repository, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Repository, error) {
	return f(path)
}

// GoGitOpener opens repositories with go-git. The zero value is ready to use.
type GoGitOpener struct{}

// NewOpener returns the default go-git backed Opener.
func NewOpener() *GoGitOpener {
	return &GoGitOpener{}
}

// Open opens path as a standard or bare repository. Parent directories are
// not searched.
func (o *GoGitOpener) Open(path string) (Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open repository at %s", path)
	}
	return &goGitRepository{path: path, repo: repo}, nil
}

type goGitRepository struct {
	path string
	repo *gogit.Repository
}

func (r *goGitRepository) Path() string {
	return r.path
}

func (r *goGitRepository) Branches() ([]Branch, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list branches of %s", r.path)
	}
	defer iter.Close()

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, &goGitBranch{repo: r.repo, ref: ref})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to iterate branches of %s", r.path)
	}

	return branches, nil
}

type goGitBranch struct {
	repo *gogit.Repository
	ref  *plumbing.Reference
}

func (b *goGitBranch) Name() (string, bool) {
	// Short() goes through fmt.Sscanf, which would replace invalid bytes
	// with U+FFFD, so validate the raw name first.
	if !utf8.ValidString(string(b.ref.Name())) {
		return "", false
	}
	name := b.ref.Name().Short()
	if name == "" {
		return "", false
	}
	return name, true
}

func (b *goGitBranch) TipTime() (time.Time, error) {
	hash := b.ref.Hash()
	if b.ref.Type() == plumbing.SymbolicReference {
		resolved, err := b.repo.Reference(b.ref.Name(), true)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "failed to resolve %s", b.ref.Name())
		}
		hash = resolved.Hash()
	}

	commit, err := b.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to load tip commit %s of %s", hash, b.ref.Name())
	}

	return commit.Committer.When, nil
}

// IsRepository reports whether path can be opened as a repository.
func IsRepository(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}
