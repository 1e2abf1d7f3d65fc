// Package gittest builds throwaway repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultBranch is the branch created by Init.
const DefaultBranch = "main"

// Init creates an empty non-bare repository at dir.
func Init(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
		},
	})
	if err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}
	return repo
}

// Commit writes a file and commits it on the current branch with the given
// commit time.
func Commit(t *testing.T, repo *gogit.Repository, when time.Time) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}

	name := "file.txt"
	path := filepath.Join(wt.Filesystem.Root(), name)
	if err := os.WriteFile(path, []byte(when.String()), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	hash, err := wt.Commit("commit at "+when.UTC().Format(time.RFC3339), &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return hash
}

// SetBranch points refs/heads/<name> at hash, creating the branch if needed.
// hash does not have to exist in the object store.
func SetBranch(t *testing.T, repo *gogit.Repository, name string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("SetReference(%s) failed: %v", name, err)
	}
}
