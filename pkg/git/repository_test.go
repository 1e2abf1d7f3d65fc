package git

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbujak/flog/pkg/git/gittest"
)

func TestGoGitOpener_Open(t *testing.T) {
	tmpDir := t.TempDir()
	repoPath := filepath.Join(tmpDir, "repo")
	gittest.Init(t, repoPath)

	repo, err := NewOpener().Open(repoPath)
	require.NoError(t, err)
	assert.Equal(t, repoPath, repo.Path())
}

func TestGoGitOpener_OpenNotARepository(t *testing.T) {
	_, err := NewOpener().Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open repository")
}

func TestGoGitRepository_Branches(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	r := gittest.Init(t, repoPath)
	first := gittest.Commit(t, r, time.Unix(1000, 0))
	second := gittest.Commit(t, r, time.Unix(2000, 0))
	gittest.SetBranch(t, r, gittest.DefaultBranch, first)
	gittest.SetBranch(t, r, "feature/x", second)
	gittest.SetBranch(t, r, "dangling", plumbing.NewHash("1111111111111111111111111111111111111111"))

	repo, err := NewOpener().Open(repoPath)
	require.NoError(t, err)

	branches, err := repo.Branches()
	require.NoError(t, err)
	require.Len(t, branches, 3)

	times := map[string]int64{}
	var names []string
	var unresolved []string
	for _, b := range branches {
		name, ok := b.Name()
		require.True(t, ok)
		names = append(names, name)

		when, err := b.TipTime()
		if err != nil {
			unresolved = append(unresolved, name)
			continue
		}
		times[name] = when.Unix()
	}
	sort.Strings(names)

	assert.Equal(t, []string{"dangling", "feature/x", "main"}, names)
	assert.Equal(t, int64(1000), times["main"])
	assert.Equal(t, int64(2000), times["feature/x"])
	assert.Equal(t, []string{"dangling"}, unresolved)
}

func TestGoGitRepository_BranchesEmpty(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "empty")
	gittest.Init(t, repoPath)

	repo, err := NewOpener().Open(repoPath)
	require.NoError(t, err)

	branches, err := repo.Branches()
	require.NoError(t, err)
	assert.Empty(t, branches)
}

func TestGoGitBranch_Name(t *testing.T) {
	tests := []struct {
		name   string
		ref    plumbing.ReferenceName
		want   string
		wantOK bool
	}{
		{name: "simple", ref: "refs/heads/main", want: "main", wantOK: true},
		{name: "nested", ref: "refs/heads/feature/ABC-12-thing", want: "feature/ABC-12-thing", wantOK: true},
		{name: "invalid utf-8", ref: plumbing.ReferenceName("refs/heads/bad\xff"), wantOK: false},
		{name: "empty", ref: plumbing.ReferenceName(""), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &goGitBranch{ref: plumbing.NewHashReference(tt.ref, plumbing.ZeroHash)}
			got, ok := b.Name()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repoPath := filepath.Join(tmpDir, "repo")
	gittest.Init(t, repoPath)

	assert.True(t, IsRepository(repoPath))
	assert.False(t, IsRepository(tmpDir))
	assert.False(t, IsRepository(filepath.Join(tmpDir, "missing")))
}

func TestOpenerFunc(t *testing.T) {
	called := ""
	opener := OpenerFunc(func(path string) (Repository, error) {
		called = path
		return nil, nil
	})

	_, err := opener.Open("/some/path")
	require.NoError(t, err)
	assert.Equal(t, "/some/path", called)
}
