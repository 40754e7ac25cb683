package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGitRoot(t *testing.T) {
	repo, _ := newRepo(t)
	sub := filepath.Join(repo, "pkg", "inner")
	require.NoError(t, os.MkdirAll(sub, 0755))

	ctx := context.Background()
	root, err := GetGitRoot(ctx, sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.True(t, IsGitRepo(ctx, sub))
	assert.True(t, NewCLIRepository().IsGitRepo(ctx, repo))
}

func TestNotAGitRepo(t *testing.T) {
	testutil.RequireGit(t)
	dir := t.TempDir()
	ctx := context.Background()

	assert.False(t, IsGitRepo(ctx, dir))

	_, err := GetGitRoot(ctx, dir)
	assert.True(t, errors.Is(err, errors.ErrCodeNotGitRepo))

	_, err = HooksDir(ctx, dir)
	assert.True(t, errors.Is(err, errors.ErrCodeNotGitRepo))
}

func TestHooksDirDefault(t *testing.T) {
	repo, hooksDir := newRepo(t)

	dir, err := NewCLIRepository().HooksDir(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, hooksDir, dir)
}

func TestListFiles(t *testing.T) {
	repo, _ := newRepo(t)
	testutil.CreateCommit(t, repo, "src/app.py", "print('hi')\n")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "untracked.txt"), []byte("x"), 0644))

	files, err := ListFiles(context.Background(), repo)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "src/app.py"}, files)
}
