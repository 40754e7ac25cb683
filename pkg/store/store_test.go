package store

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/grovetools/hookcfg/command"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hookManifest = `- id: isort
  name: isort
  entry: isort
  language: python
  types: [python]
`

// countingExecutor records how many commands were started.
type countingExecutor struct {
	command.RealExecutor
	calls atomic.Int32
}

func (e *countingExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	e.calls.Add(1)
	return e.RealExecutor.CommandContext(ctx, name, args...)
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(t.TempDir(), append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestEnsureFetchesOnce(t *testing.T) {
	repo := testutil.CreateHookRepo(t, hookManifest, "v5.7.0")
	counter := &countingExecutor{}
	s := newTestStore(t, WithExecutor(counter))
	ctx := context.Background()

	entry, err := s.Ensure(ctx, repo, "v5.7.0")
	require.NoError(t, err)
	assert.Equal(t, repo, entry.Repo)
	assert.Equal(t, "v5.7.0", entry.Rev)
	assert.Equal(t, testutil.GitOutput(t, repo, "rev-parse", "v5.7.0^{commit}"), entry.Commit)
	assert.FileExists(t, filepath.Join(entry.Path, ".pre-commit-hooks.yaml"))
	assert.False(t, entry.FetchedAt.IsZero())

	calls := counter.calls.Load()
	again, err := s.Ensure(ctx, repo, "v5.7.0")
	require.NoError(t, err)
	assert.Equal(t, entry.Path, again.Path)
	assert.Equal(t, calls, counter.calls.Load(), "second Ensure should not run git")
}

func TestEnsureRefetchesMissingCheckout(t *testing.T) {
	repo := testutil.CreateHookRepo(t, hookManifest, "v1.0.0")
	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.Ensure(ctx, repo, "v1.0.0")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(entry.Path))

	entry, err = s.Ensure(ctx, repo, "v1.0.0")
	require.NoError(t, err)
	assert.DirExists(t, entry.Path)
}

func TestEnsureErrors(t *testing.T) {
	testutil.RequireGit(t)
	repo := testutil.CreateHookRepo(t, hookManifest, "v1.0.0")
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	tests := []struct {
		name string
		repo string
		rev  string
		code errors.ErrorCode
	}{
		{"unknown revision", repo, "v9.9.9", errors.ErrCodeRevisionNotFound},
		{"unreachable repository", missing, "v1.0.0", errors.ErrCodeRepoFetchFailed},
		{"option injection in rev", repo, "--upload-pack=touch", errors.ErrCodeInvalidInput},
		{"shell metachar in repo", repo + ";id", "v1.0.0", errors.ErrCodeInvalidInput},
		{"empty rev", repo, "", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.Ensure(context.Background(), tt.repo, tt.rev)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "got %v", err)

			entries, err := s.List()
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestEnsureConcurrent(t *testing.T) {
	repo := testutil.CreateHookRepo(t, hookManifest, "v1.0.0")
	s := newTestStore(t)

	var wg sync.WaitGroup
	paths := make([]string, 4)
	errs := make([]error, 4)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := s.Ensure(context.Background(), repo, "v1.0.0")
			paths[i], errs[i] = entry.Path, err
		}(i)
	}
	wg.Wait()

	for i := range paths {
		require.NoError(t, errs[i])
		assert.Equal(t, paths[0], paths[i])
	}
	entries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListAndClean(t *testing.T) {
	repo := testutil.CreateHookRepo(t, hookManifest, "v1.0.0")
	testutil.RunGitCommand(t, repo, "tag", "v2.0.0")
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, repo, "v2.0.0")
	require.NoError(t, err)
	_, err = s.Ensure(ctx, repo, "v1.0.0")
	require.NoError(t, err)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "v1.0.0", entries[0].Rev)
	assert.Equal(t, "v2.0.0", entries[1].Rev)

	_, ok, err := s.Get(repo, "v1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Clean())
	entries, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	checkouts, err := os.ReadDir(filepath.Join(s.Root(), "repos"))
	require.NoError(t, err)
	assert.Empty(t, checkouts)
}

func TestIndexRecoversFromBackup(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()

	idx := &index{Repos: map[string]Entry{
		Key("example/hooks", "v1"): {Repo: "example/hooks", Rev: "v1", Path: dir},
	}}
	require.NoError(t, s.saveIndex(idx))
	// A second save moves the first index to the backup.
	require.NoError(t, s.saveIndex(idx))
	require.FileExists(t, s.indexPath+".bak")

	require.NoError(t, os.WriteFile(s.indexPath, []byte("{not json"), 0644))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example/hooks", entries[0].Repo)
}

func TestCorruptIndexAndBackup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.indexPath, []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(s.indexPath+".bak", []byte("also not json"), 0644))

	_, err := s.List()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeStoreCorrupt))
}

func TestRemoteURL(t *testing.T) {
	local := t.TempDir()

	tests := []struct {
		in   string
		want string
	}{
		{"pre-commit/mirrors-isort", "https://github.com/pre-commit/mirrors-isort"},
		{"https://github.com/psf/black", "https://github.com/psf/black"},
		{"https://gitlab.com/pycqa/flake8", "https://gitlab.com/pycqa/flake8"},
		{"git@github.com:psf/black.git", "git@github.com:psf/black.git"},
		{local, local},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoteURL(tt.in))
		})
	}
}

func TestLocalPathIsStable(t *testing.T) {
	s := newTestStore(t)

	a := s.localPath("https://github.com/psf/black", "20.8b1")
	b := s.localPath("https://github.com/psf/black", "20.8b1")
	c := s.localPath("https://github.com/psf/black", "21.0")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, filepath.Join(s.Root(), "repos"), filepath.Dir(a))
}
