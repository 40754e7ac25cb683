package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/hookcfg/command"
	"github.com/grovetools/hookcfg/errors"
)

// IsGitRepo checks if the given directory is inside a git repository
func IsGitRepo(ctx context.Context, dir string) bool {
	_, err := run(ctx, dir, "rev-parse", "--git-dir")
	return err == nil
}

// GetGitRoot returns the root directory of the git repository
func GetGitRoot(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeNotGitRepo, "not a git repository").
			WithDetail("dir", dir)
	}
	return out, nil
}

// HooksDir returns the directory git reads hooks from. It honours
// core.hooksPath and resolves correctly inside worktrees.
func HooksDir(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeNotGitRepo, "not a git repository").
			WithDetail("dir", dir)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	return out, nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd, err := command.NewSafeBuilder().Build(ctx, "git", args...)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	output, err := cmd.InDir(dir).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ListFiles returns the paths tracked by git under dir, relative to dir.
func ListFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := run(ctx, dir, "ls-files")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotGitRepo, "failed to list tracked files").
			WithDetail("dir", dir)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
