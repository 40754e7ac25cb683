package store

import (
	"context"
	"strings"

	"github.com/grovetools/hookcfg/errors"
)

// fetch checks out rev of url into dir and returns the resolved commit.
// A shallow fetch of the single revision is tried first; servers that refuse
// to serve it directly get a full fetch followed by a checkout.
func (s *Store) fetch(ctx context.Context, url, rev, dir string) (string, error) {
	if _, err := s.git(ctx, dir, "init", "--quiet"); err != nil {
		return "", errors.FetchFailed(url, err)
	}
	if _, err := s.git(ctx, dir, "remote", "add", "origin", url); err != nil {
		return "", errors.FetchFailed(url, err)
	}

	if _, err := s.git(ctx, dir, "fetch", "--quiet", "--depth", "1", "origin", rev); err == nil {
		if _, err := s.git(ctx, dir, "-c", "advice.detachedHead=false", "checkout", "--quiet", "FETCH_HEAD"); err != nil {
			return "", errors.FetchFailed(url, err)
		}
	} else {
		s.logger.WithError(err).Debug("Shallow fetch failed, falling back to full fetch")
		if _, err := s.git(ctx, dir, "fetch", "--quiet", "--tags", "origin"); err != nil {
			return "", errors.FetchFailed(url, err)
		}
		if _, err := s.git(ctx, dir, "-c", "advice.detachedHead=false", "checkout", "--quiet", rev); err != nil {
			return "", errors.RevisionNotFound(url, rev, err)
		}
	}

	out, err := s.git(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.FetchFailed(url, err)
	}
	return strings.TrimSpace(out), nil
}

func (s *Store) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd, err := s.builder.Build(ctx, "git", args...)
	if err != nil {
		return "", err
	}
	cmd.InDir(dir)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), errors.CommandFailed(cmd.String(), err).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
