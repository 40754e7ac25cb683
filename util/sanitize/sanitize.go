// Package sanitize turns arbitrary strings into safe file system names.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// separatorReplacer maps URL and path separators to underscores
	separatorReplacer = strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"@", "_",
		" ", "_",
	)

	// unsafeRegex matches characters outside the portable file name set
	unsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

	// multiUnderscoreRegex matches multiple consecutive underscores
	multiUnderscoreRegex = regexp.MustCompile(`_+`)
)

// maxDirName keeps generated names well under common file name limits.
const maxDirName = 80

// ForDirName sanitizes s for use as a single directory name. The result
// contains only letters, digits, dots, hyphens and underscores, never starts
// with a dot, and is at most maxDirName bytes long.
func ForDirName(s string) string {
	if s == "" {
		return ""
	}

	s = separatorReplacer.Replace(s)
	s = unsafeRegex.ReplaceAllString(s, "_")
	s = multiUnderscoreRegex.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")

	if len(s) > maxDirName {
		s = strings.TrimRight(s[:maxDirName], "_.")
	}
	return s
}

// ForRepoDir derives a readable directory name from a repository URL or
// path: scheme and .git suffix are dropped before sanitizing.
func ForRepoDir(repo string) string {
	if i := strings.Index(repo, "://"); i >= 0 {
		repo = repo[i+3:]
	}
	repo = strings.TrimSuffix(strings.TrimRight(repo, "/"), ".git")
	return ForDirName(repo)
}
