package config

import (
	"time"

	"github.com/dlclark/regexp2"
)

// patternTimeout bounds a single match; backtracking patterns can otherwise
// run away on long paths.
const patternTimeout = time.Second

// CompilePattern compiles a files/exclude pattern. The orchestrator uses a
// backtracking engine, so verbose mode (?x), lookarounds and backreferences
// must be accepted.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = patternTimeout
	return re, nil
}

// MatchPattern reports whether re matches anywhere in name. A match that
// times out counts as no match.
func MatchPattern(re *regexp2.Regexp, name string) bool {
	ok, err := re.MatchString(name)
	return err == nil && ok
}
