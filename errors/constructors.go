package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *HookError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *HookError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SchemaInvalid wraps a schema validation failure
func SchemaInvalid(err error) *HookError {
	return Wrap(err, ErrCodeSchemaValidation, "configuration does not match schema")
}

// DuplicateHook creates an error for a hook id declared twice in one repo
func DuplicateHook(repo, id string) *HookError {
	return New(ErrCodeDuplicateHook, fmt.Sprintf("hook '%s' is declared more than once for %s", id, repo)).
		WithDetail("repo", repo).
		WithDetail("hook", id)
}

// HookNotFound creates an error for a hook id missing from a repository manifest
func HookNotFound(repo, rev, id string) *HookError {
	return New(ErrCodeHookNotFound, fmt.Sprintf("hook '%s' is not present in %s at %s", id, repo, rev)).
		WithDetail("repo", repo).
		WithDetail("rev", rev).
		WithDetail("hook", id)
}

// RevisionNotFound creates an error for a revision that cannot be fetched
func RevisionNotFound(repo, rev string, err error) *HookError {
	return Wrap(err, ErrCodeRevisionNotFound, fmt.Sprintf("revision '%s' not found in %s", rev, repo)).
		WithDetail("repo", repo).
		WithDetail("rev", rev)
}

// FetchFailed creates a repository fetch failure error
func FetchFailed(repo string, err error) *HookError {
	return Wrap(err, ErrCodeRepoFetchFailed, fmt.Sprintf("failed to fetch %s", repo)).
		WithDetail("repo", repo)
}

// ManifestInvalid creates an invalid hook manifest error
func ManifestInvalid(path, reason string) *HookError {
	return New(ErrCodeManifestInvalid, fmt.Sprintf("invalid hook manifest %s: %s", path, reason)).
		WithDetail("path", path)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *HookError {
	hookErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		hookErr = hookErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return hookErr
}
