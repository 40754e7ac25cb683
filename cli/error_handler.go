package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/hookcfg/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a user-friendly message for err and returns it unchanged
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	hookErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ No .pre-commit-config.yaml found. Create one or pass --config.\n")

	case errors.ErrCodeSchemaValidation:
		fmt.Fprintf(out, "❌ Configuration does not match the schema:\n")
		if hookErr != nil && hookErr.Cause != nil {
			fmt.Fprintf(out, "%v\n", hookErr.Cause)
		}

	case errors.ErrCodeConfigValidation, errors.ErrCodeDuplicateHook, errors.ErrCodeConfigInvalid:
		fmt.Fprintf(out, "❌ Invalid configuration: %s\n", message(err))
		if hookErr != nil {
			if repo, ok := hookErr.Details["repo"]; ok {
				fmt.Fprintf(out, "   repo: %v\n", repo)
			}
			if hook, ok := hookErr.Details["hook"]; ok {
				fmt.Fprintf(out, "   hook: %v\n", hook)
			}
		}

	case errors.ErrCodeHookNotFound:
		fmt.Fprintf(out, "❌ %s\n", message(err))
		fmt.Fprintf(out, "Run 'hookcfg hooks' to see the declared hooks, or check the repository's .pre-commit-hooks.yaml.\n")

	case errors.ErrCodeRevisionNotFound, errors.ErrCodeRepoFetchFailed:
		fmt.Fprintf(out, "❌ %s\n", message(err))
		fmt.Fprintf(out, "Check the repo URL and rev, then run 'hookcfg fetch' again.\n")

	case errors.ErrCodeNotGitRepo:
		fmt.Fprintf(out, "❌ Not inside a git repository.\n")

	case errors.ErrCodeGitNotInstalled, errors.ErrCodeCommandNotFound:
		fmt.Fprintf(out, "❌ Required command not found. Make sure git is installed.\n")

	default:
		// Generic error handling
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}

	// If verbose mode, show full error details
	if h.Verbose && hookErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", hookErr.ToJSON())
	}
	return err
}

func message(err error) string {
	if hookErr, ok := errors.As(err); ok {
		return hookErr.Message
	}
	return err.Error()
}
