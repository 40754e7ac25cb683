package command

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default command execution timeout
	DefaultTimeout = 2 * time.Minute

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 10 * time.Minute
)

var (
	gitRefRegex  = regexp.MustCompile(`^[a-zA-Z0-9/_.+-]+$`)
	hookIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
	urlSchemeRe  = regexp.MustCompile(`^(https?|ssh|git|file)://[^\s]+$`)
	scpStyleRe   = regexp.MustCompile(`^[a-zA-Z0-9_.-]+@[a-zA-Z0-9_.-]+:[^\s]+$`)
	shellMetaSet = ";|&$`\n"
)

// SafeBuilder provides secure command execution with validation
type SafeBuilder struct {
	defaultTimeout time.Duration
	validators     map[string]func(string) error
	executor       Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		defaultTimeout: DefaultTimeout,
		validators:     makeDefaultValidators(),
		executor:       exec,
	}
}

// makeDefaultValidators returns the default set of validators
func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"fileName": validateFileName,
		"gitRef":   validateGitRef,
		"repoURL":  validateRepoURL,
		"hookID":   validateHookID,
	}
}

// validateFileName ensures file paths are safe
func validateFileName(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	// Prevent directory traversal
	if strings.Contains(path, "..") {
		return fmt.Errorf("file path cannot contain '..'")
	}

	// Prevent command injection via shell metacharacters
	if strings.ContainsAny(path, shellMetaSet) {
		return fmt.Errorf("file path contains invalid characters")
	}

	return nil
}

// validateGitRef ensures git references are safe
func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git ref cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git ref cannot start with '-': %s", ref)
	}
	if strings.Contains(ref, "..") {
		return fmt.Errorf("git ref cannot contain '..': %s", ref)
	}

	// Git refs: alphanumeric, slashes, hyphens, underscores, dots, plus
	if !gitRefRegex.MatchString(ref) {
		return fmt.Errorf("invalid git ref: %s", ref)
	}

	return nil
}

// validateRepoURL accepts URLs, scp-style remotes and plain paths
func validateRepoURL(url string) error {
	if url == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}
	if strings.HasPrefix(url, "-") {
		return fmt.Errorf("repository URL cannot start with '-': %s", url)
	}
	if strings.ContainsAny(url, shellMetaSet+" \t") {
		return fmt.Errorf("repository URL contains invalid characters: %s", url)
	}
	// git remote helpers (ext::, fd::) can execute arbitrary commands
	if strings.Contains(url, "::") {
		return fmt.Errorf("unsupported repository transport: %s", url)
	}
	if strings.Contains(url, "://") && !urlSchemeRe.MatchString(url) {
		return fmt.Errorf("unsupported repository URL: %s", url)
	}
	if strings.Contains(url, "@") && !strings.Contains(url, "://") && !scpStyleRe.MatchString(url) {
		return fmt.Errorf("invalid repository URL: %s", url)
	}
	return nil
}

// validateHookID ensures hook identifiers are plain names
func validateHookID(id string) error {
	if !hookIDRegex.MatchString(id) {
		return fmt.Errorf("invalid hook id: %q", id)
	}
	return nil
}

// Command represents a safe command configuration
type Command struct {
	parent   context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	name     string
	args     []string
	dir      string
	timeout  time.Duration
	executor Executor
}

// Build creates a new command with validation
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	// Validate command name
	if name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, sb.defaultTimeout)

	return &Command{
		parent:   ctx,
		ctx:      timeoutCtx,
		cancel:   cancel,
		name:     name,
		args:     args,
		timeout:  sb.defaultTimeout,
		executor: sb.executor,
	}, nil
}

// WithTimeout sets a custom timeout for the command
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	c.cancel()
	c.ctx, c.cancel = context.WithTimeout(c.parent, timeout)
	c.timeout = timeout
	return c
}

// InDir sets the working directory of the command
func (c *Command) InDir(dir string) *Command {
	c.dir = dir
	return c
}

// String renders the command line for logs and errors
func (c *Command) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	return validator(value)
}

// Exec creates and returns an exec.Cmd. The caller owns the command's
// lifetime; call Release once it has finished.
func (c *Command) Exec() *exec.Cmd {
	cmd := c.executor.CommandContext(c.ctx, c.name, c.args...) //nolint:gosec // SafeBuilder provides validation
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	return cmd
}

// Release frees the command's timeout context.
func (c *Command) Release() {
	c.cancel()
}

// CombinedOutput runs the command and returns stdout and stderr together.
func (c *Command) CombinedOutput() ([]byte, error) {
	defer c.Release()
	return c.Exec().CombinedOutput()
}

// Output runs the command and returns its stdout.
func (c *Command) Output() ([]byte, error) {
	defer c.Release()
	return c.Exec().Output()
}
