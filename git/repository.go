package git

import "context"

// CLIRepository implements RepositoryProvider using git CLI
type CLIRepository struct{}

// Ensure it implements the interface
var _ RepositoryProvider = (*CLIRepository)(nil)

// NewCLIRepository creates a new CLI repository provider
func NewCLIRepository() *CLIRepository {
	return &CLIRepository{}
}

// IsGitRepo checks if a directory is a git repository
func (r *CLIRepository) IsGitRepo(ctx context.Context, dir string) bool {
	return IsGitRepo(ctx, dir)
}

// GetGitRoot returns the root directory of the git repository
func (r *CLIRepository) GetGitRoot(ctx context.Context, dir string) (string, error) {
	return GetGitRoot(ctx, dir)
}

// HooksDir returns the hooks directory of the repository
func (r *CLIRepository) HooksDir(ctx context.Context, dir string) (string, error) {
	return HooksDir(ctx, dir)
}
