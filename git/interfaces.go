package git

import "context"

// HookProvider defines the interface for git hook operations
type HookProvider interface {
	// Hook management
	InstallHooks(ctx context.Context, repoPath string) error
	UninstallHooks(ctx context.Context, repoPath string) error
}

// RepositoryProvider defines the interface for general git repository operations
type RepositoryProvider interface {
	IsGitRepo(ctx context.Context, dir string) bool
	GetGitRoot(ctx context.Context, dir string) (string, error)
	HooksDir(ctx context.Context, dir string) (string, error)
}
