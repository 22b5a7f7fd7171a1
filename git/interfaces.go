package git

import "context"

// HookProvider defines the interface for git hook operations
type HookProvider interface {
	// Hook management
	InstallHooks(ctx context.Context, repoPath string) error
	UninstallHooks(ctx context.Context, repoPath string) error
}
