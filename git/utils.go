package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotforge/dotkit/command"
)

// IsGitRepo checks if the given directory is inside a git repository
func IsGitRepo(dir string) bool {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	err = execCmd.Run()
	return err == nil
}

// GetGitRoot returns the root directory of the git repository
func GetGitRoot(dir string) (string, error) {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		return "", fmt.Errorf("get git root: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// ResolveRef resolves a git ref (branch name, tag, or commit) to its full commit hash.
// Returns empty string and error if resolution fails.
func ResolveRef(dir, ref string) (string, error) {
	cmdBuilder := command.NewSafeBuilder()
	cmd, err := cmdBuilder.Build(context.Background(), "git", "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolve ref %s: %w", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetHeadCommit returns the current HEAD commit hash for a repository.
func GetHeadCommit(dir string) (string, error) {
	return ResolveRef(dir, "HEAD")
}
