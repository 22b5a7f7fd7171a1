package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *DotkitError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *DotkitError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// LocationsNotFound creates a locations file not found error
func LocationsNotFound(path string) *DotkitError {
	return New(ErrCodeLocationsNotFound, fmt.Sprintf("locations file not found: %s", path)).
		WithDetail("path", path)
}

// LocationsInvalid creates an invalid locations file error
func LocationsInvalid(path string, reason string) *DotkitError {
	return New(ErrCodeLocationsInvalid, fmt.Sprintf("invalid locations file %s: %s", path, reason)).
		WithDetail("path", path)
}

// LinkConflict creates a link conflict error for a destination that is
// occupied by something other than the expected symlink
func LinkConflict(dst string, reason string) *DotkitError {
	return New(ErrCodeLinkConflict, fmt.Sprintf("cannot link %s: %s", dst, reason)).
		WithDetail("destination", dst)
}

// SourceMissing creates an error for a link source that does not exist
func SourceMissing(src string) *DotkitError {
	return New(ErrCodeSourceMissing, fmt.Sprintf("link source does not exist: %s", src)).
		WithDetail("source", src)
}

// PathEscape creates an error for a path that resolves outside its
// allowed root directory
func PathEscape(path string, root string) *DotkitError {
	return New(ErrCodePathEscape, fmt.Sprintf("path %s escapes %s", path, root)).
		WithDetail("path", path).
		WithDetail("root", root)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *DotkitError {
	dotkitErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		dotkitErr = dotkitErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return dotkitErr
}

// GitNotRepo creates an error for a path that is not inside a git repository
func GitNotRepo(path string) *DotkitError {
	return New(ErrCodeGitNotRepo, fmt.Sprintf("not a git repository: %s", path)).
		WithDetail("path", path)
}
