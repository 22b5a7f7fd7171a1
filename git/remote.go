package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotforge/dotkit/command"
)

// RemoteTag is a single tag advertised by a remote repository.
type RemoteTag struct {
	Name   string
	Commit string
}

// ListRemoteTags queries a remote repository for its tags without cloning it.
// Peeled tag entries (refs/tags/v1.0.0^{}) are skipped.
func ListRemoteTags(ctx context.Context, url string) ([]RemoteTag, error) {
	cmdBuilder := command.NewSafeBuilder()
	if err := cmdBuilder.Validate("repoURL", url); err != nil {
		return nil, err
	}

	cmd, err := cmdBuilder.Build(ctx, "git", "ls-remote", "--tags", "--refs", url)
	if err != nil {
		return nil, fmt.Errorf("failed to build command: %w", err)
	}
	output, err := cmd.Exec().Output()
	if err != nil {
		return nil, fmt.Errorf("ls-remote %s: %w", url, err)
	}

	var tags []RemoteTag
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimPrefix(fields[1], "refs/tags/")
		tags = append(tags, RemoteTag{Name: name, Commit: fields[0]})
	}

	return tags, nil
}

// ResolveRemoteHead returns the commit hash of a remote repository's HEAD.
func ResolveRemoteHead(ctx context.Context, url string) (string, error) {
	cmdBuilder := command.NewSafeBuilder()
	if err := cmdBuilder.Validate("repoURL", url); err != nil {
		return "", err
	}

	cmd, err := cmdBuilder.Build(ctx, "git", "ls-remote", url, "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	output, err := cmd.Exec().Output()
	if err != nil {
		return "", fmt.Errorf("ls-remote %s: %w", url, err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 && fields[1] == "HEAD" {
			return fields[0], nil
		}
	}

	return "", fmt.Errorf("remote %s did not advertise a HEAD", url)
}
