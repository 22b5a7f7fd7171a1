package precommit

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/git"
	"golang.org/x/mod/semver"
)

// RefResolver resolves the newest revision of a remote hook source.
type RefResolver interface {
	LatestRef(ctx context.Context, repoURL string) (string, error)
}

// Change records a single rev rewrite performed by Autoupdate.
type Change struct {
	Repo   string
	OldRev string
	NewRev string
}

// Autoupdate resolves the newest revision for every remote repo entry and
// returns a rewritten copy of the config together with the changes made.
// Local and meta entries are never touched, and the input config is not
// mutated.
func Autoupdate(ctx context.Context, cfg *Config, resolver RefResolver) (*Config, []Change, error) {
	updated := *cfg
	updated.Repos = make([]RepoEntry, len(cfg.Repos))
	copy(updated.Repos, cfg.Repos)

	var changes []Change
	for i := range updated.Repos {
		entry := &updated.Repos[i]
		if entry.IsLocal() {
			continue
		}

		latest, err := resolver.LatestRef(ctx, entry.Repo)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeGitRemoteFailed,
				fmt.Sprintf("failed to resolve latest rev for %s", entry.Repo)).
				WithDetail("repo", entry.Repo)
		}

		if latest == "" || latest == entry.Rev {
			continue
		}

		changes = append(changes, Change{Repo: entry.Repo, OldRev: entry.Rev, NewRev: latest})
		entry.Rev = latest
	}

	return &updated, changes, nil
}

// GitResolver resolves revisions with git ls-remote, preferring the highest
// version tag and falling back to the remote HEAD commit for untagged repos.
type GitResolver struct{}

// LatestRef implements RefResolver.
func (GitResolver) LatestRef(ctx context.Context, repoURL string) (string, error) {
	tags, err := git.ListRemoteTags(ctx, repoURL)
	if err != nil {
		return "", err
	}

	if tag := latestTag(tags); tag != "" {
		return tag, nil
	}

	return git.ResolveRemoteHead(ctx, repoURL)
}

// latestTag picks the highest tag. Tags that parse as (possibly v-less)
// semantic versions win over those that do not; the tag's original spelling
// is returned unchanged.
func latestTag(tags []git.RemoteTag) string {
	var bestSemver, bestOther string
	for _, tag := range tags {
		if c := canonicalVersion(tag.Name); c != "" {
			if bestSemver == "" || semver.Compare(c, canonicalVersion(bestSemver)) > 0 {
				bestSemver = tag.Name
			}
			continue
		}
		if tag.Name > bestOther {
			bestOther = tag.Name
		}
	}

	if bestSemver != "" {
		return bestSemver
	}
	return bestOther
}

func canonicalVersion(tag string) string {
	v := tag
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
