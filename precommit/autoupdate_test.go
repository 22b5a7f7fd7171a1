package precommit

import (
	"context"
	"fmt"
	"testing"

	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	refs map[string]string
	err  error
}

func (f *fakeResolver) LatestRef(_ context.Context, repoURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.refs[repoURL], nil
}

func TestAutoupdateRewritesRemoteRevs(t *testing.T) {
	cfg := &Config{
		Repos: []RepoEntry{
			{
				Repo:  "https://github.com/pre-commit/pre-commit-hooks",
				Rev:   "v4.5.0",
				Hooks: []Hook{{ID: "check-yaml"}},
			},
			{
				Repo:  "local",
				Hooks: []Hook{{ID: "fmt", Entry: "make fmt", Language: "system"}},
			},
			{
				Repo:  "meta",
				Hooks: []Hook{{ID: "check-useless-excludes"}},
			},
			{
				Repo:  "https://github.com/psf/black",
				Rev:   "24.4.2",
				Hooks: []Hook{{ID: "black"}},
			},
		},
	}

	resolver := &fakeResolver{refs: map[string]string{
		"https://github.com/pre-commit/pre-commit-hooks": "v4.6.0",
		"https://github.com/psf/black":                   "24.4.2",
	}}

	updated, changes, err := Autoupdate(context.Background(), cfg, resolver)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "https://github.com/pre-commit/pre-commit-hooks", changes[0].Repo)
	assert.Equal(t, "v4.5.0", changes[0].OldRev)
	assert.Equal(t, "v4.6.0", changes[0].NewRev)

	assert.Equal(t, "v4.6.0", updated.Repos[0].Rev)
	assert.Equal(t, "", updated.Repos[1].Rev, "local entry must keep no rev")
	assert.Equal(t, "", updated.Repos[2].Rev, "meta entry must keep no rev")
	assert.Equal(t, "24.4.2", updated.Repos[3].Rev, "up-to-date entry must keep its rev")

	// The input config is never mutated.
	assert.Equal(t, "v4.5.0", cfg.Repos[0].Rev)
}

func TestAutoupdateNoChanges(t *testing.T) {
	cfg := &Config{
		Repos: []RepoEntry{
			{Repo: "local", Hooks: []Hook{{ID: "fmt", Entry: "make fmt"}}},
		},
	}

	updated, changes, err := Autoupdate(context.Background(), cfg, &fakeResolver{})
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, cfg.Repos, updated.Repos)
}

func TestAutoupdateResolverFailure(t *testing.T) {
	cfg := &Config{
		Repos: []RepoEntry{
			{Repo: "https://github.com/psf/black", Rev: "24.4.2", Hooks: []Hook{{ID: "black"}}},
		},
	}

	resolver := &fakeResolver{err: fmt.Errorf("ls-remote timed out")}

	updated, changes, err := Autoupdate(context.Background(), cfg, resolver)
	require.Error(t, err)
	assert.Nil(t, updated)
	assert.Nil(t, changes)
	assert.True(t, errors.Is(err, errors.ErrCodeGitRemoteFailed))
	assert.Contains(t, err.Error(), "https://github.com/psf/black")
}

func TestLatestTag(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{
			name: "semver ordering beats lexical ordering",
			tags: []string{"v1.9.0", "v1.10.0", "v1.2.0"},
			want: "v1.10.0",
		},
		{
			name: "original spelling without v prefix is preserved",
			tags: []string{"23.1.0", "24.4.2", "22.12.0"},
			want: "24.4.2",
		},
		{
			name: "version tags win over other tags",
			tags: []string{"list", "v2.0.0", "latest"},
			want: "v2.0.0",
		},
		{
			name: "prerelease of a newer version wins",
			tags: []string{"v4.0.0", "v5.0.0-alpha"},
			want: "v5.0.0-alpha",
		},
		{
			name: "non-version tags fall back to lexical order",
			tags: []string{"release-a", "release-c", "release-b"},
			want: "release-c",
		},
		{
			name: "no tags",
			tags: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := make([]git.RemoteTag, len(tt.tags))
			for i, name := range tt.tags {
				tags[i] = git.RemoteTag{Name: name}
			}
			assert.Equal(t, tt.want, latestTag(tags))
		})
	}
}
