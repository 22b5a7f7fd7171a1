package git

import (
	"context"
	"os/exec"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRemoteTags(t *testing.T) {
	repo := initTestRepo(t)

	tag := func(name string) {
		t.Helper()
		cmd := exec.Command("git", "tag", name)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git tag %s: %s", name, out)
	}
	tag("v1.0.0")
	tag("v1.2.0")

	// A local path works as a remote for ls-remote.
	tags, err := ListRemoteTags(context.Background(), repo)
	require.NoError(t, err)

	names := make([]string, 0, len(tags))
	for _, tg := range tags {
		names = append(names, tg.Name)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), tg.Commit)
	}
	assert.ElementsMatch(t, []string{"v1.0.0", "v1.2.0"}, names)
}

func TestListRemoteTagsRejectsUnsafeURL(t *testing.T) {
	_, err := ListRemoteTags(context.Background(), "https://example.com; rm -rf /")
	assert.Error(t, err)

	_, err = ListRemoteTags(context.Background(), "--upload-pack=evil")
	assert.Error(t, err)
}

func TestResolveRemoteHead(t *testing.T) {
	repo := initTestRepo(t)

	head, err := ResolveRemoteHead(context.Background(), repo)
	require.NoError(t, err)

	want, err := GetHeadCommit(repo)
	require.NoError(t, err)
	assert.Equal(t, want, head)
}
