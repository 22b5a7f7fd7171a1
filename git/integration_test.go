//go:build integration
// +build integration

package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotforge/dotkit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTaggedRepo creates a real repository with two commits tagged v1.0.0
// and v1.1.0.
func initTaggedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	testutil.InitGitRepo(t, dir)
	testutil.CreateTag(t, dir, "v1.0.0")

	testutil.CreateCommit(t, dir, "notes.txt", "two\n")
	testutil.CreateTag(t, dir, "v1.1.0")

	return dir
}

func TestListRemoteTagsAgainstLocalRepo(t *testing.T) {
	dir := initTaggedRepo(t)

	tags, err := ListRemoteTags(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	names := map[string]bool{}
	for _, tag := range tags {
		names[tag.Name] = true
		assert.Len(t, tag.Commit, 40)
	}
	assert.True(t, names["v1.0.0"])
	assert.True(t, names["v1.1.0"])
}

func TestResolveRemoteHeadAgainstLocalRepo(t *testing.T) {
	dir := initTaggedRepo(t)

	head, err := ResolveRemoteHead(context.Background(), dir)
	require.NoError(t, err)

	local, err := GetHeadCommit(dir)
	require.NoError(t, err)
	assert.Equal(t, local, head)
}

func TestGitRootFromSubdirectory(t *testing.T) {
	dir := initTaggedRepo(t)
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := GetGitRoot(sub)
	require.NoError(t, err)

	// Resolve symlinks so macOS /tmp vs /private/tmp compares equal.
	wantRoot, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)

	assert.True(t, IsGitRepo(sub))
	assert.False(t, IsGitRepo(t.TempDir()))
}

func TestResolveRefTagAndHead(t *testing.T) {
	dir := initTaggedRepo(t)

	head, err := GetHeadCommit(dir)
	require.NoError(t, err)

	tagCommit, err := ResolveRef(dir, "v1.1.0")
	require.NoError(t, err)
	assert.Equal(t, head, tagCommit)

	older, err := ResolveRef(dir, "v1.0.0")
	require.NoError(t, err)
	assert.NotEqual(t, head, older)

	_, err = ResolveRef(dir, "does-not-exist")
	assert.Error(t, err)
}
