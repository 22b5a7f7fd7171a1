package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotforge/dotkit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLocations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultLocationsName)

	content := `# Link destination = link source
".bashrc" = "rcfiles/bashrc"
".config/nvim" = "config/nvim"
".local/bin/tool" = "scripts/tool.sh"
# Empty string means remove the file (with backup)
".oldfile" = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	locations, err := ReadLocations(path)
	require.NoError(t, err)

	assert.Len(t, locations, 4)
	assert.Equal(t, "rcfiles/bashrc", locations[".bashrc"])
	assert.Equal(t, "config/nvim", locations[".config/nvim"])
	assert.Equal(t, "", locations[".oldfile"])

	assert.Equal(t,
		[]string{".bashrc", ".config/nvim", ".local/bin/tool", ".oldfile"},
		locations.SortedDests())
}

func TestReadLocationsMissingFile(t *testing.T) {
	_, err := ReadLocations(filepath.Join(t.TempDir(), DefaultLocationsName))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLocationsNotFound))
}

func TestReadLocationsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"non-string value", `".bashrc" = 42`},
		{"nested table", "[colors]\nfg = \"red\"\n"},
		{"broken syntax", `".bashrc" = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, DefaultLocationsName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := ReadLocations(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeLocationsInvalid))
		})
	}
}
