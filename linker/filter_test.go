package linker

import (
	"testing"

	"github.com/dotforge/dotkit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name string
		only []string
		skip []string
		dst  string
		want bool
	}{
		{"no patterns keeps everything", nil, nil, ".bashrc", true},
		{"only direct match", []string{".bashrc"}, nil, ".bashrc", true},
		{"only parent match", []string{".config"}, nil, ".config/nvim/init.lua", true},
		{"only mismatch", []string{".config"}, nil, ".bashrc", false},
		{"only glob", []string{".*rc"}, nil, ".bashrc", true},
		{"skip match", nil, []string{".vimrc"}, ".vimrc", false},
		{"skip miss", nil, []string{".vimrc"}, ".bashrc", true},
		{"skip exception keeps entry", nil, []string{".config", "!.config/nvim"}, ".config/nvim", true},
		{"skip applies without exception", nil, []string{".config", "!.config/nvim"}, ".config/alacritty", false},
		{"only and skip combine", []string{".config"}, []string{".config/secret"}, ".config/secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newFilter(tt.only, tt.skip)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(tt.dst))
		})
	}
}

func TestFilterIllegalPattern(t *testing.T) {
	_, err := newFilter([]string{"!"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = newFilter(nil, []string{"!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
