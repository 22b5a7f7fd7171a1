package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkerConfigDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected LinkerConfig
	}{
		{
			name:   "empty config gets linker defaults",
			config: Config{},
			expected: LinkerConfig{
				DestDir:       "~",
				LocationsFile: "locations.toml",
			},
		},
		{
			name: "source dir preserved",
			config: Config{
				Linker: &LinkerConfig{SourceDir: "~/dotfiles"},
			},
			expected: LinkerConfig{
				SourceDir:     "~/dotfiles",
				DestDir:       "~",
				LocationsFile: "locations.toml",
			},
		},
		{
			name: "custom values preserved",
			config: Config{
				Linker: &LinkerConfig{
					SourceDir:     "~/cfg",
					DestDir:       "/opt/home",
					LocationsFile: "links.toml",
				},
			},
			expected: LinkerConfig{
				SourceDir:     "~/cfg",
				DestDir:       "/opt/home",
				LocationsFile: "links.toml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.SetDefaults()
			assert.Equal(t, tt.expected, *tt.config.Linker)
		})
	}
}

func TestHooksConfigDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected HooksConfig
	}{
		{
			name:   "empty config gets hooks defaults",
			config: Config{},
			expected: HooksConfig{
				Config: ".pre-commit-config.yaml",
				Runner: "pre-commit",
			},
		},
		{
			name: "custom runner preserved",
			config: Config{
				Hooks: &HooksConfig{Runner: "prek"},
			},
			expected: HooksConfig{
				Config: ".pre-commit-config.yaml",
				Runner: "prek",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.SetDefaults()
			assert.Equal(t, tt.expected, *tt.config.Hooks)
		})
	}
}

func TestVersionDefault(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Equal(t, "1.0", cfg.Version)

	cfg = Config{Version: "2.1"}
	cfg.SetDefaults()
	assert.Equal(t, "2.1", cfg.Version)
}
