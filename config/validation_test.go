package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVersion(t *testing.T) {
	testCases := []struct {
		name    string
		version string
		valid   bool
	}{
		{"valid simple", "1.0", true},
		{"valid single digit", "2", true},
		{"valid three part", "1.2.3", true},
		{"empty allowed before defaults", "", true},
		{"invalid with prefix", "v1.0", false},
		{"invalid with suffix", "1.0-beta", false},
		{"invalid text", "latest", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Version: tc.version}
			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	// Valid config
	valid := &Config{
		Version: "1.0",
		Linker: &LinkerConfig{
			SourceDir:     "~/dotfiles",
			DestDir:       "~",
			LocationsFile: "locations.toml",
		},
		Hooks: &HooksConfig{
			Config: ".pre-commit-config.yaml",
			Runner: "pre-commit",
		},
		TUI: &TUIConfig{Theme: "kanagawa"},
	}

	assert.NoError(t, valid.Validate())

	// Absolute locations_file path
	invalid := &Config{
		Version: "1.0",
		Linker: &LinkerConfig{
			LocationsFile: "/etc/locations.toml",
		},
	}
	assert.Error(t, invalid.Validate())

	// Path traversal in locations_file
	invalid = &Config{
		Version: "1.0",
		Linker: &LinkerConfig{
			LocationsFile: "../locations.toml",
		},
	}
	assert.Error(t, invalid.Validate())

	// Path traversal in hooks config
	invalid = &Config{
		Version: "1.0",
		Hooks: &HooksConfig{
			Config: "../../etc/passwd",
		},
	}
	assert.Error(t, invalid.Validate())

	// Unknown theme
	invalid = &Config{
		Version: "1.0",
		TUI:     &TUIConfig{Theme: "dracula"},
	}
	assert.Error(t, invalid.Validate())
}
