package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"
//go:generate sh -c "cd .. && go run ./tools/schema-composer/"

// LinkerConfig configures where `dotkit link` reads sources from and
// installs links into.
type LinkerConfig struct {
	SourceDir     string `yaml:"source_dir,omitempty" jsonschema:"description=Directory containing the dotfiles to link from"`
	DestDir       string `yaml:"dest_dir,omitempty" jsonschema:"description=Directory links are installed into (default: home directory)"`
	LocationsFile string `yaml:"locations_file,omitempty" jsonschema:"description=Name of the locations file inside the source directory (default: locations.toml)"`
}

// HooksConfig configures the managed hook-runner configuration file.
type HooksConfig struct {
	Config string `yaml:"config,omitempty" jsonschema:"description=Path to the hook runner configuration file (default: .pre-commit-config.yaml)"`
	Runner string `yaml:"runner,omitempty" jsonschema:"description=Hook runner binary the git hook shim delegates to (default: pre-commit)"`
}

// TUIConfig holds appearance settings for interactive commands.
type TUIConfig struct {
	Theme string `yaml:"theme,omitempty" jsonschema:"description=Color theme: kanagawa, gruvbox, or terminal"`
	Icons string `yaml:"icons,omitempty" jsonschema:"description=Icon set: nerd (default) or ascii"`
}

// Config represents the dotkit.yml configuration
type Config struct {
	Name    string `yaml:"name,omitempty" jsonschema:"description=Name of this dotfiles project"`
	Version string `yaml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Editor  string `yaml:"editor,omitempty" jsonschema:"description=Editor command used by dotkit edit (default: $EDITOR)"`

	Linker *LinkerConfig `yaml:"linker,omitempty" jsonschema:"description=Symlink installation settings"`
	Hooks  *HooksConfig  `yaml:"hooks,omitempty" jsonschema:"description=Hook configuration management settings"`
	TUI    *TUIConfig    `yaml:"tui,omitempty" jsonschema:"description=TUI appearance settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// UnmarshalYAML implements custom YAML unmarshaling to handle backward
// compatibility with the old flat configuration format.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	// Capture the data including legacy fields.
	type rawConfig struct {
		Name       string                 `yaml:"name,omitempty"`
		Version    string                 `yaml:"version"`
		Editor     string                 `yaml:"editor,omitempty"`
		Linker     *LinkerConfig          `yaml:"linker,omitempty"`
		Hooks      *HooksConfig           `yaml:"hooks,omitempty"`
		TUI        *TUIConfig             `yaml:"tui,omitempty"`
		Extensions map[string]interface{} `yaml:",inline"`

		// --- Legacy Fields for Backward Compatibility ---
		DotfilesDir string `yaml:"dotfiles_dir,omitempty"` // Old top-level source directory
	}

	var raw rawConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.Name = raw.Name
	c.Version = raw.Version
	c.Editor = raw.Editor
	c.Linker = raw.Linker
	c.Hooks = raw.Hooks
	c.TUI = raw.TUI
	c.Extensions = raw.Extensions

	// Migrate old `dotfiles_dir` key to `linker.source_dir`
	if raw.DotfilesDir != "" {
		if c.Linker == nil {
			c.Linker = &LinkerConfig{}
		}
		if c.Linker.SourceDir == "" {
			c.Linker.SourceDir = raw.DotfilesDir
		}
	}

	return nil
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}

	if c.Linker == nil {
		c.Linker = &LinkerConfig{}
	}
	if c.Linker.DestDir == "" {
		c.Linker.DestDir = "~"
	}
	if c.Linker.LocationsFile == "" {
		c.Linker.LocationsFile = "locations.toml"
	}

	if c.Hooks == nil {
		c.Hooks = &HooksConfig{}
	}
	if c.Hooks.Config == "" {
		c.Hooks.Config = ".pre-commit-config.yaml"
	}
	if c.Hooks.Runner == "" {
		c.Hooks.Runner = "pre-commit"
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded dotkit.yml into the provided target struct. The target must be a pointer.
// This provides a type-safe way for subsystems to access their
// custom configuration sections.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
