package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the base JSON Schema for the core dotkit configuration.
// It reflects the Config struct from types.go but excludes the 'Extensions' field,
// which will be handled by schema composition.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Do not allow unknown fields, extensions will be added explicitly during composition.
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// Create a temporary struct that omits the Extensions field
	// so it's not included in the base schema.
	type BaseConfig struct {
		Name    string        `yaml:"name,omitempty" jsonschema:"description=Name of the configuration"`
		Version string        `yaml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Editor  string        `yaml:"editor,omitempty" jsonschema:"description=Editor command used by 'dotkit edit'"`
		Linker  *LinkerConfig `yaml:"linker,omitempty" jsonschema:"description=Configuration for the symlink installer"`
		Hooks   *HooksConfig  `yaml:"hooks,omitempty" jsonschema:"description=Configuration for pre-commit hook management"`
		TUI     *TUIConfig    `yaml:"tui,omitempty" jsonschema:"description=Terminal UI settings"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "dotkit Configuration"
	schema.Description = "Base schema for core dotkit.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
