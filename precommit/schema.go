package precommit

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/dotforge/dotkit/schema"
	"github.com/invopop/jsonschema"
)

//go:embed precommit.embedded.schema.json
var embeddedSchemaData []byte

var (
	embeddedValidator     *schema.Validator
	embeddedValidatorErr  error
	embeddedValidatorOnce sync.Once
)

// validateSchema checks a decoded document against the embedded JSON Schema.
func validateSchema(doc interface{}) error {
	embeddedValidatorOnce.Do(func() {
		embeddedValidator, embeddedValidatorErr = schema.NewValidatorFromBytes("precommit.json", embeddedSchemaData)
	})
	if embeddedValidatorErr != nil {
		return embeddedValidatorErr
	}
	return embeddedValidator.Validate(doc)
}

// GenerateSchema generates the JSON Schema for the hook-runner configuration.
// The checked-in precommit.embedded.schema.json is regenerated from this by
// tools/hooks-schema-generator.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Hook configs carry tool-specific keys beyond the typed model.
		AllowAdditionalProperties: true,
		// Expand the root struct instead of using $ref.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A temporary struct marks repos optional: a document without a repos
	// key loads as an empty config rather than failing validation.
	type baseConfig struct {
		MinimumVersion string      `yaml:"minimum_version,omitempty" jsonschema:"description=Minimum hook-runner version this config requires"`
		Exclude        string      `yaml:"exclude,omitempty" jsonschema:"description=Global filename pattern excluded from all hooks"`
		CI             *CIConfig   `yaml:"ci,omitempty" jsonschema:"description=pre-commit.ci service settings"`
		Repos          []RepoEntry `yaml:"repos,omitempty" jsonschema:"description=Hook sources in document order"`
	}

	s := r.Reflect(&baseConfig{})
	s.Title = "Hook Runner Configuration"
	s.Description = "Schema for .pre-commit-config.yaml hook configuration files."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}
