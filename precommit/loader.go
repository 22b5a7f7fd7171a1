package precommit

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/pkg/profiling"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the conventional file name of the hook-runner config.
const DefaultConfigName = ".pre-commit-config.yaml"

// Load reads and parses a hook-runner configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read hook config").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		if dotErr, ok := err.(*errors.DotkitError); ok {
			return nil, dotErr.WithDetail("path", path)
		}
		return nil, err
	}

	return cfg, nil
}

// LoadFromBytes parses a hook-runner configuration document.
//
// Parsing happens in two phases: the document is first read into a yaml.Node
// tree and validated structurally, so every violation reports the offending
// line and field path; only then is the tree decoded into the pure-data
// Config, which keeps loaded configs comparable and round-trippable.
func LoadFromBytes(data []byte) (*Config, error) {
	defer profiling.Start("precommit.LoadFromBytes").Stop()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse hook config YAML")
	}

	// An empty or null document is an empty config.
	if isEmptyDocument(&root) {
		return &Config{Repos: []RepoEntry{}}, nil
	}

	if err := validateTree(&root); err != nil {
		return nil, err
	}

	var cfg Config
	if err := root.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode hook config")
	}

	// Missing sequences normalize to empty so a load/save cycle is stable.
	if cfg.Repos == nil {
		cfg.Repos = []RepoEntry{}
	}
	for i := range cfg.Repos {
		if cfg.Repos[i].Hooks == nil {
			cfg.Repos[i].Hooks = []Hook{}
		}
	}

	// Backstop: the embedded JSON Schema catches shape errors in blocks the
	// tree walk does not inspect (ci, typed hook fields).
	var generic map[string]interface{}
	if err := root.Decode(&generic); err == nil {
		if err := validateSchema(generic); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "hook config failed schema validation")
		}
	}

	return &cfg, nil
}

// Marshal serializes a configuration back to YAML with two-space indentation,
// the convention of hand-written hook configs. Repos and hooks are emitted in
// document order, so a load/marshal cycle produces reproducible diffs.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal hook config")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to finalize hook config")
	}
	return buf.Bytes(), nil
}

// Save writes a configuration to path.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write hook config").
			WithDetail("path", path)
	}

	return nil
}

func isEmptyDocument(root *yaml.Node) bool {
	if root.Kind == 0 || len(root.Content) == 0 {
		return true
	}
	if root.Kind == yaml.DocumentNode {
		doc := root.Content[0]
		return doc.Kind == yaml.ScalarNode && doc.Tag == "!!null"
	}
	return false
}

// validateTree walks the parsed node tree and checks the structural rules
// before anything is decoded. Violations carry the document line and the
// field path of the offending node.
func validateTree(root *yaml.Node) error {
	doc := root
	if doc.Kind == yaml.DocumentNode {
		doc = doc.Content[0]
	}

	if doc.Kind != yaml.MappingNode {
		return validationErrorf(doc, "", "top-level document must be a mapping")
	}

	for i := 0; i < len(doc.Content)-1; i += 2 {
		key := doc.Content[i]
		value := doc.Content[i+1]

		switch key.Value {
		case "repos":
			if err := validateRepos(value); err != nil {
				return err
			}
		case "exclude":
			if err := validatePattern(value, "exclude"); err != nil {
				return err
			}
		case "minimum_version":
			if value.Kind != yaml.ScalarNode {
				return validationErrorf(value, "minimum_version", `"minimum_version" must be a string`)
			}
		}
	}

	return nil
}

func validateRepos(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return validationErrorf(node, "repos", `"repos" must be a sequence`)
	}

	for i, entry := range node.Content {
		field := fmt.Sprintf("repos[%d]", i)

		if entry.Kind != yaml.MappingNode {
			return validationErrorf(entry, field, "%s must be a mapping", field)
		}

		var repoNode, revNode, hooksNode *yaml.Node
		for j := 0; j < len(entry.Content)-1; j += 2 {
			switch entry.Content[j].Value {
			case "repo":
				repoNode = entry.Content[j+1]
			case "rev":
				revNode = entry.Content[j+1]
			case "hooks":
				hooksNode = entry.Content[j+1]
			}
		}

		if repoNode == nil {
			return validationErrorf(entry, field, `%s: missing required field "repo"`, field)
		}
		if repoNode.Kind != yaml.ScalarNode {
			return validationErrorf(repoNode, field+".repo", `%s: "repo" must be a string`, field)
		}
		if repoNode.Value == "" {
			return validationErrorf(repoNode, field, `%s: missing required field "repo"`, field)
		}

		if revNode != nil && revNode.Kind != yaml.ScalarNode {
			return validationErrorf(revNode, field+".rev", `%s: "rev" must be a string`, field)
		}

		repo := repoNode.Value
		local := repo == LocalRepo || repo == MetaRepo
		if !local && (revNode == nil || revNode.Value == "") {
			return validationErrorf(entry, field, `%s (%s): missing required field "rev"`, field, repo)
		}

		if hooksNode != nil {
			if err := validateHooks(hooksNode, field); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateHooks(node *yaml.Node, parent string) error {
	if node.Kind != yaml.SequenceNode {
		return validationErrorf(node, parent+".hooks", `%s: "hooks" must be a sequence`, parent)
	}

	for i, hook := range node.Content {
		field := fmt.Sprintf("%s.hooks[%d]", parent, i)

		if hook.Kind != yaml.MappingNode {
			return validationErrorf(hook, field, "%s must be a mapping", field)
		}

		var idNode *yaml.Node
		for j := 0; j < len(hook.Content)-1; j += 2 {
			key := hook.Content[j]
			value := hook.Content[j+1]

			switch key.Value {
			case "id":
				idNode = value
			case "args":
				if err := validateArgs(value, field); err != nil {
					return err
				}
			case "files", "exclude":
				if err := validatePattern(value, field+"."+key.Value); err != nil {
					return err
				}
			}
		}

		if idNode == nil {
			return validationErrorf(hook, field, `%s: missing required field "id"`, field)
		}
		if idNode.Kind != yaml.ScalarNode {
			return validationErrorf(idNode, field+".id", `%s: "id" must be a string`, field)
		}
		if idNode.Value == "" {
			return validationErrorf(idNode, field, `%s: missing required field "id"`, field)
		}
	}

	return nil
}

func validateArgs(node *yaml.Node, parent string) error {
	field := parent + ".args"

	if node.Kind != yaml.SequenceNode {
		return validationErrorf(node, field, `%s: "args" must be a sequence of strings`, parent)
	}

	for _, arg := range node.Content {
		if arg.Kind != yaml.ScalarNode {
			return validationErrorf(arg, field, `%s: "args" must be a sequence of strings`, parent)
		}
		if arg.Tag != "!!str" {
			return validationErrorf(arg, field, `%s: "args" entries must be strings, got %s`, parent, describeTag(arg.Tag))
		}
	}

	return nil
}

func validatePattern(node *yaml.Node, field string) error {
	if node.Kind != yaml.ScalarNode {
		return validationErrorf(node, field, "%s must be a string pattern", field)
	}

	if _, err := regexp.Compile(node.Value); err != nil {
		return validationErrorf(node, field, "%s is not a valid regular expression: %v", field, err)
	}

	return nil
}

func validationErrorf(node *yaml.Node, field, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	if node != nil && node.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, node.Line)
	}

	err := errors.New(errors.ErrCodeConfigValidation, msg)
	if node != nil && node.Line > 0 {
		err = err.WithDetail("line", node.Line)
	}
	if field != "" {
		err = err.WithDetail("field", field)
	}
	return err
}

func describeTag(tag string) string {
	switch tag {
	case "!!int":
		return "an integer"
	case "!!float":
		return "a number"
	case "!!bool":
		return "a boolean"
	case "!!null":
		return "null"
	default:
		return tag
	}
}
