package linker

import (
	"fmt"

	"github.com/dotforge/dotkit/state"
	"github.com/mitchellh/mapstructure"
)

// manifestKey is the state namespace for install records.
const manifestKey = "linker.manifest"

// Record captures one applied locations entry so restore can undo it.
// Records are keyed by absolute destination path in the state file.
type Record struct {
	Source   string `yaml:"source"`
	Backup   string `yaml:"backup,omitempty"`
	LinkedAt string `yaml:"linked_at"`
}

// loadManifest reads the install records from the state file next to the
// sources. The generic state value is decoded back into typed records.
func loadManifest(root string) (map[string]Record, error) {
	st, err := state.LoadFrom(root)
	if err != nil {
		return nil, err
	}

	raw, ok := st[manifestKey]
	if !ok {
		return map[string]Record{}, nil
	}

	var records map[string]Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &records,
		TagName: "yaml",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode link manifest: %w", err)
	}
	if records == nil {
		records = map[string]Record{}
	}

	return records, nil
}

// saveManifest writes the install records back, dropping the key entirely
// when nothing is recorded.
func saveManifest(root string, records map[string]Record) error {
	st, err := state.LoadFrom(root)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		delete(st, manifestKey)
	} else {
		st[manifestKey] = records
	}

	return state.SaveTo(root, st)
}
