package linker

import (
	"reflect"
	"testing"

	"github.com/dotforge/dotkit/state"
)

func TestManifestRoundTrip(t *testing.T) {
	root := t.TempDir()

	records := map[string]Record{
		"/home/u/.bashrc": {
			Source:   "/dotfiles/rcfiles/bashrc",
			Backup:   "/home/u/.bashrc.bkp_0",
			LinkedAt: "2026-08-23T10:00:00Z",
		},
		"/home/u/.obsolete": {
			Backup:   "/home/u/.obsolete.bkp_0",
			LinkedAt: "2026-08-23T10:00:01Z",
		},
	}

	if err := saveManifest(root, records); err != nil {
		t.Fatalf("Failed to save manifest: %v", err)
	}

	loaded, err := loadManifest(root)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if !reflect.DeepEqual(records, loaded) {
		t.Errorf("Manifest round-trip mismatch.\nsaved:  %#v\nloaded: %#v", records, loaded)
	}
}

func TestManifestEmpty(t *testing.T) {
	root := t.TempDir()

	records, err := loadManifest(root)
	if err != nil {
		t.Fatalf("Failed to load missing manifest: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected an empty manifest, got %#v", records)
	}

	// Saving an empty manifest drops the state key entirely.
	if err := saveManifest(root, map[string]Record{"x": {Source: "y"}}); err != nil {
		t.Fatalf("Failed to save manifest: %v", err)
	}
	if err := saveManifest(root, map[string]Record{}); err != nil {
		t.Fatalf("Failed to save empty manifest: %v", err)
	}

	st, err := state.LoadFrom(root)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}
	if _, ok := st[manifestKey]; ok {
		t.Error("Empty manifest should remove the state key")
	}
}
