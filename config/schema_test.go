package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	if err != nil {
		t.Fatal(err)
	}

	// Verify it's valid JSON
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}

	// Test basic structure
	if parsed["$schema"] != "http://json-schema.org/draft-07/schema#" {
		t.Errorf("expected JSON Schema draft-07, got %v", parsed["$schema"])
	}

	if parsed["type"] != "object" {
		t.Errorf("expected root type to be object, got %v", parsed["type"])
	}

	if parsed["title"] != "dotkit Configuration" {
		t.Errorf("expected title 'dotkit Configuration', got %v", parsed["title"])
	}

	// Test properties exist
	properties, ok := parsed["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("expected properties to be defined")
	}

	for _, prop := range []string{"name", "version", "editor", "linker", "hooks", "tui"} {
		if _, ok := properties[prop]; !ok {
			t.Errorf("expected property '%s' in schema", prop)
		}
	}

	// The Extensions field must not leak into the base schema
	if _, ok := properties["Extensions"]; ok {
		t.Error("Extensions field should not appear in the base schema")
	}
}

func TestGenerateSchemaLinkerProperties(t *testing.T) {
	data, err := GenerateSchema()
	if err != nil {
		t.Fatal(err)
	}

	var parsed struct {
		Defs map[string]struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"$defs"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}

	linker, ok := parsed.Defs["LinkerConfig"]
	if !ok {
		t.Fatal("expected LinkerConfig definition")
	}

	for _, prop := range []string{"source_dir", "dest_dir", "locations_file"} {
		if _, ok := linker.Properties[prop]; !ok {
			t.Errorf("expected linker property '%s'", prop)
		}
	}
}
