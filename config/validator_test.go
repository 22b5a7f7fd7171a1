package config

import (
	"strings"
	"testing"
)

func TestSchemaValidation(t *testing.T) {
	validator, err := NewSchemaValidator()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		config    map[string]interface{}
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid config",
			config: map[string]interface{}{
				"version": "1.0",
				"linker": map[string]interface{}{
					"source_dir": "~/dotfiles",
					"dest_dir":   "~",
				},
			},
			wantError: false,
		},
		{
			name: "extension keys are allowed",
			config: map[string]interface{}{
				"version": "1.0",
				"logging": map[string]interface{}{
					"level": "debug",
				},
			},
			wantError: false,
		},
		{
			name: "version must be a string",
			config: map[string]interface{}{
				"version": 1.0,
			},
			wantError: true,
			errorMsg:  "expected string",
		},
		{
			name: "unknown linker field",
			config: map[string]interface{}{
				"version": "1.0",
				"linker": map[string]interface{}{
					"sourcedir": "~/dotfiles",
				},
			},
			wantError: true,
			errorMsg:  "additionalProperties",
		},
		{
			name: "invalid theme",
			config: map[string]interface{}{
				"version": "1.0",
				"tui": map[string]interface{}{
					"theme": "dracula",
				},
			},
			wantError: true,
			errorMsg:  "value must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.config)
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
