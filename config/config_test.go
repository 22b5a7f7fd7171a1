package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestExtensions verifies that custom extensions in dotkit.yml are properly loaded
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
linker:
  source_dir: ~/dotfiles

# Extension fields for the logging subsystem
logging:
  level: debug
  format: json

# Extension fields from another hypothetical tool
monitoring:
  enabled: true
  interval: 30
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify extensions were captured
	if cfg.Extensions == nil {
		t.Fatal("Extensions map should not be nil")
	}

	// Test logging extension
	loggingExt, ok := cfg.Extensions["logging"]
	if !ok {
		t.Fatal("Expected 'logging' extension to be present")
	}

	// Test UnmarshalExtension for logging
	type LoggingConfig struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}

	var logCfg LoggingConfig
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		t.Fatalf("Failed to unmarshal logging extension: %v", err)
	}

	if logCfg.Level != "debug" {
		t.Errorf("Expected level to be 'debug', got '%s'", logCfg.Level)
	}

	if logCfg.Format != "json" {
		t.Errorf("Expected format to be 'json', got '%s'", logCfg.Format)
	}

	// Test monitoring extension
	monitoringExt, ok := cfg.Extensions["monitoring"]
	if !ok {
		t.Fatal("Expected 'monitoring' extension to be present")
	}

	// Test UnmarshalExtension for monitoring
	type MonitoringConfig struct {
		Enabled  bool `yaml:"enabled"`
		Interval int  `yaml:"interval"`
	}

	var monCfg MonitoringConfig
	if err := cfg.UnmarshalExtension("monitoring", &monCfg); err != nil {
		t.Fatalf("Failed to unmarshal monitoring extension: %v", err)
	}

	if !monCfg.Enabled {
		t.Error("Expected monitoring to be enabled")
	}

	if monCfg.Interval != 30 {
		t.Errorf("Expected interval to be 30, got %d", monCfg.Interval)
	}

	// Test non-existent extension (should not error)
	type UnknownConfig struct {
		SomeField string `yaml:"some_field"`
	}

	var unknownCfg UnknownConfig
	if err := cfg.UnmarshalExtension("unknown", &unknownCfg); err != nil {
		t.Fatalf("UnmarshalExtension should not error for non-existent keys: %v", err)
	}

	// unknownCfg should remain zero-valued
	if unknownCfg.SomeField != "" {
		t.Errorf("Expected SomeField to be empty for non-existent extension")
	}

	// Verify that logging extension is a map
	if _, ok := loggingExt.(map[string]interface{}); !ok {
		t.Errorf("Expected logging extension to be a map[string]interface{}, got %T", loggingExt)
	}

	// Verify that monitoring extension is a map
	if _, ok := monitoringExt.(map[string]interface{}); !ok {
		t.Errorf("Expected monitoring extension to be a map[string]interface{}, got %T", monitoringExt)
	}
}

// TestBackwardCompatibilityDotfilesDir verifies that the old top-level
// "dotfiles_dir" key is automatically migrated to "linker.source_dir"
func TestBackwardCompatibilityDotfilesDir(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected string // expected linker.source_dir
	}{
		{
			name: "old dotfiles_dir key",
			yaml: `
version: "1.0"
dotfiles_dir: ~/old-dotfiles
`,
			expected: "~/old-dotfiles",
		},
		{
			name: "new linker.source_dir key",
			yaml: `
version: "1.0"
linker:
  source_dir: ~/new-dotfiles
`,
			expected: "~/new-dotfiles",
		},
		{
			name: "both keys present (linker.source_dir wins)",
			yaml: `
version: "1.0"
dotfiles_dir: ~/old-dotfiles
linker:
  source_dir: ~/new-dotfiles
`,
			expected: "~/new-dotfiles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromBytes([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			if cfg.Linker == nil {
				t.Fatal("Expected linker section to be present")
			}

			if cfg.Linker.SourceDir != tt.expected {
				t.Errorf("Expected source_dir '%s', got '%s'", tt.expected, cfg.Linker.SourceDir)
			}
		})
	}
}

// TestExtensionsDoNotInterfereWithCoreConfig verifies that extensions don't break core config parsing
func TestExtensionsDoNotInterfereWithCoreConfig(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
editor: nvim
linker:
  source_dir: ~/dotfiles
  dest_dir: ~

# Custom extension
custom:
  feature: enabled
  config:
    nested: true
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify core config is properly loaded
	if cfg.Version != "1.0" {
		t.Errorf("Expected version '1.0', got '%s'", cfg.Version)
	}

	if cfg.Editor != "nvim" {
		t.Errorf("Expected editor 'nvim', got '%s'", cfg.Editor)
	}

	if cfg.Linker == nil || cfg.Linker.SourceDir != "~/dotfiles" {
		t.Errorf("Expected linker.source_dir '~/dotfiles', got %+v", cfg.Linker)
	}

	// Verify custom extension is captured
	if _, ok := cfg.Extensions["custom"]; !ok {
		t.Error("Expected 'custom' extension to be present")
	}

	// Core sections must not leak into the extensions map
	if _, ok := cfg.Extensions["linker"]; ok {
		t.Error("Expected 'linker' to be parsed as core config, not an extension")
	}
}

// TestDefaultsApplied verifies that LoadFromBytes fills in defaults after parsing
func TestDefaultsApplied(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
linker:
  source_dir: ~/dotfiles
`))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Version != "1.0" {
		t.Errorf("Expected default version '1.0', got '%s'", cfg.Version)
	}

	if cfg.Linker.DestDir != "~" {
		t.Errorf("Expected default dest_dir '~', got '%s'", cfg.Linker.DestDir)
	}

	if cfg.Linker.LocationsFile != "locations.toml" {
		t.Errorf("Expected default locations_file 'locations.toml', got '%s'", cfg.Linker.LocationsFile)
	}

	if cfg.Hooks == nil {
		t.Fatal("Expected hooks section to be defaulted")
	}

	if cfg.Hooks.Config != ".pre-commit-config.yaml" {
		t.Errorf("Expected default hooks.config '.pre-commit-config.yaml', got '%s'", cfg.Hooks.Config)
	}

	if cfg.Hooks.Runner != "pre-commit" {
		t.Errorf("Expected default hooks.runner 'pre-commit', got '%s'", cfg.Hooks.Runner)
	}
}

// TestEnvVarExpansion verifies ${VAR} and ${VAR:-default} expansion in config files
func TestEnvVarExpansion(t *testing.T) {
	t.Setenv("DOTKIT_TEST_SRC", "/tmp/my-dotfiles")

	cfg, err := LoadFromBytes([]byte(`
version: "1.0"
linker:
  source_dir: ${DOTKIT_TEST_SRC}
  dest_dir: ${DOTKIT_TEST_UNSET:-~}
`))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Linker.SourceDir != "/tmp/my-dotfiles" {
		t.Errorf("Expected expanded source_dir '/tmp/my-dotfiles', got '%s'", cfg.Linker.SourceDir)
	}

	if cfg.Linker.DestDir != "~" {
		t.Errorf("Expected default-expanded dest_dir '~', got '%s'", cfg.Linker.DestDir)
	}
}

// TestFindConfigFile verifies the walk-up search for dotkit.yml
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Build nested/project/sub with dotkit.yml at project level
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "sub", "deep")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(projectDir, "dotkit.yml")
	if err := os.WriteFile(configPath, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile(subDir)
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}

	if found != configPath {
		t.Errorf("Expected config at '%s', got '%s'", configPath, found)
	}

	// Hidden variant is found too
	hiddenDir := filepath.Join(tmpDir, "hidden-project")
	if err := os.MkdirAll(hiddenDir, 0755); err != nil {
		t.Fatal(err)
	}
	hiddenPath := filepath.Join(hiddenDir, ".dotkit.yml")
	if err := os.WriteFile(hiddenPath, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, err = FindConfigFile(hiddenDir)
	if err != nil {
		t.Fatalf("FindConfigFile failed for hidden variant: %v", err)
	}

	if found != hiddenPath {
		t.Errorf("Expected config at '%s', got '%s'", hiddenPath, found)
	}
}
