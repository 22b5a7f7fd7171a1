package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestHierarchicalMerging tests the three-level configuration merge:
// global -> project -> override
func TestHierarchicalMerging(t *testing.T) {
	// Create temp directory for test configs
	tmpDir := t.TempDir()

	// Create a fake home directory for global config
	fakeHome := filepath.Join(tmpDir, "home")
	fakeConfigDir := filepath.Join(fakeHome, ".config", "dotkit")
	if err := os.MkdirAll(fakeConfigDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Save original HOME and restore after test
	origHome := os.Getenv("HOME")
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		os.Setenv("HOME", origHome)
		os.Setenv("XDG_CONFIG_HOME", origXDG)
	}()
	os.Setenv("HOME", fakeHome)
	os.Unsetenv("XDG_CONFIG_HOME")

	// Create global config
	globalConfig := `
version: "1.0"
editor: vim
linker:
  dest_dir: ~
  locations_file: locations.toml

# Global extension
logging:
  level: info
  caller: true
`
	if err := os.WriteFile(filepath.Join(fakeConfigDir, "dotkit.yml"), []byte(globalConfig), 0644); err != nil {
		t.Fatal(err)
	}

	// Create project directory
	projectDir := filepath.Join(tmpDir, "project")
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Create project config
	projectConfig := `
version: "1.1"
name: my-dotfiles
linker:
  source_dir: ~/dotfiles

hooks:
  config: configs/pre-commit.yaml

# Project extension - overrides global
logging:
  level: debug

# Project-specific extension
sync:
  remote: git@github.com:me/dotfiles.git
`
	if err := os.WriteFile(filepath.Join(projectDir, "dotkit.yml"), []byte(projectConfig), 0644); err != nil {
		t.Fatal(err)
	}

	// Create override config
	overrideConfig := `
editor: nvim
hooks:
  runner: prek

# Override extension
sync:
  remote: git@github.com:me/dotfiles-fork.git
  interval: 300
`
	if err := os.WriteFile(filepath.Join(projectDir, "dotkit.override.yml"), []byte(overrideConfig), 0644); err != nil {
		t.Fatal(err)
	}

	// Load configuration with logging
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := LoadFromWithLogger(projectDir, logger)
	if err != nil {
		t.Fatalf("Failed to load hierarchical config: %v", err)
	}

	// Test version (from project)
	if cfg.Version != "1.1" {
		t.Errorf("Expected version '1.1' from project, got '%s'", cfg.Version)
	}

	// Test name (from project)
	if cfg.Name != "my-dotfiles" {
		t.Errorf("Expected name 'my-dotfiles' from project, got '%s'", cfg.Name)
	}

	// Test editor (from override)
	if cfg.Editor != "nvim" {
		t.Errorf("Expected editor 'nvim' from override, got '%s'", cfg.Editor)
	}

	// Test linker merging: source_dir from project, dest_dir from global
	if cfg.Linker == nil {
		t.Fatal("Expected linker section to be set")
	}
	if cfg.Linker.SourceDir != "~/dotfiles" {
		t.Errorf("Expected source_dir '~/dotfiles' from project, got '%s'", cfg.Linker.SourceDir)
	}
	if cfg.Linker.DestDir != "~" {
		t.Errorf("Expected dest_dir '~' from global, got '%s'", cfg.Linker.DestDir)
	}

	// Test hooks merging: config from project, runner from override
	if cfg.Hooks == nil {
		t.Fatal("Expected hooks section to be set")
	}
	if cfg.Hooks.Config != "configs/pre-commit.yaml" {
		t.Errorf("Expected hooks.config 'configs/pre-commit.yaml' from project, got '%s'", cfg.Hooks.Config)
	}
	if cfg.Hooks.Runner != "prek" {
		t.Errorf("Expected hooks.runner 'prek' from override, got '%s'", cfg.Hooks.Runner)
	}

	// Test extensions merging
	// Logging extension (global + project override)
	var logCfg struct {
		Level  string `yaml:"level"`
		Caller bool   `yaml:"caller"`
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		t.Fatalf("Failed to unmarshal logging extension: %v", err)
	}
	if logCfg.Level != "debug" {
		t.Errorf("Expected logging level 'debug' from project, got '%s'", logCfg.Level)
	}
	if !logCfg.Caller {
		t.Error("Expected logging caller true from global")
	}

	// Sync extension (project + override)
	var syncCfg struct {
		Remote   string `yaml:"remote"`
		Interval int    `yaml:"interval"`
	}
	if err := cfg.UnmarshalExtension("sync", &syncCfg); err != nil {
		t.Fatalf("Failed to unmarshal sync extension: %v", err)
	}
	if syncCfg.Remote != "git@github.com:me/dotfiles-fork.git" {
		t.Errorf("Expected sync remote from override, got '%s'", syncCfg.Remote)
	}
	if syncCfg.Interval != 300 {
		t.Errorf("Expected sync interval 300 from override, got %d", syncCfg.Interval)
	}
}

// TestMergingWithoutGlobalConfig tests that merging works when no global config exists
func TestMergingWithoutGlobalConfig(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()

	// Set HOME to a directory without config
	origHome := os.Getenv("HOME")
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		os.Setenv("HOME", origHome)
		os.Setenv("XDG_CONFIG_HOME", origXDG)
	}()
	os.Setenv("HOME", tmpDir)
	os.Unsetenv("XDG_CONFIG_HOME")

	// Create project config
	projectConfig := `
version: "1.0"
name: standalone
linker:
  source_dir: ~/dotfiles
`
	if err := os.WriteFile(filepath.Join(tmpDir, "dotkit.yml"), []byte(projectConfig), 0644); err != nil {
		t.Fatal(err)
	}

	// Load configuration
	cfg, err := LoadFrom(tmpDir)
	if err != nil {
		t.Fatalf("Failed to load config without global: %v", err)
	}

	if cfg.Name != "standalone" {
		t.Errorf("Expected name 'standalone', got '%s'", cfg.Name)
	}

	// Defaults must still be applied
	if cfg.Linker.DestDir != "~" {
		t.Errorf("Expected default dest_dir '~', got '%s'", cfg.Linker.DestDir)
	}

	if cfg.Hooks == nil || cfg.Hooks.Runner != "pre-commit" {
		t.Errorf("Expected default hooks.runner 'pre-commit', got %+v", cfg.Hooks)
	}
}

// TestOverrideValidationStillRuns tests that an override producing an invalid
// merged config is rejected
func TestOverrideValidationStillRuns(t *testing.T) {
	tmpDir := t.TempDir()

	origHome := os.Getenv("HOME")
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		os.Setenv("HOME", origHome)
		os.Setenv("XDG_CONFIG_HOME", origXDG)
	}()
	os.Setenv("HOME", tmpDir)
	os.Unsetenv("XDG_CONFIG_HOME")

	projectConfig := `
version: "1.0"
tui:
  theme: kanagawa
`
	if err := os.WriteFile(filepath.Join(tmpDir, "dotkit.yml"), []byte(projectConfig), 0644); err != nil {
		t.Fatal(err)
	}

	overrideConfig := `
tui:
  theme: solarized
`
	if err := os.WriteFile(filepath.Join(tmpDir, "dotkit.override.yml"), []byte(overrideConfig), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(tmpDir)
	if err == nil {
		t.Fatal("Expected validation error for unknown theme from override")
	}
}
