package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ConfigLayeringScenario creates a scenario to test the config layering.
func ConfigLayeringScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-config-layering",
		Description: "Verifies that global, project, and override configs are merged correctly.",
		Tags:        []string{"dotkit", "config"},
		Steps: []harness.Step{
			{
				Name: "Setup layered configuration and verify merge logic",
				Func: func(ctx *harness.Context) error {
					// 1. Setup file structure in sandboxed environment
					projectDir := ctx.NewDir("test-project")
					globalConfigDir := filepath.Join(ctx.HomeDir(), ".config", "dotkit")
					if err := fs.CreateDir(globalConfigDir); err != nil {
						return fmt.Errorf("failed to create global config dir: %w", err)
					}

					// 2. Create Global Config (~/.config/dotkit/dotkit.yml)
					globalYAML := `name: global-name
version: "1.0"
editor: global-editor
linker:
  source_dir: /global/dotfiles
`
					if err := fs.WriteString(filepath.Join(globalConfigDir, "dotkit.yml"), globalYAML); err != nil {
						return err
					}

					// 3. Create Project Config (./dotkit.yml)
					projectYAML := `name: project-name
version: "1.0"
linker:
  source_dir: /project/dotfiles
`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					// 4. Create Override Config (./dotkit.override.yml)
					overrideYAML := `editor: override-editor`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.override.yml"), overrideYAML); err != nil {
						return err
					}

					// 5. Execute 'config' command and verify output
					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					// ctx.Command automatically uses the sandboxed HOME directory.
					cmd := ctx.Command(dotkit, "config").Dir(projectDir)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit config` failed: %w", result.Error)
					}

					// 6. Assertions
					output := result.Stdout
					if err := assert.Contains(output, "# Source:", "source header should exist"); err != nil {
						return err
					}
					if err := assert.Contains(output, "name: project-name", "project name should override global"); err != nil {
						return err
					}
					if err := assert.Contains(output, "editor: override-editor", "override editor should win"); err != nil {
						return err
					}
					if err := assert.Contains(output, "source_dir: /project/dotfiles", "project linker dir should override global"); err != nil {
						return err
					}

					return nil
				},
			},
		},
	}
}

// ConfigPrecedenceScenario tests that the same key set at every layer resolves
// to the highest-precedence value.
func ConfigPrecedenceScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-config-precedence",
		Description: "Verifies that dotkit.override.yml beats dotkit.yml, which beats the global config.",
		Tags:        []string{"dotkit", "config", "override"},
		Steps: []harness.Step{
			{
				Name: "Setup configs with overlapping keys and verify override behavior",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("precedence-test")
					globalConfigDir := filepath.Join(ctx.HomeDir(), ".config", "dotkit")
					if err := fs.CreateDir(globalConfigDir); err != nil {
						return fmt.Errorf("failed to create global config dir: %w", err)
					}

					// All three layers define editor; only the global layer
					// defines the hooks runner.
					globalYAML := `editor: global-editor
hooks:
  runner: global-runner
`
					if err := fs.WriteString(filepath.Join(globalConfigDir, "dotkit.yml"), globalYAML); err != nil {
						return err
					}

					projectYAML := `editor: project-editor
logging:
  level: debug
`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					overrideYAML := `editor: override-editor`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.override.yml"), overrideYAML); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "config").Dir(projectDir)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit config` failed: %w", result.Error)
					}

					output := result.Stdout
					if err := assert.Contains(output, "editor: override-editor", "override editor should beat project and global"); err != nil {
						return err
					}
					if err := assert.Contains(output, "runner: global-runner", "global-only keys should survive the merge"); err != nil {
						return err
					}
					if err := assert.Contains(output, "level: debug", "project extension settings should survive the merge"); err != nil {
						return err
					}

					return nil
				},
			},
		},
	}
}

// ConfigMissingScenario tests that missing configs are handled gracefully.
func ConfigMissingScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-config-missing",
		Description: "Verifies that a missing dotkit.yml falls back to built-in defaults without errors.",
		Tags:        []string{"dotkit", "config", "edge-cases"},
		Steps: []harness.Step{
			{
				Name: "Run config with no config files",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("no-config-test")
					if err := fs.CreateDir(projectDir); err != nil {
						return fmt.Errorf("failed to create project dir: %w", err)
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "config").Dir(projectDir)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

					// Should succeed even with no config files
					if result.Error != nil {
						return fmt.Errorf("`dotkit config` should succeed with no configs, but failed: %w", result.Error)
					}

					return assert.Contains(result.Stdout, "# Source: defaults", "should fall back to defaults")
				},
			},
		},
	}
}

// ConfigPathScenario tests that 'config path' reports the discovered file.
func ConfigPathScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-config-path",
		Description: "Verifies that 'config path' prints the path of the config file in use.",
		Tags:        []string{"dotkit", "config"},
		Steps: []harness.Step{
			{
				Name: "Create a project config and resolve it from a subdirectory",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("path-test")
					subDir := filepath.Join(projectDir, "deep", "nested")
					if err := fs.CreateDir(subDir); err != nil {
						return fmt.Errorf("failed to create nested dir: %w", err)
					}

					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), "name: path-test\n"); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "config", "path").Dir(subDir)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit config path` failed: %w", result.Error)
					}

					return assert.Contains(result.Stdout, "dotkit.yml", "output should name the discovered config file")
				},
			},
		},
	}
}
