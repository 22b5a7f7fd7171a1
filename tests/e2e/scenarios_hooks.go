package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/git"
	"github.com/grovetools/tend/pkg/harness"
)

// validHooksYAML has one remote repo and one local repo, three hooks total.
const validHooksYAML = `repos:
  - repo: https://github.com/psf/black
    rev: 24.3.0
    hooks:
      - id: black
  - repo: local
    hooks:
      - id: unit-tests
        name: Run unit tests
        entry: make test
        language: system
      - id: lint
        entry: make lint
        language: system
`

// HooksValidateScenario tests validation of a well-formed hook config.
func HooksValidateScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-validate",
		Description: "Verifies that 'dotkit hooks validate' accepts a well-formed config and reports counts.",
		Tags:        []string{"dotkit", "hooks"},
		Steps: []harness.Step{
			{
				Name: "Validate a config with remote and local repos",
				Func: func(ctx *harness.Context) error {
					dir := ctx.NewDir("hooks-valid")
					path := filepath.Join(dir, ".pre-commit-config.yaml")
					if err := fs.WriteString(path, validHooksYAML); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "hooks", "validate", path)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit hooks validate` failed: %w", result.Error)
					}

					return assert.Contains(result.Stdout, "valid: 2 repos, 3 hooks", "counts should be reported")
				},
			},
		},
	}
}

// HooksValidateInvalidScenario tests that structural problems fail with
// the offending line and field.
func HooksValidateInvalidScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-validate-invalid",
		Description: "Verifies that a remote repo without a rev fails validation with line information.",
		Tags:        []string{"dotkit", "hooks", "edge-cases"},
		Steps: []harness.Step{
			{
				Name: "Validate a config missing a required rev",
				Func: func(ctx *harness.Context) error {
					dir := ctx.NewDir("hooks-invalid")
					path := filepath.Join(dir, ".pre-commit-config.yaml")
					invalidYAML := `repos:
  - repo: https://github.com/psf/black
    hooks:
      - id: black
`
					if err := fs.WriteString(path, invalidYAML); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "hooks", "validate", path)
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

					if result.ExitCode == 0 {
						return fmt.Errorf("validation should fail for a remote repo without a rev")
					}
					if err := assert.Contains(result.Stderr, `missing required field "rev"`, "error should name the missing field"); err != nil {
						return err
					}
					return assert.Contains(result.Stderr, "line", "error should carry the offending line")
				},
			},
		},
	}
}

// HooksFmtScenario tests canonical rewriting and its stability.
func HooksFmtScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-fmt",
		Description: "Verifies that 'dotkit hooks fmt' canonicalizes a config once and then leaves it alone.",
		Tags:        []string{"dotkit", "hooks", "fmt"},
		Steps: []harness.Step{
			{
				Name: "Rewrite a messy config and verify the second run is a no-op",
				Func: func(ctx *harness.Context) error {
					dir := ctx.NewDir("hooks-fmt")
					path := filepath.Join(dir, ".pre-commit-config.yaml")
					// Four-space indentation and a flow sequence, plus a
					// foreign block the rewrite must carry through.
					messyYAML := `ci:
    autofix_prs: true
repos:
-   repo: https://github.com/psf/black
    rev: 24.3.0
    hooks:
    -   id: black
        args: [--quiet]
`
					if err := fs.WriteString(path, messyYAML); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					fmtCmd := ctx.Command(dotkit, "hooks", "fmt", path)
					fmtResult := fmtCmd.Run()
					ctx.ShowCommandOutput(fmtCmd.String(), fmtResult.Stdout, fmtResult.Stderr)
					if fmtResult.Error != nil {
						return fmt.Errorf("`dotkit hooks fmt` failed: %w", fmtResult.Error)
					}
					if err := assert.Contains(fmtResult.Stdout, "rewrote", "messy input should be rewritten"); err != nil {
						return err
					}

					// Unknown keys survive the rewrite.
					formatted, err := fs.ReadString(path)
					if err != nil {
						return err
					}
					if !strings.Contains(formatted, "autofix_prs") {
						return fmt.Errorf("foreign ci block was dropped by fmt:\n%s", formatted)
					}

					// The canonical form is stable.
					againCmd := ctx.Command(dotkit, "hooks", "fmt", path)
					againResult := againCmd.Run()
					ctx.ShowCommandOutput(againCmd.String(), againResult.Stdout, againResult.Stderr)
					if againResult.Error != nil {
						return fmt.Errorf("second `dotkit hooks fmt` failed: %w", againResult.Error)
					}
					if err := assert.Contains(againResult.Stdout, "already canonical", "second run should be a no-op"); err != nil {
						return err
					}

					// The rewrite must not change what the config means.
					validateCmd := ctx.Command(dotkit, "hooks", "validate", path)
					validateResult := validateCmd.Run()
					ctx.ShowCommandOutput(validateCmd.String(), validateResult.Stdout, validateResult.Stderr)
					return assert.Contains(validateResult.Stdout, "valid: 1 repos, 1 hooks", "formatted config should still validate")
				},
			},
		},
	}
}

// HooksListScenario tests the table and JSON listings.
func HooksListScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-list",
		Description: "Verifies that 'dotkit hooks list' reports hooks in document order as a table and as JSON.",
		Tags:        []string{"dotkit", "hooks"},
		Steps: []harness.Step{
			{
				Name: "List hooks from a config with remote and local repos",
				Func: func(ctx *harness.Context) error {
					dir := ctx.NewDir("hooks-list")
					path := filepath.Join(dir, ".pre-commit-config.yaml")
					if err := fs.WriteString(path, validHooksYAML); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					listCmd := ctx.Command(dotkit, "hooks", "list", path)
					listResult := listCmd.Run()
					ctx.ShowCommandOutput(listCmd.String(), listResult.Stdout, listResult.Stderr)
					if listResult.Error != nil {
						return fmt.Errorf("`dotkit hooks list` failed: %w", listResult.Error)
					}

					output := listResult.Stdout
					for _, want := range []string{"ID", "REPO", "black", "unit-tests", "lint", "3 hooks from 2 repos"} {
						if err := assert.Contains(output, want, fmt.Sprintf("listing should mention %q", want)); err != nil {
							return err
						}
					}

					jsonCmd := ctx.Command(dotkit, "hooks", "list", path, "--json")
					jsonResult := jsonCmd.Run()
					ctx.ShowCommandOutput(jsonCmd.String(), jsonResult.Stdout, jsonResult.Stderr)
					if jsonResult.Error != nil {
						return fmt.Errorf("`dotkit hooks list --json` failed: %w", jsonResult.Error)
					}

					var listings []struct {
						Repo string `json:"repo"`
						Rev  string `json:"rev"`
						ID   string `json:"id"`
						Name string `json:"name"`
					}
					if err := json.Unmarshal([]byte(jsonResult.Stdout), &listings); err != nil {
						return fmt.Errorf("failed to parse JSON listing: %w", err)
					}
					if len(listings) != 3 {
						return fmt.Errorf("expected 3 hooks in JSON listing, got %d", len(listings))
					}
					if listings[0].ID != "black" || listings[0].Rev != "24.3.0" {
						return fmt.Errorf("first listing should be the black hook, got %+v", listings[0])
					}
					if listings[1].ID != "unit-tests" || listings[1].Name != "Run unit tests" {
						return fmt.Errorf("second listing should be unit-tests, got %+v", listings[1])
					}

					return nil
				},
			},
		},
	}
}

// HooksSchemaScenario tests the JSON Schema export.
func HooksSchemaScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-schema",
		Description: "Verifies that 'dotkit hooks schema' emits the hook config JSON Schema.",
		Tags:        []string{"dotkit", "hooks", "schema"},
		Steps: []harness.Step{
			{
				Name: "Print the schema and check it is valid JSON",
				Func: func(ctx *harness.Context) error {
					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "hooks", "schema")
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit hooks schema` failed: %w", result.Error)
					}

					var schema map[string]interface{}
					if err := json.Unmarshal([]byte(result.Stdout), &schema); err != nil {
						return fmt.Errorf("schema output is not valid JSON: %w", err)
					}
					if err := assert.Contains(result.Stdout, "$schema", "schema should declare its dialect"); err != nil {
						return err
					}
					return assert.Contains(result.Stdout, "Hook Runner Configuration", "schema should carry its title")
				},
			},
		},
	}
}

// HooksInstallScenario tests the git shim install/uninstall round trip.
func HooksInstallScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-hooks-install",
		Description: "Verifies that the pre-commit shim is installed, backs up foreign hooks, and uninstalls cleanly.",
		Tags:        []string{"dotkit", "hooks", "git"},
		Steps: []harness.Step{
			{
				Name: "Install the shim over a foreign hook and uninstall it again",
				Func: func(ctx *harness.Context) error {
					repoDir := ctx.NewDir("hooked-repo")
					if err := fs.WriteString(filepath.Join(repoDir, ".pre-commit-config.yaml"), validHooksYAML); err != nil {
						return err
					}
					repo, err := git.SetupTestRepo(repoDir)
					if err != nil {
						return fmt.Errorf("failed to set up git repo: %w", err)
					}
					if err := repo.AddCommit("initial commit"); err != nil {
						return err
					}

					// A hand-written hook that must survive the round trip.
					foreignHook := "#!/bin/sh\necho hand-written\n"
					hookPath := filepath.Join(repoDir, ".git", "hooks", "pre-commit")
					if err := fs.WriteString(hookPath, foreignHook); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					installCmd := ctx.Command(dotkit, "hooks", "install").Dir(repoDir)
					installResult := installCmd.Run()
					ctx.ShowCommandOutput(installCmd.String(), installResult.Stdout, installResult.Stderr)
					if installResult.Error != nil {
						return fmt.Errorf("`dotkit hooks install` failed: %w", installResult.Error)
					}
					if err := assert.Contains(installResult.Stdout, "installed pre-commit shim", "install should be reported"); err != nil {
						return err
					}

					shim, err := fs.ReadString(hookPath)
					if err != nil {
						return fmt.Errorf("shim should exist after install: %w", err)
					}
					if !strings.Contains(shim, "dotkit git hook") {
						return fmt.Errorf("installed hook is not the dotkit shim:\n%s", shim)
					}
					backup, err := fs.ReadString(hookPath + ".pre-dotkit")
					if err != nil {
						return fmt.Errorf("foreign hook should be backed up: %w", err)
					}
					if backup != foreignHook {
						return fmt.Errorf("backed up hook content = %q", backup)
					}

					uninstallCmd := ctx.Command(dotkit, "hooks", "uninstall").Dir(repoDir)
					uninstallResult := uninstallCmd.Run()
					ctx.ShowCommandOutput(uninstallCmd.String(), uninstallResult.Stdout, uninstallResult.Stderr)
					if uninstallResult.Error != nil {
						return fmt.Errorf("`dotkit hooks uninstall` failed: %w", uninstallResult.Error)
					}
					if err := assert.Contains(uninstallResult.Stdout, "removed pre-commit shim", "uninstall should be reported"); err != nil {
						return err
					}

					restored, err := fs.ReadString(hookPath)
					if err != nil {
						return fmt.Errorf("foreign hook should be restored: %w", err)
					}
					if restored != foreignHook {
						return fmt.Errorf("restored hook content = %q", restored)
					}

					return nil
				},
			},
		},
	}
}
