package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// writeDotfilesTree creates a minimal dotfiles directory with a locations
// file mapping one file and one directory.
func writeDotfilesTree(dir string) error {
	if err := fs.WriteString(filepath.Join(dir, "rcfiles", "bashrc"), "export EDITOR=vim\n"); err != nil {
		return err
	}
	if err := fs.WriteString(filepath.Join(dir, "config", "nvim", "init.lua"), "-- managed by dotkit\n"); err != nil {
		return err
	}
	locations := `".bashrc" = "rcfiles/bashrc"
".config/nvim" = "config/nvim"
`
	return fs.WriteString(filepath.Join(dir, "locations.toml"), locations)
}

// LinkInstallScenario tests the full install flow into an empty root.
func LinkInstallScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-link-install",
		Description: "Verifies that 'dotkit link' installs symlinks for every locations entry and is idempotent.",
		Tags:        []string{"dotkit", "linker"},
		Steps: []harness.Step{
			{
				Name: "Install links into an empty root and verify targets",
				Func: func(ctx *harness.Context) error {
					srcDir := ctx.NewDir("dotfiles")
					dstDir := ctx.NewDir("install-root")
					if err := writeDotfilesTree(srcDir); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					// Before installing, status should report every entry missing.
					statusCmd := ctx.Command(dotkit, "status", srcDir, "-d", dstDir)
					statusResult := statusCmd.Run()
					ctx.ShowCommandOutput(statusCmd.String(), statusResult.Stdout, statusResult.Stderr)
					if err := assert.Contains(statusResult.Stdout, "2 of 2 entries need attention", "fresh root should report missing links"); err != nil {
						return err
					}

					linkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					linkResult := linkCmd.Run()
					ctx.ShowCommandOutput(linkCmd.String(), linkResult.Stdout, linkResult.Stderr)
					if linkResult.Error != nil {
						return fmt.Errorf("`dotkit link` failed: %w", linkResult.Error)
					}

					// Verify both symlinks point at their sources.
					target, err := os.Readlink(filepath.Join(dstDir, ".bashrc"))
					if err != nil {
						return fmt.Errorf(".bashrc should be a symlink: %w", err)
					}
					if want := filepath.Join(srcDir, "rcfiles", "bashrc"); target != want {
						return fmt.Errorf(".bashrc points at %q, want %q", target, want)
					}

					target, err = os.Readlink(filepath.Join(dstDir, ".config", "nvim"))
					if err != nil {
						return fmt.Errorf(".config/nvim should be a symlink: %w", err)
					}
					if want := filepath.Join(srcDir, "config", "nvim"); target != want {
						return fmt.Errorf(".config/nvim points at %q, want %q", target, want)
					}

					// After installing, status should report everything healthy.
					statusCmd = ctx.Command(dotkit, "status", srcDir, "-d", dstDir)
					statusResult = statusCmd.Run()
					ctx.ShowCommandOutput(statusCmd.String(), statusResult.Stdout, statusResult.Stderr)
					if err := assert.Contains(statusResult.Stdout, "all 2 entries in place", "installed root should be healthy"); err != nil {
						return err
					}

					// Re-running must not disturb anything.
					relinkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					relinkResult := relinkCmd.Run()
					ctx.ShowCommandOutput(relinkCmd.String(), relinkResult.Stdout, relinkResult.Stderr)
					if relinkResult.Error != nil {
						return fmt.Errorf("second `dotkit link` failed: %w", relinkResult.Error)
					}
					if strings.Contains(relinkResult.Stdout, "renaming") {
						return fmt.Errorf("second link run created backups, output:\n%s", relinkResult.Stdout)
					}
					return assert.Contains(relinkResult.Stdout, "exists", "second run should report entries already in place")
				},
			},
		},
	}
}

// LinkBackupScenario tests that occupied destinations are renamed, never lost.
func LinkBackupScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-link-backup",
		Description: "Verifies that existing files are renamed to numbered backups before linking.",
		Tags:        []string{"dotkit", "linker", "backup"},
		Steps: []harness.Step{
			{
				Name: "Link over an existing file and verify the backup chain",
				Func: func(ctx *harness.Context) error {
					srcDir := ctx.NewDir("dotfiles")
					dstDir := ctx.NewDir("occupied-root")
					if err := writeDotfilesTree(srcDir); err != nil {
						return err
					}

					original := "# hand-written bashrc\n"
					bashrc := filepath.Join(dstDir, ".bashrc")
					if err := fs.WriteString(bashrc, original); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					linkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					linkResult := linkCmd.Run()
					ctx.ShowCommandOutput(linkCmd.String(), linkResult.Stdout, linkResult.Stderr)
					if linkResult.Error != nil {
						return fmt.Errorf("`dotkit link` failed: %w", linkResult.Error)
					}
					if err := assert.Contains(linkResult.Stdout, "renaming", "occupied destination should be backed up"); err != nil {
						return err
					}

					// The destination is now a link, the original sits in .bkp_0.
					if _, err := os.Readlink(bashrc); err != nil {
						return fmt.Errorf(".bashrc should be a symlink after linking: %w", err)
					}
					content, err := fs.ReadString(bashrc + ".bkp_0")
					if err != nil {
						return fmt.Errorf("expected backup at .bashrc.bkp_0: %w", err)
					}
					if content != original {
						return fmt.Errorf("backup content = %q, want %q", content, original)
					}

					// A second conflict picks the next free number.
					if err := os.Remove(bashrc); err != nil {
						return err
					}
					if err := fs.WriteString(bashrc, "# second conflicting file\n"); err != nil {
						return err
					}
					relinkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					relinkResult := relinkCmd.Run()
					ctx.ShowCommandOutput(relinkCmd.String(), relinkResult.Stdout, relinkResult.Stderr)
					if relinkResult.Error != nil {
						return fmt.Errorf("second `dotkit link` failed: %w", relinkResult.Error)
					}
					if _, err := os.Stat(bashrc + ".bkp_1"); err != nil {
						return fmt.Errorf("expected second backup at .bashrc.bkp_1: %w", err)
					}
					content, err = fs.ReadString(bashrc + ".bkp_0")
					if err != nil {
						return err
					}
					if content != original {
						return fmt.Errorf("first backup was disturbed, content = %q", content)
					}
					return nil
				},
			},
		},
	}
}

// LinkRemovalScenario tests empty-source entries backing destinations away.
func LinkRemovalScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-link-removal",
		Description: "Verifies that entries with an empty source back up the destination instead of linking.",
		Tags:        []string{"dotkit", "linker"},
		Steps: []harness.Step{
			{
				Name: "Apply a removal entry and verify the destination is backed away",
				Func: func(ctx *harness.Context) error {
					srcDir := ctx.NewDir("dotfiles")
					dstDir := ctx.NewDir("removal-root")
					if err := fs.WriteString(filepath.Join(srcDir, "rcfiles", "bashrc"), "export EDITOR=vim\n"); err != nil {
						return err
					}
					locations := `".bashrc" = "rcfiles/bashrc"
".obsolete" = ""
`
					if err := fs.WriteString(filepath.Join(srcDir, "locations.toml"), locations); err != nil {
						return err
					}

					obsolete := filepath.Join(dstDir, ".obsolete")
					if err := fs.WriteString(obsolete, "retired config\n"); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					linkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					linkResult := linkCmd.Run()
					ctx.ShowCommandOutput(linkCmd.String(), linkResult.Stdout, linkResult.Stderr)
					if linkResult.Error != nil {
						return fmt.Errorf("`dotkit link` failed: %w", linkResult.Error)
					}
					if err := assert.Contains(linkResult.Stdout, "removing", "removal entry should be reported"); err != nil {
						return err
					}

					if _, err := os.Lstat(obsolete); !os.IsNotExist(err) {
						return fmt.Errorf(".obsolete should be gone from the install root")
					}
					content, err := fs.ReadString(obsolete + ".bkp_0")
					if err != nil {
						return fmt.Errorf("expected backup of removed file: %w", err)
					}
					if content != "retired config\n" {
						return fmt.Errorf("backup content = %q", content)
					}

					// A second run finds nothing at the destination and succeeds.
					relinkCmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
					relinkResult := relinkCmd.Run()
					ctx.ShowCommandOutput(relinkCmd.String(), relinkResult.Stdout, relinkResult.Stderr)
					if relinkResult.Error != nil {
						return fmt.Errorf("second `dotkit link` failed: %w", relinkResult.Error)
					}
					return nil
				},
			},
		},
	}
}

// LinkDryRunScenario tests that --dry-run reports without touching anything.
func LinkDryRunScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-link-dry-run",
		Description: "Verifies that 'dotkit link --dry-run' leaves the filesystem untouched.",
		Tags:        []string{"dotkit", "linker", "dry-run"},
		Steps: []harness.Step{
			{
				Name: "Preview an install and verify nothing changed",
				Func: func(ctx *harness.Context) error {
					srcDir := ctx.NewDir("dotfiles")
					dstDir := ctx.NewDir("untouched-root")
					if err := writeDotfilesTree(srcDir); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir, "--dry-run")
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
					if result.Error != nil {
						return fmt.Errorf("`dotkit link --dry-run` failed: %w", result.Error)
					}
					if err := assert.Contains(result.Stdout, "dry run, no changes applied (2 entries)", "dry run summary should be printed"); err != nil {
						return err
					}

					if _, err := os.Lstat(filepath.Join(dstDir, ".bashrc")); !os.IsNotExist(err) {
						return fmt.Errorf("dry run created .bashrc")
					}
					if _, err := os.Stat(filepath.Join(srcDir, ".dotkit", "state.yml")); !os.IsNotExist(err) {
						return fmt.Errorf("dry run wrote the install manifest")
					}
					return nil
				},
			},
		},
	}
}

// LinkRestoreScenario tests the install-then-restore round trip.
func LinkRestoreScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-link-restore",
		Description: "Verifies that 'dotkit restore' removes managed links and brings backups back.",
		Tags:        []string{"dotkit", "linker", "restore"},
		Steps: []harness.Step{
			harness.NewStep("Install links over an existing file", restoreScenarioInstall),
			harness.NewStep("Restore the original file", restoreScenarioRestore),
		},
	}
}

// Paths are derived from the sandbox home so both steps agree on them.
func restoreScenarioDirs(ctx *harness.Context) (srcDir, dstDir string) {
	return filepath.Join(ctx.HomeDir(), "dotfiles"), filepath.Join(ctx.HomeDir(), "restore-root")
}

func restoreScenarioInstall(ctx *harness.Context) error {
	srcDir, dstDir := restoreScenarioDirs(ctx)
	if err := writeDotfilesTree(srcDir); err != nil {
		return err
	}
	if err := fs.WriteString(filepath.Join(dstDir, ".bashrc"), "# original bashrc\n"); err != nil {
		return err
	}

	dotkit, err := findDotkitBinary()
	if err != nil {
		return err
	}

	cmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	if result.Error != nil {
		return fmt.Errorf("`dotkit link` failed: %w", result.Error)
	}

	if _, err := os.Readlink(filepath.Join(dstDir, ".bashrc")); err != nil {
		return fmt.Errorf(".bashrc should be a symlink after install: %w", err)
	}
	return nil
}

func restoreScenarioRestore(ctx *harness.Context) error {
	srcDir, dstDir := restoreScenarioDirs(ctx)

	dotkit, err := findDotkitBinary()
	if err != nil {
		return err
	}

	cmd := ctx.Command(dotkit, "restore", srcDir, "-d", dstDir)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	if result.Error != nil {
		return fmt.Errorf("`dotkit restore` failed: %w", result.Error)
	}
	if err := assert.Contains(result.Stdout, "restored", "backup restoration should be reported"); err != nil {
		return err
	}

	// The original file is back and the directory link is gone.
	bashrc := filepath.Join(dstDir, ".bashrc")
	info, err := os.Lstat(bashrc)
	if err != nil {
		return fmt.Errorf(".bashrc should exist after restore: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf(".bashrc is still a symlink after restore")
	}
	content, err := fs.ReadString(bashrc)
	if err != nil {
		return err
	}
	if content != "# original bashrc\n" {
		return fmt.Errorf("restored content = %q", content)
	}
	if _, err := os.Lstat(filepath.Join(dstDir, ".config", "nvim")); !os.IsNotExist(err) {
		return fmt.Errorf(".config/nvim link should be removed by restore")
	}

	// With the manifest drained, a second restore is a no-op.
	cmd = ctx.Command(dotkit, "restore", srcDir, "-d", dstDir)
	result = cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	if result.Error != nil {
		return fmt.Errorf("second `dotkit restore` failed: %w", result.Error)
	}
	return assert.Contains(result.Stdout, "nothing to restore", "drained manifest should be reported")
}
