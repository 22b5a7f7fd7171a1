package cmd

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/config"
	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/util/pathutil"
	"github.com/spf13/cobra"
)

// NewEditCmd creates the `edit` command.
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [TARGET]",
		Short: "Open a dotkit file in your editor",
		Long: `Opens one of dotkit's files in the configured editor. The editor comes
from the editor key in dotkit.yml, then $EDITOR, then vi.

Targets:
  config     dotkit.yml (default)
  hooks      the hook runner configuration
  locations  the locations.toml in the linker source directory

Any other target is opened as a file path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "config"
			if len(args) > 0 {
				target = args[0]
			}

			path, err := editTarget(cmd, target)
			if err != nil {
				return err
			}

			editor := editorCommand(cmd)
			editorCmd := exec.Command(editor, path)
			editorCmd.Stdin = os.Stdin
			editorCmd.Stdout = os.Stdout
			editorCmd.Stderr = os.Stderr
			return editorCmd.Run()
		},
	}
}

// editTarget maps a target name to the file to open.
func editTarget(cmd *cobra.Command, target string) (string, error) {
	switch target {
	case "config":
		if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
			return explicit, nil
		}
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path, err := config.FindConfigFile(cwd)
		if err != nil {
			// No config yet. Open the default name so saving creates it.
			return filepath.Join(cwd, "dotkit.yml"), nil
		}
		return path, nil

	case "hooks":
		return hooksConfigPath(cmd, nil)

	case "locations":
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return "", err
		}
		if cfg.Linker == nil || cfg.Linker.SourceDir == "" {
			return "", errors.New(errors.ErrCodeInvalidInput,
				"no source directory: set linker.source_dir in dotkit.yml")
		}
		srcDir, err := pathutil.Expand(cfg.Linker.SourceDir)
		if err != nil {
			return "", err
		}
		name := cfg.Linker.LocationsFile
		if name == "" {
			name = "locations.toml"
		}
		return filepath.Join(srcDir, name), nil

	default:
		return target, nil
	}
}

// editorCommand picks the editor binary: dotkit.yml, then $EDITOR, then vi.
func editorCommand(cmd *cobra.Command) string {
	if cfg, err := cli.LoadConfig(cmd); err == nil && cfg.Editor != "" {
		return cfg.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
