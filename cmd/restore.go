package cmd

import (
	"fmt"

	"github.com/dotforge/dotkit/linker"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/spf13/cobra"
)

// NewRestoreCmd creates the `restore` command.
func NewRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [SRC_DIR]",
		Short: "Undo installed links and bring backups back",
		Long: `Walks the install manifest recorded by 'dotkit link', removes each managed
symlink, and moves the most recent backup back into place. Links the user
has re-pointed and destinations occupied by new files are left alone.

Examples:
  # Undo the last install of the configured dotfiles directory
  dotkit restore

  # Preview what would be restored
  dotkit restore ~/dotfiles --dry-run
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRestoreE,
	}

	cmd.Flags().StringP("dest-dir", "d", "", "Directory the links were installed into (default: home directory)")
	cmd.Flags().CountP("quiet", "q", "Reduce output (repeat up to 3 times)")
	cmd.Flags().BoolP("dry-run", "n", false, "Report operations without performing them")

	return cmd
}

func runRestoreE(cmd *cobra.Command, args []string) error {
	srcDir, dstDir, err := linkerDirs(cmd, args)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetInt("quiet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	l, err := linker.New(linker.Options{
		SrcDir: srcDir,
		DstDir: dstDir,
		DryRun: dryRun,
		Report: eventReporter(maxLinkVerbosity - quiet),
	})
	if err != nil {
		return err
	}

	events, err := l.Restore()
	if err != nil {
		return err
	}

	if len(events) == 0 && quiet < maxLinkVerbosity {
		fmt.Printf("%s nothing to restore\n", theme.DefaultTheme.Info.Render(theme.IconInfo))
	}
	return nil
}
