package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/linker"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/spf13/cobra"
)

// maxLinkVerbosity mirrors the linker's output tiers: 1 shows backups and
// removals, 2 adds link creation, 3 adds entries already in place.
const maxLinkVerbosity = 3

// NewLinkCmd creates the `link` command.
func NewLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link [SRC_DIR]",
		Short: "Install symlinks from a dotfiles directory",
		Long: `Reads locations.toml from the source directory and installs a symlink for
every entry. Existing files at a destination are renamed to a .bkp_N backup
first; nothing is ever deleted. Destinations already linked correctly are
left alone, so re-running is safe.

The source directory defaults to linker.source_dir from dotkit.yml.

Examples:
  # Link ~/dotfiles into your home directory
  dotkit link ~/dotfiles

  # Preview without touching the filesystem
  dotkit link ~/dotfiles --dry-run

  # Install into a custom root, quietly
  dotkit link ~/dotfiles -d /mnt/newhome -qq

  # Only the nvim config
  dotkit link ~/dotfiles --only .config/nvim
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLinkE,
	}

	cmd.Flags().StringP("dest-dir", "d", "", "Directory to install the links into (default: home directory)")
	cmd.Flags().CountP("quiet", "q", "Reduce output (repeat up to 3 times)")
	cmd.Flags().BoolP("dry-run", "n", false, "Report operations without performing them")
	cmd.Flags().StringSlice("only", nil, "Only handle destinations matching these patterns")
	cmd.Flags().StringSlice("skip", nil, "Skip destinations matching these patterns")

	return cmd
}

func runLinkE(cmd *cobra.Command, args []string) error {
	srcDir, dstDir, err := linkerDirs(cmd, args)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetInt("quiet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")

	l, err := linker.New(linker.Options{
		SrcDir: srcDir,
		DstDir: dstDir,
		DryRun: dryRun,
		Only:   only,
		Skip:   skip,
		Report: eventReporter(maxLinkVerbosity - quiet),
	})
	if err != nil {
		return err
	}

	locations, err := loadLocations(cmd, l)
	if err != nil {
		return err
	}

	events, err := l.Install(locations)
	if err != nil {
		return err
	}

	if dryRun && quiet < maxLinkVerbosity {
		fmt.Printf("%s dry run, no changes applied (%d entries)\n",
			theme.DefaultTheme.Info.Render(theme.IconInfo), len(events))
	}
	return nil
}

// linkerDirs resolves the source and destination directories from the
// positional argument, flags, and dotkit.yml, in that order.
func linkerDirs(cmd *cobra.Command, args []string) (srcDir, dstDir string, err error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return "", "", err
	}

	if len(args) > 0 {
		srcDir = args[0]
	} else if cfg.Linker != nil {
		srcDir = cfg.Linker.SourceDir
	}
	if srcDir == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput,
			"no source directory: pass SRC_DIR or set linker.source_dir in dotkit.yml")
	}

	dstDir, _ = cmd.Flags().GetString("dest-dir")
	if dstDir == "" && cfg.Linker != nil {
		dstDir = cfg.Linker.DestDir
	}

	return srcDir, dstDir, nil
}

// loadLocations reads the locations file from the linker's source directory,
// honoring a linker.locations_file override from dotkit.yml.
func loadLocations(cmd *cobra.Command, l *linker.Linker) (linker.Locations, error) {
	name := linker.DefaultLocationsName
	if cfg, err := cli.LoadConfig(cmd); err == nil && cfg.Linker != nil && cfg.Linker.LocationsFile != "" {
		name = cfg.Linker.LocationsFile
	}
	return linker.ReadLocations(filepath.Join(l.SrcDir(), name))
}

// eventReporter prints linker events at the given verbosity level.
// Level 1 shows renames, 2 adds link creation, 3 adds up-to-date entries.
func eventReporter(level int) linker.Reporter {
	t := theme.DefaultTheme
	return func(ev linker.Event) {
		dirSuffix := ""
		if ev.IsDir {
			dirSuffix = "/"
		}
		switch ev.Type {
		case linker.EventBackup:
			if level >= 1 {
				fmt.Printf("%s %s %s -> %s\n",
					t.Warning.Render(theme.IconBackup), "renaming", ev.Dst, ev.Backup)
			}
		case linker.EventRemove:
			if level >= 1 {
				fmt.Printf("%s %s %s -> %s\n",
					t.Warning.Render(theme.IconUnlink), "removing", ev.Dst, ev.Backup)
			}
		case linker.EventRestore:
			if level >= 1 {
				fmt.Printf("%s %s %s <- %s\n",
					t.Success.Render(theme.IconRestore), "restored", ev.Dst, ev.Backup)
			}
		case linker.EventLink:
			if level >= 2 {
				fmt.Printf("%s %s  %s <- %s%s\n",
					t.Success.Render(theme.IconLink), "linking", ev.Dst, ev.Src, dirSuffix)
			}
		case linker.EventOK:
			if level >= 3 {
				fmt.Printf("%s %s   %s <- %s%s\n",
					t.Muted.Render(theme.IconSuccess), "exists", ev.Dst, ev.Src, dirSuffix)
			}
		case linker.EventSkip:
			if level >= 3 {
				fmt.Printf("%s %s  %s\n",
					t.Muted.Render(theme.IconSkip), "skipped", ev.Dst)
			}
		}
	}
}
