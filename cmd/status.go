package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dotforge/dotkit/linker"
	"github.com/dotforge/dotkit/tui/components/table"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [SRC_DIR]",
		Short: "Compare installed links against the locations file",
		Long: `Checks every locations.toml entry against the filesystem and reports its
state without changing anything: ok, missing, wrong-target, not-a-link, or
pending-removal for empty-source entries that still exist.

Examples:
  # Status of the configured dotfiles directory
  dotkit status

  # Status for an explicit tree and install root
  dotkit status ~/dotfiles -d /mnt/newhome

  # Machine-readable output
  dotkit status --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStatusE,
	}

	cmd.Flags().StringP("dest-dir", "d", "", "Directory the links were installed into (default: home directory)")

	return cmd
}

func runStatusE(cmd *cobra.Command, args []string) error {
	srcDir, dstDir, err := linkerDirs(cmd, args)
	if err != nil {
		return err
	}

	l, err := linker.New(linker.Options{SrcDir: srcDir, DstDir: dstDir})
	if err != nil {
		return err
	}

	locations, err := loadLocations(cmd, l)
	if err != nil {
		return err
	}

	entries, err := l.Status(locations)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printStatusTable(entries)
	return nil
}

func printStatusTable(entries []linker.StatusEntry) {
	t := theme.DefaultTheme

	rows := make([][]string, 0, len(entries))
	healthy := 0
	for _, e := range entries {
		detail := e.Src
		switch e.Status {
		case linker.StatusOK:
			healthy++
		case linker.StatusWrongTarget:
			detail = "links to " + e.Target
		case linker.StatusNotALink:
			detail = "occupied by a regular file"
		case linker.StatusPendingRemoval:
			detail = "still present, next link run backs it up"
		}
		rows = append(rows, []string{e.Key, renderLinkStatus(e.Status), detail})
	}

	fmt.Println(table.SimpleTable([]string{"LOCATION", "STATUS", "DETAIL"}, rows))
	if healthy == len(entries) {
		fmt.Printf("%s all %d entries in place\n", t.Success.Render(theme.IconSuccess), len(entries))
	} else {
		fmt.Printf("%s %d of %d entries need attention, run 'dotkit link' to fix\n",
			t.Warning.Render(theme.IconWarning), len(entries)-healthy, len(entries))
	}
}

func renderLinkStatus(s linker.LinkStatus) string {
	t := theme.DefaultTheme
	switch s {
	case linker.StatusOK:
		return t.Success.Render(string(s))
	case linker.StatusMissing, linker.StatusPendingRemoval:
		return t.Warning.Render(string(s))
	default:
		return t.Error.Render(string(s))
	}
}
