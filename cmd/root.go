package cmd

import (
	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/pkg/profiling"
	"github.com/dotforge/dotkit/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the dotkit command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"dotkit",
		"Install dotfiles symlinks and manage hook configuration",
	)
	root.Long = `dotkit keeps a machine's dotfiles and git hooks in a single repository.

The linker installs symlinks from a dotfiles directory following its
locations.toml, backing up whatever is in the way. The hooks commands
validate, rewrite, and watch the .pre-commit-config.yaml consumed by the
external hook runner.

Examples:
  # Install links from your dotfiles repo
  dotkit link ~/dotfiles

  # See what is linked and what drifted
  dotkit status

  # Validate the hook config on every save
  dotkit hooks validate --watch
`

	cli.SetVersionTemplate(root, version.GetInfo())

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(root)
	root.PersistentPreRunE = profiler.PreRun
	root.PersistentPostRun = profiler.PostRun

	root.AddCommand(NewLinkCmd())
	root.AddCommand(NewStatusCmd())
	root.AddCommand(NewRestoreCmd())
	root.AddCommand(NewHooksCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewEditCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(cli.NewVersionCommand("dotkit"))

	cli.ApplyStyledHelpRecursive(root)

	return root
}
