package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dotforge/dotkit/cli"
	"github.com/dotforge/dotkit/config"
	"github.com/dotforge/dotkit/git"
	"github.com/dotforge/dotkit/logging"
	"github.com/dotforge/dotkit/precommit"
	"github.com/dotforge/dotkit/state"
	"github.com/dotforge/dotkit/tui/components/table"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/spf13/cobra"
)

// NewHooksCmd creates the `hooks` command group.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage the hook runner configuration",
		Long: `Commands for the .pre-commit-config.yaml managed alongside your dotfiles.
dotkit validates, rewrites, and watches this file; running the hooks stays
the job of the external hook runner.

The file defaults to hooks.config from dotkit.yml, resolved against the
project root.`,
	}

	cmd.AddCommand(newHooksValidateCmd())
	cmd.AddCommand(newHooksListCmd())
	cmd.AddCommand(newHooksFmtCmd())
	cmd.AddCommand(newHooksAutoupdateCmd())
	cmd.AddCommand(newHooksSchemaCmd())
	cmd.AddCommand(newHooksInstallCmd())
	cmd.AddCommand(newHooksUninstallCmd())
	cmd.AddCommand(newHooksBrowseCmd())

	return cmd
}

// hooksConfigPath resolves the hook config file from the positional
// argument, falling back to hooks.config from dotkit.yml relative to the
// project root.
func hooksConfigPath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	name := ".pre-commit-config.yaml"
	if cfg, err := cli.LoadConfig(cmd); err == nil && cfg.Hooks != nil && cfg.Hooks.Config != "" {
		name = cfg.Hooks.Config
	}
	if filepath.IsAbs(name) {
		return name, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		root = cwd
	}
	return filepath.Join(root, name), nil
}

func newHooksValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate the hook runner configuration",
		Long: `Parses and validates the hook config. Structural problems are reported
with the file line and field path where validation broke.

Examples:
  dotkit hooks validate
  dotkit hooks validate ci/pre-commit.yaml

  # Re-validate on every save
  dotkit hooks validate --watch
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHooksValidateE,
	}

	cmd.Flags().BoolP("watch", "w", false, "Keep watching the file and re-validate on change")

	return cmd
}

func runHooksValidateE(cmd *cobra.Command, args []string) error {
	path, err := hooksConfigPath(cmd, args)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		cfg, err := precommit.Load(path)
		if err != nil {
			return err
		}
		printValidationOK(path, cfg)
		return nil
	}

	// Report the initial state, then every change until interrupted.
	if cfg, err := precommit.Load(path); err != nil {
		printValidationError(err)
	} else {
		printValidationOK(path, cfg)
	}

	watcher, err := precommit.NewWatcher(path, 200, func(cfg *precommit.Config, err error) {
		stamp := theme.DefaultTheme.Muted.Render(time.Now().Format("15:04:05"))
		fmt.Printf("%s ", stamp)
		if err != nil {
			printValidationError(err)
			return
		}
		printValidationOK(path, cfg)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Println(theme.DefaultTheme.Muted.Render("watching for changes, ctrl-c to stop"))

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	watcher.Start(ctx)
	return nil
}

func printValidationOK(path string, cfg *precommit.Config) {
	fmt.Printf("%s %s valid: %d repos, %d hooks\n",
		theme.DefaultTheme.Success.Render(theme.IconSuccess),
		filepath.Base(path), len(cfg.Repos), cfg.HookCount())
}

func printValidationError(err error) {
	fmt.Printf("%s %v\n", theme.DefaultTheme.Error.Render(theme.IconError), err)
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [FILE]",
		Short: "List configured hooks in document order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hooksConfigPath(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := precommit.Load(path)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return printHooksJSON(cfg)
			}

			printHooksTable(cfg)
			return nil
		},
	}
}

// hookListing is the flattened row shape of `hooks list --json`.
type hookListing struct {
	Repo  string `json:"repo"`
	Rev   string `json:"rev,omitempty"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Alias string `json:"alias,omitempty"`
}

func printHooksJSON(cfg *precommit.Config) error {
	listings := make([]hookListing, 0, cfg.HookCount())
	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			listings = append(listings, hookListing{
				Repo:  repo.Repo,
				Rev:   repo.Rev,
				ID:    hook.ID,
				Name:  hook.Name,
				Alias: hook.Alias,
			})
		}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printHooksTable(cfg *precommit.Config) {
	t := theme.DefaultTheme

	rows := make([][]string, 0, cfg.HookCount())
	for _, repo := range cfg.Repos {
		rev := repo.Rev
		if repo.IsLocal() {
			rev = t.Muted.Render("-")
		}
		for _, hook := range repo.Hooks {
			rows = append(rows, []string{hook.ID, hook.DisplayName(), repo.Repo, rev})
		}
	}

	fmt.Println(table.SimpleTable([]string{"ID", "NAME", "REPO", "REV"}, rows))
	fmt.Printf("%s %d hooks from %d repos\n",
		t.Info.Render(theme.IconHook), cfg.HookCount(), len(cfg.Repos))
}

func newHooksFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [FILE]",
		Short: "Rewrite the hook config in canonical form",
		Long: `Loads the hook config and writes it back in dotkit's canonical form:
two-space indent, sorted mapping keys, optional fields omitted when empty.
Document order of repos and hooks is preserved, as is every unknown key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hooksConfigPath(cmd, args)
			if err != nil {
				return err
			}

			original, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			cfg, err := precommit.LoadFromBytes(original)
			if err != nil {
				return err
			}
			formatted, err := precommit.Marshal(cfg)
			if err != nil {
				return err
			}

			if string(formatted) == string(original) {
				fmt.Printf("%s %s already canonical\n",
					theme.DefaultTheme.Success.Render(theme.IconSuccess), filepath.Base(path))
				return nil
			}

			if err := os.WriteFile(path, formatted, 0644); err != nil {
				return err
			}
			fmt.Printf("%s rewrote %s\n",
				theme.DefaultTheme.Success.Render(theme.IconSuccess), filepath.Base(path))
			return nil
		},
	}
}

func newHooksAutoupdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoupdate [FILE]",
		Short: "Update remote hook repos to their latest tags",
		Long: `Resolves the latest version tag of every remote repo entry with
'git ls-remote --tags' and rewrites the pinned revs. Repos without version
tags fall back to the remote HEAD commit. Local and meta entries are never
touched.

Examples:
  dotkit hooks autoupdate

  # Show what would change without writing
  dotkit hooks autoupdate --dry-run
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHooksAutoupdateE,
	}

	cmd.Flags().BoolP("dry-run", "n", false, "Print the would-be changes without writing the file")

	return cmd
}

func runHooksAutoupdateE(cmd *cobra.Command, args []string) error {
	path, err := hooksConfigPath(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := precommit.Load(path)
	if err != nil {
		return err
	}

	updated, changes, err := precommit.Autoupdate(context.Background(), cfg, precommit.GitResolver{})
	if err != nil {
		return err
	}

	t := theme.DefaultTheme
	if len(changes) == 0 {
		fmt.Printf("%s all revisions up to date\n", t.Success.Render(theme.IconSuccess))
		return nil
	}

	for _, change := range changes {
		fmt.Printf("%s %s: %s %s %s\n",
			t.Highlight.Render(theme.IconRepo), change.Repo,
			t.Muted.Render(change.OldRev), theme.IconArrow, t.Success.Render(change.NewRev))
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Printf("%s dry run, %s not written\n",
			t.Info.Render(theme.IconInfo), filepath.Base(path))
		return nil
	}

	if err := precommit.Save(updated, path); err != nil {
		return err
	}

	// Best effort; a read-only checkout should not fail the update itself.
	if err := state.Set("hooks.last_autoupdate", time.Now().Format(time.RFC3339)); err != nil {
		logging.NewLogger("hooks").WithError(err).Debug("Could not record autoupdate time")
	}

	return nil
}

func newHooksSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the hook config format",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := precommit.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimRight(string(data), "\n"))
			return nil
		},
	}
}

func newHooksInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the git pre-commit shim",
		Long: `Writes a .git/hooks/pre-commit shim that delegates to the external hook
runner. A pre-existing foreign hook is backed up with a .pre-dotkit suffix
and restored on uninstall. The shim is a no-op when the runner is not
installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, root, err := hookManagerFor(cmd)
			if err != nil {
				return err
			}
			if err := manager.InstallHooks(context.Background(), root); err != nil {
				return err
			}
			fmt.Printf("%s installed pre-commit shim in %s\n",
				theme.DefaultTheme.Success.Render(theme.IconHook),
				filepath.Join(root, ".git", "hooks"))
			return nil
		},
	}

	cmd.Flags().String("runner", "", "Hook runner binary the shim delegates to (default: pre-commit)")

	return cmd
}

func newHooksUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the dotkit-managed pre-commit shim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, root, err := hookManagerFor(cmd)
			if err != nil {
				return err
			}
			if err := manager.UninstallHooks(context.Background(), root); err != nil {
				return err
			}
			fmt.Printf("%s removed pre-commit shim\n",
				theme.DefaultTheme.Success.Render(theme.IconSuccess))
			return nil
		},
	}
}

// hookManagerFor builds a HookManager from dotkit.yml and locates the
// enclosing git repository.
func hookManagerFor(cmd *cobra.Command) (*git.HookManager, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	root, err := git.GetGitRoot(cwd)
	if err != nil {
		return nil, "", err
	}

	runner, _ := cmd.Flags().GetString("runner")
	configPath := ""
	if cfg, err := cli.LoadConfig(cmd); err == nil && cfg.Hooks != nil {
		if runner == "" {
			runner = cfg.Hooks.Runner
		}
		if cfg.Hooks.Config != ".pre-commit-config.yaml" {
			// Only non-default paths are baked into the shim.
			configPath = cfg.Hooks.Config
		}
	}

	return git.NewHookManager(runner, configPath), root, nil
}
