// Package cli provides the shared cobra plumbing for the dotkit command
// tree: standard persistent flags, styled help, and code-aware error
// reporting.
package cli

import (
	"os"

	"github.com/dotforge/dotkit/config"
	"github.com/dotforge/dotkit/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for dotkit commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard dotkit flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to dotkit.yml config file")

	// Apply styled help
	SetStyledHelp(cmd)

	return cmd
}

// Execute runs the root command, routing any error through the handler so
// structured codes produce actionable messages. Exits nonzero on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		NewErrorHandler(verbose).Handle(err)
		os.Exit(1)
	}
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	entry := logging.NewLogger("cli")
	logger := entry.Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads dotkit.yml honoring the -c flag, falling back to
// discovery from the working directory. A missing config file is not an
// error; commands get a defaulted config in that case.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		return config.Load(configFile)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFrom(cwd)
	if err != nil {
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	return cfg, nil
}
