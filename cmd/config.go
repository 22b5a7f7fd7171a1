package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dotforge/dotkit/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved dotkit configuration",
		Long: `Prints the configuration dotkit actually runs with: the global config
(~/.config/dotkit/dotkit.yml), the project dotkit.yml, and any
dotkit.override.yml merged in that order, defaults filled in. Useful for
checking what the linker and hook sections resolve to.`,
		RunE: runConfigE,
	}

	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigSchemaCmd())

	return cmd
}

func runConfigE(cmd *cobra.Command, args []string) error {
	path, cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if path != "" {
		fmt.Printf("# Source: %s\n", path)
	} else {
		fmt.Println("# Source: defaults (no dotkit.yml found)")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// resolveConfig loads the effective config and reports which file it came
// from. The path is empty when running on pure defaults.
func resolveConfig(cmd *cobra.Command) (string, *config.Config, error) {
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		cfg, err := config.Load(explicit)
		if err != nil {
			return "", nil, err
		}
		return explicit, cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}

	path, err := config.FindConfigFile(cwd)
	if err != nil {
		cfg := &config.Config{}
		cfg.SetDefaults()
		return "", cfg, nil
	}

	// LoadFrom merges the global config and any dotkit.override.yml on top
	// of the project file found above.
	cfg, err := config.LoadFrom(cwd)
	if err != nil {
		return "", nil, err
	}
	return path, cfg, nil
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the active dotkit.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
				fmt.Println(explicit)
				return nil
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			path, err := config.FindConfigFile(cwd)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for dotkit.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
