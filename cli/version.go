package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dotforge/dotkit/version"
	"github.com/spf13/cobra"
)

// SetVersionTemplate wires build info into cobra's --version output.
func SetVersionTemplate(cmd *cobra.Command, info version.Info) {
	cmd.Version = info.Version
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Commit:    %s
  Built:     %s
  Go:        %s
  Platform:  %s
`, info.Commit, info.BuildDate, info.GoVersion, info.Platform))
}

// NewVersionCommand creates a standard version command
func NewVersionCommand(componentName string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Print the version number of %s", componentName),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("%s %s\n", componentName, info.Version)
			fmt.Printf("  Commit:    %s\n", info.Commit)
			fmt.Printf("  Branch:    %s\n", info.Branch)
			fmt.Printf("  Built:     %s\n", info.BuildDate)
			fmt.Printf("  Go:        %s\n", info.GoVersion)
			fmt.Printf("  Platform:  %s\n", info.Platform)
			return nil
		},
	}
}
