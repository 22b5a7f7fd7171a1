package main

import (
	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// VersionScenario tests the 'version' command.
func VersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "dotkit-basic-version",
		Steps: []harness.Step{
			{
				Name: "Run 'dotkit version'",
				Func: func(ctx *harness.Context) error {
					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					cmd := ctx.Command(dotkit, "version")
					result := cmd.Run()
					ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

					if err := assert.Equal(0, result.ExitCode, "dotkit version should exit successfully"); err != nil {
						return err
					}

					// Verify output contains version information
					if err := assert.Contains(result.Stdout, "dotkit", "Output should contain the binary name"); err != nil {
						return err
					}
					if err := assert.Contains(result.Stdout, "Commit:", "Output should contain Commit"); err != nil {
						return err
					}
					if err := assert.Contains(result.Stdout, "Built:", "Output should contain Built"); err != nil {
						return err
					}
					return assert.Contains(result.Stdout, "Platform:", "Output should contain Platform")
				},
			},
		},
	}
}
