package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// runLinkIn runs `dotkit link` for a fresh dotfiles tree with the given
// project directory as the working directory, so the linker picks up that
// project's logging configuration.
func runLinkIn(ctx *harness.Context, projectDir, srcDir, dstDir string) error {
	if err := writeDotfilesTree(srcDir); err != nil {
		return err
	}

	dotkit, err := findDotkitBinary()
	if err != nil {
		return err
	}

	cmd := ctx.Command(dotkit, "link", srcDir, "-d", dstDir).Dir(projectDir)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	if result.Error != nil {
		return fmt.Errorf("`dotkit link` failed: %w", result.Error)
	}
	return nil
}

// LoggingJSONFormatScenario tests that the json preset writes structured
// lines to the per-component log file.
func LoggingJSONFormatScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-logging-json-format",
		Description: "Verifies that the json logging preset writes one valid JSON object per line.",
		Tags:        []string{"dotkit", "logging", "json"},
		Steps: []harness.Step{
			{
				Name: "Run the linker with json logging and inspect the log file",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("json-logging")
					projectYAML := `name: json-logging
version: "1.0"
logging:
  level: debug
  format:
    preset: json
`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					if err := runLinkIn(ctx, projectDir, ctx.NewDir("dotfiles"), ctx.NewDir("install-root")); err != nil {
						return err
					}

					// The linker logs to .dotkit/logs/linker-<date>.log in the
					// working directory.
					logFiles, err := filepath.Glob(filepath.Join(projectDir, ".dotkit", "logs", "linker-*.log"))
					if err != nil {
						return fmt.Errorf("failed to glob log files: %w", err)
					}
					if len(logFiles) == 0 {
						return fmt.Errorf("no linker log file found in %s", filepath.Join(projectDir, ".dotkit", "logs"))
					}

					logContent, err := fs.ReadString(logFiles[0])
					if err != nil {
						return err
					}
					lines := strings.Split(strings.TrimSpace(logContent), "\n")
					if len(lines) == 0 || lines[0] == "" {
						return fmt.Errorf("linker log file is empty")
					}

					sawInstall := false
					for i, line := range lines {
						var entry map[string]interface{}
						if err := json.Unmarshal([]byte(line), &entry); err != nil {
							return fmt.Errorf("line %d is not valid JSON: %w\nContent: %s", i+1, err, line)
						}
						for _, field := range []string{"level", "msg", "time", "component"} {
							if _, ok := entry[field]; !ok {
								return fmt.Errorf("line %d missing %q field: %s", i+1, field, line)
							}
						}
						if entry["component"] != "linker" {
							return fmt.Errorf("line %d has component %v, want linker", i+1, entry["component"])
						}
						if msg, _ := entry["msg"].(string); strings.Contains(msg, "Installing") {
							sawInstall = true
						}
					}
					if !sawInstall {
						return fmt.Errorf("log file has no install entry:\n%s", logContent)
					}
					return nil
				},
			},
		},
	}
}

// LoggingLevelScenario tests that the configured level filters debug output.
func LoggingLevelScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-logging-level",
		Description: "Verifies that logging.level from dotkit.yml decides whether debug lines reach the file.",
		Tags:        []string{"dotkit", "logging"},
		Steps: []harness.Step{
			{
				Name: "Run the linker at error level and verify the debug line is suppressed",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("quiet-project")
					projectYAML := `name: quiet-project
version: "1.0"
logging:
  level: error
  format:
    preset: json
`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					if err := runLinkIn(ctx, projectDir, ctx.NewDir("quiet-dotfiles"), ctx.NewDir("quiet-root")); err != nil {
						return err
					}

					logFiles, _ := filepath.Glob(filepath.Join(projectDir, ".dotkit", "logs", "linker-*.log"))
					for _, logFile := range logFiles {
						content, err := fs.ReadString(logFile)
						if err != nil {
							return err
						}
						if strings.Contains(content, "Installing") {
							return fmt.Errorf("debug line written despite error level:\n%s", content)
						}
					}
					return nil
				},
			},
			{
				Name: "Run the linker at debug level and verify the debug line is written",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("chatty-project")
					projectYAML := `name: chatty-project
version: "1.0"
logging:
  level: debug
  format:
    preset: json
`
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					if err := runLinkIn(ctx, projectDir, ctx.NewDir("chatty-dotfiles"), ctx.NewDir("chatty-root")); err != nil {
						return err
					}

					logFiles, err := filepath.Glob(filepath.Join(projectDir, ".dotkit", "logs", "linker-*.log"))
					if err != nil {
						return err
					}
					if len(logFiles) == 0 {
						return fmt.Errorf("no linker log file found")
					}
					content, err := fs.ReadString(logFiles[0])
					if err != nil {
						return err
					}
					return assert.Contains(content, "Installing", "debug level should write the install entry")
				},
			},
		},
	}
}

// LogsCommandScenario tests reading logs back through `dotkit logs`.
func LogsCommandScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "dotkit-logs-command",
		Description: "Verifies that 'dotkit logs' replays, tails, and filters the configured log file.",
		Tags:        []string{"dotkit", "logging", "logs"},
		Steps: []harness.Step{
			{
				Name: "Produce log entries and read them back with filters",
				Func: func(ctx *harness.Context) error {
					projectDir := ctx.NewDir("logs-project")
					srcDir := ctx.NewDir("logs-dotfiles")
					dstDir := ctx.NewDir("logs-root")

					// An explicit file sink collects every component in one
					// place, which is what `dotkit logs` then reads.
					logPath := filepath.Join(projectDir, "dotkit.log")
					projectYAML := fmt.Sprintf(`name: logs-project
version: "1.0"
logging:
  level: debug
  format:
    preset: json
  file:
    enabled: true
    path: %s
`, logPath)
					if err := fs.WriteString(filepath.Join(projectDir, "dotkit.yml"), projectYAML); err != nil {
						return err
					}

					if err := runLinkIn(ctx, projectDir, srcDir, dstDir); err != nil {
						return err
					}

					dotkit, err := findDotkitBinary()
					if err != nil {
						return err
					}

					restoreCmd := ctx.Command(dotkit, "restore", srcDir, "-d", dstDir).Dir(projectDir)
					restoreResult := restoreCmd.Run()
					ctx.ShowCommandOutput(restoreCmd.String(), restoreResult.Stdout, restoreResult.Stderr)
					if restoreResult.Error != nil {
						return fmt.Errorf("`dotkit restore` failed: %w", restoreResult.Error)
					}

					// Plain replay shows both linker operations.
					logsCmd := ctx.Command(dotkit, "logs").Dir(projectDir)
					logsResult := logsCmd.Run()
					ctx.ShowCommandOutput(logsCmd.String(), logsResult.Stdout, logsResult.Stderr)
					if logsResult.Error != nil {
						return fmt.Errorf("`dotkit logs` failed: %w", logsResult.Error)
					}
					if err := assert.Contains(logsResult.Stdout, "Installing", "replay should include the install entry"); err != nil {
						return err
					}
					if err := assert.Contains(logsResult.Stdout, "Restoring", "replay should include the restore entry"); err != nil {
						return err
					}

					// The component filter drops lines from other components,
					// including the logs command's own entries.
					filterCmd := ctx.Command(dotkit, "logs", "--component", "linker").Dir(projectDir)
					filterResult := filterCmd.Run()
					ctx.ShowCommandOutput(filterCmd.String(), filterResult.Stdout, filterResult.Stderr)
					if filterResult.Error != nil {
						return fmt.Errorf("`dotkit logs --component` failed: %w", filterResult.Error)
					}
					if err := assert.Contains(filterResult.Stdout, "Installing", "filtered replay should keep linker entries"); err != nil {
						return err
					}
					if strings.Contains(filterResult.Stdout, "Reading log file") {
						return fmt.Errorf("component filter leaked cli entries:\n%s", filterResult.Stdout)
					}

					// Tail limits the replay to the last lines.
					tailCmd := ctx.Command(dotkit, "logs", "--tail", "1").Dir(projectDir)
					tailResult := tailCmd.Run()
					ctx.ShowCommandOutput(tailCmd.String(), tailResult.Stdout, tailResult.Stderr)
					if tailResult.Error != nil {
						return fmt.Errorf("`dotkit logs --tail` failed: %w", tailResult.Error)
					}
					tailLines := strings.Split(strings.TrimSpace(tailResult.Stdout), "\n")
					if len(tailLines) != 1 {
						return fmt.Errorf("--tail 1 printed %d lines:\n%s", len(tailLines), tailResult.Stdout)
					}

					// JSON output re-emits each entry as one JSON object.
					jsonCmd := ctx.Command(dotkit, "logs", "--json", "--component", "linker").Dir(projectDir)
					jsonResult := jsonCmd.Run()
					ctx.ShowCommandOutput(jsonCmd.String(), jsonResult.Stdout, jsonResult.Stderr)
					if jsonResult.Error != nil {
						return fmt.Errorf("`dotkit logs --json` failed: %w", jsonResult.Error)
					}
					for i, line := range strings.Split(strings.TrimSpace(jsonResult.Stdout), "\n") {
						if line == "" {
							continue
						}
						var entry map[string]interface{}
						if err := json.Unmarshal([]byte(line), &entry); err != nil {
							return fmt.Errorf("json output line %d is not valid JSON: %w\nContent: %s", i+1, err, line)
						}
					}
					return nil
				},
			},
		},
	}
}
