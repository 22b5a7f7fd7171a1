package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const preCommitHookTemplate = `#!/bin/sh
# dotkit git hook - {{.HookName}}
# Auto-generated, do not edit directly

RUNNER_BIN="{{.RunnerBinary}}"

# Check if the hook runner is installed
if ! command -v "$RUNNER_BIN" >/dev/null 2>&1; then
    echo "dotkit: {{.RunnerBinary}} not found. Skipping {{.HookName}} hook."
    exit 0
fi

cd "$(git rev-parse --show-toplevel)"
{{if .ConfigPath -}}
exec "$RUNNER_BIN" run --config "{{.ConfigPath}}"
{{- else -}}
exec "$RUNNER_BIN" run
{{- end}}
`

// HookManager installs shim scripts into .git/hooks that delegate to an
// external hook runner.
type HookManager struct {
	runnerBinary string
	configPath   string
}

// Ensure it implements the interface
var _ HookProvider = (*HookManager)(nil)

// NewHookManager creates a new hook manager. An empty runnerBinary defaults
// to "pre-commit". configPath is passed to the runner when non-empty.
func NewHookManager(runnerBinary, configPath string) *HookManager {
	if runnerBinary == "" {
		runnerBinary = "pre-commit"
	}
	return &HookManager{
		runnerBinary: runnerBinary,
		configPath:   configPath,
	}
}

// InstallHooks installs the pre-commit shim into the repository's hooks directory
func (m *HookManager) InstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks directory: %w", err)
	}

	if err := m.installHook(hooksDir, "pre-commit", preCommitHookTemplate); err != nil {
		return fmt.Errorf("install pre-commit hook: %w", err)
	}

	return nil
}

// UninstallHooks removes dotkit-managed hooks, leaving foreign hooks alone.
// A hook backed up during install is moved back into place.
func (m *HookManager) UninstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	hookPath := filepath.Join(hooksDir, "pre-commit")

	// Check if it's a dotkit hook before removing
	if m.isDotkitHook(hookPath) {
		if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove pre-commit hook: %w", err)
		}
		backupPath := hookPath + ".pre-dotkit"
		if _, err := os.Stat(backupPath); err == nil {
			if err := os.Rename(backupPath, hookPath); err != nil {
				return fmt.Errorf("restore backed up hook: %w", err)
			}
		}
	}

	return nil
}

// installHook installs a single git hook
func (m *HookManager) installHook(hooksDir, hookName, templateContent string) error {
	hookPath := filepath.Join(hooksDir, hookName)

	// Check if hook already exists
	if _, err := os.Stat(hookPath); err == nil {
		// Check if it's a dotkit hook
		if !m.isDotkitHook(hookPath) {
			// Backup existing hook
			backupPath := hookPath + ".pre-dotkit"
			if err := os.Rename(hookPath, backupPath); err != nil {
				return fmt.Errorf("backup existing hook: %w", err)
			}
		}
	}

	// Generate hook content
	tmpl, err := template.New(hookName).Parse(templateContent)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		HookName     string
		RunnerBinary string
		ConfigPath   string
	}{
		HookName:     hookName,
		RunnerBinary: m.runnerBinary,
		ConfigPath:   m.configPath,
	}

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// Write hook file with executable permissions
	// #nosec G306 - Git hooks need to be executable
	if err := os.WriteFile(hookPath, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	return nil
}

// isDotkitHook checks if a hook file is managed by dotkit
func (m *HookManager) isDotkitHook(hookPath string) bool {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte("dotkit git hook"))
}
