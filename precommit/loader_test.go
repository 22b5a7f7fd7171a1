package precommit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/dotforge/dotkit/errors"
)

func TestLoadPreservesDocumentOrder(t *testing.T) {
	yamlContent := `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.6.0
    hooks:
      - id: trailing-whitespace
      - id: end-of-file-fixer
      - id: check-yaml
  - repo: meta
    hooks:
      - id: check-useless-excludes
  - repo: local
    hooks:
      - id: gofmt
        name: gofmt
        entry: gofmt -l -w
        language: system
      - id: govet
        name: go vet
        entry: go vet ./...
        language: system
`

	cfg, err := LoadFromBytes([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	wantRepos := []string{"https://github.com/pre-commit/pre-commit-hooks", "meta", "local"}
	if len(cfg.Repos) != len(wantRepos) {
		t.Fatalf("Expected %d repos, got %d", len(wantRepos), len(cfg.Repos))
	}
	for i, want := range wantRepos {
		if cfg.Repos[i].Repo != want {
			t.Errorf("Repo %d: expected %q, got %q", i, want, cfg.Repos[i].Repo)
		}
	}

	wantHooks := []string{"trailing-whitespace", "end-of-file-fixer", "check-yaml"}
	for i, want := range wantHooks {
		if cfg.Repos[0].Hooks[i].ID != want {
			t.Errorf("Hook %d: expected %q, got %q", i, want, cfg.Repos[0].Hooks[i].ID)
		}
	}

	if cfg.HookCount() != 6 {
		t.Errorf("Expected 6 hooks total, got %d", cfg.HookCount())
	}
}

func TestLoadLocalHooks(t *testing.T) {
	yamlContent := `repos:
  - repo: local
    hooks:
      - id: forbid-ipynb
        name: forbid notebooks
        entry: bash -c 'exit 1'
        language: system
        files: \.ipynb$
`

	cfg, err := LoadFromBytes([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	entry := cfg.Repos[0]
	if !entry.IsLocal() {
		t.Error("Expected local repo entry")
	}
	if entry.Rev != "" {
		t.Errorf("Expected empty rev for local repo, got %q", entry.Rev)
	}

	hook := entry.Hooks[0]
	if !hook.IsLocal() {
		t.Error("Expected hook with an entry to be local")
	}
	if hook.Entry != "bash -c 'exit 1'" {
		t.Errorf("Unexpected entry: %q", hook.Entry)
	}
	if hook.Language != "system" {
		t.Errorf("Unexpected language: %q", hook.Language)
	}

	re, err := regexp.Compile(hook.Files)
	if err != nil {
		t.Fatalf("Files pattern did not compile: %v", err)
	}
	if !re.MatchString("notebooks/analysis.ipynb") {
		t.Errorf("Pattern %q should match notebook paths", hook.Files)
	}
	if re.MatchString("main.go") {
		t.Errorf("Pattern %q should not match Go files", hook.Files)
	}
}

func TestLoadEmptyDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"comment only", "# nothing here yet\n"},
		{"explicit null", "null\n"},
		{"bare document marker", "---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromBytes([]byte(tt.content))
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if cfg.Repos == nil {
				t.Fatal("Repos should be an empty slice, not nil")
			}
			if len(cfg.Repos) != 0 {
				t.Errorf("Expected no repos, got %d", len(cfg.Repos))
			}
		})
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantMsg   string
		wantField string
		wantLine  int
	}{
		{
			name: "missing repo field",
			content: `repos:
  - rev: v1.0.0
`,
			wantMsg:   `repos[0]: missing required field "repo"`,
			wantField: "repos[0]",
			wantLine:  2,
		},
		{
			name: "repo is not a string",
			content: `repos:
  - repo: [not, a, string]
`,
			wantMsg:   `repos[0]: "repo" must be a string`,
			wantField: "repos[0].repo",
			wantLine:  2,
		},
		{
			name: "remote repo without rev",
			content: `repos:
  - repo: https://github.com/psf/black
    hooks:
      - id: black
`,
			wantMsg:   `repos[0] (https://github.com/psf/black): missing required field "rev"`,
			wantField: "repos[0]",
			wantLine:  2,
		},
		{
			name: "remote repo with empty rev",
			content: `repos:
  - repo: https://github.com/psf/black
    rev: ""
`,
			wantMsg:   `missing required field "rev"`,
			wantField: "repos[0]",
			wantLine:  2,
		},
		{
			name: "hook without id",
			content: `repos:
  - repo: local
    hooks:
      - name: unnamed
        entry: echo hi
`,
			wantMsg:   `repos[0].hooks[0]: missing required field "id"`,
			wantField: "repos[0].hooks[0]",
			wantLine:  4,
		},
		{
			name: "hook id is not a string",
			content: `repos:
  - repo: local
    hooks:
      - id: {bad: key}
`,
			wantMsg:   `repos[0].hooks[0]: "id" must be a string`,
			wantField: "repos[0].hooks[0].id",
			wantLine:  4,
		},
		{
			name: "args is not a sequence",
			content: `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        args: --check
`,
			wantMsg:   `repos[0].hooks[0]: "args" must be a sequence of strings`,
			wantField: "repos[0].hooks[0].args",
			wantLine:  6,
		},
		{
			name: "args contains an integer",
			content: `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        args: [--check, 3]
`,
			wantMsg:   `"args" entries must be strings, got an integer`,
			wantField: "repos[0].hooks[0].args",
			wantLine:  6,
		},
		{
			name: "args contains a boolean",
			content: `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        args: [true]
`,
			wantMsg:   `"args" entries must be strings, got a boolean`,
			wantField: "repos[0].hooks[0].args",
			wantLine:  6,
		},
		{
			name: "hook files pattern does not compile",
			content: `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        files: "(unclosed"
`,
			wantMsg:   "is not a valid regular expression",
			wantField: "repos[0].hooks[0].files",
			wantLine:  6,
		},
		{
			name: "global exclude pattern does not compile",
			content: `exclude: "["
repos: []
`,
			wantMsg:   "is not a valid regular expression",
			wantField: "exclude",
			wantLine:  1,
		},
		{
			name: "repos is not a sequence",
			content: `repos:
  black: true
`,
			wantMsg:   `"repos" must be a sequence`,
			wantField: "repos",
			wantLine:  2,
		},
		{
			name: "repo entry is not a mapping",
			content: `repos:
  - just-a-string
`,
			wantMsg:   "repos[0] must be a mapping",
			wantField: "repos[0]",
			wantLine:  2,
		},
		{
			name: "hooks is not a sequence",
			content: `repos:
  - repo: local
    hooks: not-a-list
`,
			wantMsg:   `repos[0]: "hooks" must be a sequence`,
			wantField: "repos[0].hooks",
			wantLine:  3,
		},
		{
			name: "minimum_version is not a string",
			content: `minimum_version: [3, 0]
repos: []
`,
			wantMsg:   `"minimum_version" must be a string`,
			wantField: "minimum_version",
			wantLine:  1,
		},
		{
			name:      "top-level document is a sequence",
			content:   "- one\n- two\n",
			wantMsg:   "top-level document must be a mapping",
			wantField: "",
			wantLine:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.content))
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}

			dotErr, ok := err.(*errors.DotkitError)
			if !ok {
				t.Fatalf("Expected *errors.DotkitError, got %T: %v", err, err)
			}
			if dotErr.Code != errors.ErrCodeConfigValidation {
				t.Errorf("Expected code %s, got %s", errors.ErrCodeConfigValidation, dotErr.Code)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.wantMsg)
			}
			if tt.wantLine > 0 {
				if got, ok := dotErr.Details["line"].(int); !ok || got != tt.wantLine {
					t.Errorf("Expected line %d in details, got %v", tt.wantLine, dotErr.Details["line"])
				}
				wantSuffix := fmt.Sprintf("(line %d)", tt.wantLine)
				if !strings.Contains(err.Error(), wantSuffix) {
					t.Errorf("Error %q should name %s", err.Error(), wantSuffix)
				}
			}
			if tt.wantField != "" {
				if got, _ := dotErr.Details["field"].(string); got != tt.wantField {
					t.Errorf("Expected field %q in details, got %q", tt.wantField, got)
				}
			}
		})
	}
}

func TestLoadTypeMismatchReportsLine(t *testing.T) {
	// The rev scalar passes the structural walk but fails the strict typed
	// decode, which carries the document line in its message.
	yamlContent := `repos:
  - repo: https://github.com/psf/black
    rev: 20
`

	_, err := LoadFromBytes([]byte(yamlContent))
	if err == nil {
		t.Fatal("Expected a decode error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("Expected code %s, got %v", errors.ErrCodeConfigInvalid, errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Error %q should name line 3", err.Error())
	}
}

func TestRoundTrip(t *testing.T) {
	yamlContent := `default_install_hook_types: [pre-commit, pre-push]
minimum_version: "3.2.0"
exclude: ^vendor/
ci:
  autofix_prs: false
  skip: [golangci-lint]
repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.6.0
    custom_key: custom-value
    hooks:
      - id: trailing-whitespace
      - id: end-of-file-fixer
        exclude: \.snap$
  - repo: local
    hooks:
      - id: golangci-lint
        name: golangci-lint
        entry: golangci-lint run
        language: system
        pass_filenames: false
        types: [go]
        log_file: lint.log
`

	cfg, err := LoadFromBytes([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Keys outside the typed model survive in the inline maps.
	if _, ok := cfg.Extensions["default_install_hook_types"]; !ok {
		t.Error("Top-level unknown key should land in Extensions")
	}
	if got := cfg.Repos[0].Extra["custom_key"]; got != "custom-value" {
		t.Errorf("Repo-level unknown key: expected custom-value, got %v", got)
	}
	if got := cfg.Repos[1].Hooks[0].Extra["log_file"]; got != "lint.log" {
		t.Errorf("Hook-level unknown key: expected lint.log, got %v", got)
	}

	pf := cfg.Repos[1].Hooks[0].PassFilenames
	if pf == nil || *pf != false {
		t.Error("Explicit pass_filenames: false should survive the load")
	}
	if cfg.CI == nil || cfg.CI.AutofixPRs == nil || *cfg.CI.AutofixPRs != false {
		t.Error("Explicit ci.autofix_prs: false should survive the load")
	}

	first, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	reloaded, err := LoadFromBytes(first)
	if err != nil {
		t.Fatalf("Failed to reload marshaled config: %v", err)
	}
	if !reflect.DeepEqual(cfg, reloaded) {
		t.Errorf("Reloaded config differs from original.\noriginal: %#v\nreloaded: %#v", cfg, reloaded)
	}

	second, err := Marshal(reloaded)
	if err != nil {
		t.Fatalf("Failed to re-marshal config: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Marshal is not stable across a load cycle.\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestMarshalOmitsEmptyOptionals(t *testing.T) {
	cfg := &Config{
		Repos: []RepoEntry{
			{
				Repo: "local",
				Hooks: []Hook{
					{ID: "fmt", Entry: "make fmt", Language: "system"},
				},
			},
		},
	}

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	out := string(data)
	for _, unwanted := range []string{"args:", "rev:", "ci:", "minimum_version:", "pass_filenames:"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("Marshaled config should omit %q:\n%s", unwanted, out)
		}
	}
	if !strings.Contains(out, "repos:") {
		t.Errorf("Marshaled config should always carry repos:\n%s", out)
	}
}

func TestMarshalEmptyConfig(t *testing.T) {
	data, err := Marshal(&Config{Repos: []RepoEntry{}})
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if !strings.Contains(string(data), "repos: []") {
		t.Errorf("Empty config should marshal an explicit empty repos list, got:\n%s", data)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigName)

	content := `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        language: system
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.HookCount() != 1 {
		t.Errorf("Expected 1 hook, got %d", cfg.HookCount())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	if err == nil {
		t.Fatal("Expected an error for missing file, got nil")
	}
	if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		t.Errorf("Expected code %s, got %v", errors.ErrCodeConfigNotFound, errors.GetCode(err))
	}
}

func TestLoadAddsPathDetail(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigName)

	content := `repos:
  - repo: https://github.com/psf/black
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected a validation error, got nil")
	}
	dotErr, ok := err.(*errors.DotkitError)
	if !ok {
		t.Fatalf("Expected *errors.DotkitError, got %T", err)
	}
	if got, _ := dotErr.Details["path"].(string); got != path {
		t.Errorf("Expected path detail %q, got %q", path, got)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigName)

	cfg := &Config{
		Repos: []RepoEntry{
			{
				Repo: "https://github.com/pre-commit/pre-commit-hooks",
				Rev:  "v4.6.0",
				Hooks: []Hook{
					{ID: "check-yaml"},
				},
			},
		},
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if !reflect.DeepEqual(cfg, reloaded) {
		t.Errorf("Reloaded config differs from saved.\nsaved: %#v\nreloaded: %#v", cfg, reloaded)
	}
}

func TestFindHook(t *testing.T) {
	cfg := &Config{
		Repos: []RepoEntry{
			{
				Repo: "https://github.com/pre-commit/pre-commit-hooks",
				Rev:  "v4.6.0",
				Hooks: []Hook{
					{ID: "check-yaml"},
					{ID: "trailing-whitespace", Alias: "tw"},
				},
			},
		},
	}

	entry, hook := cfg.FindHook("trailing-whitespace")
	if entry == nil || hook == nil {
		t.Fatal("Expected to find hook by id")
	}
	if hook.ID != "trailing-whitespace" {
		t.Errorf("Found wrong hook: %q", hook.ID)
	}

	_, byAlias := cfg.FindHook("tw")
	if byAlias == nil || byAlias.ID != "trailing-whitespace" {
		t.Error("Expected to find hook by alias")
	}

	entry, hook = cfg.FindHook("does-not-exist")
	if entry != nil || hook != nil {
		t.Error("Expected nil results for unknown hook id")
	}
}
