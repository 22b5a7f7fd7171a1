// Package precommit models the .pre-commit-config.yaml hook-runner
// configuration: an ordered list of hook sources, each bundling an ordered
// list of hook descriptors. dotkit loads, validates, rewrites, and watches
// this file; running the hooks is the external runner's job.
package precommit

//go:generate sh -c "cd .. && go run ./tools/hooks-schema-generator/"

// LocalRepo and MetaRepo are the sentinel repo values that carry no revision.
const (
	LocalRepo = "local"
	MetaRepo  = "meta"
)

// Hook describes a single hook invocation within a repo entry.
// Fields mirror the hook-runner's per-hook keys; unknown keys are captured
// in Extra so a load/save cycle never drops data.
type Hook struct {
	ID           string   `yaml:"id" jsonschema:"description=Hook identifier as published by the source repository"`
	Name         string   `yaml:"name,omitempty" jsonschema:"description=Display name override"`
	Alias        string   `yaml:"alias,omitempty" jsonschema:"description=Additional id the hook can be invoked by"`
	Args         []string `yaml:"args,omitempty" jsonschema:"description=Extra arguments passed to the hook entry point"`
	Files        string   `yaml:"files,omitempty" jsonschema:"description=Filename pattern the hook runs on"`
	Exclude      string   `yaml:"exclude,omitempty" jsonschema:"description=Filename pattern the hook skips"`
	Types        []string `yaml:"types,omitempty" jsonschema:"description=File types the hook runs on (AND semantics)"`
	TypesOr      []string `yaml:"types_or,omitempty" jsonschema:"description=File types the hook runs on (OR semantics)"`
	ExcludeTypes []string `yaml:"exclude_types,omitempty" jsonschema:"description=File types the hook skips"`

	// Local hook fields: the inline command and its execution language.
	Entry    string `yaml:"entry,omitempty" jsonschema:"description=Command to run (local hooks)"`
	Language string `yaml:"language,omitempty" jsonschema:"description=Execution language of the entry point (local hooks)"`

	AdditionalDependencies []string `yaml:"additional_dependencies,omitempty" jsonschema:"description=Extra packages installed into the hook environment"`
	Stages                 []string `yaml:"stages,omitempty" jsonschema:"description=Git hook stages the hook is installed for"`
	AlwaysRun              bool     `yaml:"always_run,omitempty" jsonschema:"description=Run even when no files match"`
	PassFilenames          *bool    `yaml:"pass_filenames,omitempty" jsonschema:"description=Whether matched filenames are passed as arguments"`

	// Extra captures hook keys this model does not type.
	Extra map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// IsLocal reports whether the hook carries an inline command.
func (h *Hook) IsLocal() bool {
	return h.Entry != ""
}

// DisplayName returns the name shown in listings, falling back to the id.
func (h *Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// RepoEntry references a hook source: a remote repository pinned to a
// revision, or the local/meta sentinels.
type RepoEntry struct {
	Repo  string `yaml:"repo" jsonschema:"description=Source repository URL or the sentinel local/meta"`
	Rev   string `yaml:"rev,omitempty" jsonschema:"description=Pinned revision (required for remote sources)"`
	Hooks []Hook `yaml:"hooks,omitempty" jsonschema:"description=Hooks provided by this source in document order"`

	// Extra captures repo-entry keys this model does not type.
	Extra map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// IsLocal reports whether the entry is one of the revision-less sentinels.
func (r *RepoEntry) IsLocal() bool {
	return r.Repo == LocalRepo || r.Repo == MetaRepo
}

// CIConfig holds the pre-commit.ci service block.
type CIConfig struct {
	AutofixPRs          *bool    `yaml:"autofix_prs,omitempty" jsonschema:"description=Whether the CI service pushes autofix commits to pull requests"`
	AutofixCommitMsg    string   `yaml:"autofix_commit_msg,omitempty" jsonschema:"description=Commit message used for autofix commits"`
	AutoupdateSchedule  string   `yaml:"autoupdate_schedule,omitempty" jsonschema:"description=How often the service proposes rev updates"`
	AutoupdateCommitMsg string   `yaml:"autoupdate_commit_msg,omitempty" jsonschema:"description=Commit message used for autoupdate commits"`
	Skip                []string `yaml:"skip,omitempty" jsonschema:"description=Hook ids the CI service skips"`
	Submodules          bool     `yaml:"submodules,omitempty" jsonschema:"description=Whether submodules are checked out in CI"`
}

// Config is the full hook-runner configuration document. Repos and their
// hooks keep document order through load and marshal, and the structure is
// never mutated after load (autoupdate returns a rewritten copy).
type Config struct {
	MinimumVersion string      `yaml:"minimum_version,omitempty" jsonschema:"description=Minimum hook-runner version this config requires"`
	Exclude        string      `yaml:"exclude,omitempty" jsonschema:"description=Global filename pattern excluded from all hooks"`
	CI             *CIConfig   `yaml:"ci,omitempty" jsonschema:"description=pre-commit.ci service settings"`
	Repos          []RepoEntry `yaml:"repos" jsonschema:"description=Hook sources in document order"`

	// Extensions captures unknown top-level keys so they survive a
	// load/save cycle.
	Extensions map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// HookCount returns the total number of hooks across all repo entries.
func (c *Config) HookCount() int {
	n := 0
	for i := range c.Repos {
		n += len(c.Repos[i].Hooks)
	}
	return n
}

// FindHook returns the first hook with the given id or alias and the entry
// that owns it. Hook ids are not unique; callers that care about duplicates
// iterate Repos directly.
func (c *Config) FindHook(id string) (*RepoEntry, *Hook) {
	for i := range c.Repos {
		for j := range c.Repos[i].Hooks {
			h := &c.Repos[i].Hooks[j]
			if h.ID == id || h.Alias == id {
				return &c.Repos[i], h
			}
		}
	}
	return nil, nil
}
