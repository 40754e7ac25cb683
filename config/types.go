package config

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// Sentinel repository references that do not point at a fetchable repository.
const (
	LocalRepo = "local"
	MetaRepo  = "meta"
)

// Config file names searched for, in order.
var ConfigFileNames = []string{
	".pre-commit-config.yaml",
	".pre-commit-config.yml",
}

// Config is a parsed pre-commit configuration document.
type Config struct {
	DefaultLanguageVersion  map[string]string `yaml:"default_language_version,omitempty" json:"default_language_version,omitempty" toml:"default_language_version,omitempty" jsonschema:"description=Runtime name to default interpreter version (e.g. python: python3)"`
	DefaultStages           []string          `yaml:"default_stages,omitempty" json:"default_stages,omitempty" toml:"default_stages,omitempty" jsonschema:"description=Stages hooks run in unless they declare their own"`
	Files                   string            `yaml:"files,omitempty" json:"files,omitempty" toml:"files,omitempty" jsonschema:"description=Global include regex applied before per-hook filters"`
	Exclude                 string            `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty" jsonschema:"description=Global exclude regex"`
	FailFast                bool              `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty" toml:"fail_fast,omitempty" jsonschema:"description=Stop after the first failing hook"`
	MinimumPreCommitVersion string            `yaml:"minimum_pre_commit_version,omitempty" json:"minimum_pre_commit_version,omitempty" toml:"minimum_pre_commit_version,omitempty" jsonschema:"description=Oldest orchestrator version able to read this file"`
	Repos                   []Repo            `yaml:"repos" json:"repos" toml:"repos" jsonschema:"required,description=Ordered hook declarations"`
}

// Repo is a single hook declaration: a tool repository pinned to a revision
// and the hooks used from it.
type Repo struct {
	Repo  string `yaml:"repo" json:"repo" toml:"repo" jsonschema:"required,minLength=1,description=Repository URL or path or one of the sentinels local and meta"`
	Rev   string `yaml:"rev,omitempty" json:"rev,omitempty" toml:"rev,omitempty" jsonschema:"description=Pinned revision (tag or commit) of a remote repository"`
	Hooks []Hook `yaml:"hooks,omitempty" json:"hooks,omitempty" toml:"hooks,omitempty" jsonschema:"description=Hooks used from this repository in execution order"`
}

// Hook selects a hook by id and optionally overrides its manifest definition.
type Hook struct {
	ID                     string   `yaml:"id" json:"id" toml:"id" jsonschema:"required,minLength=1,description=Hook identifier from the repository manifest"`
	Alias                  string   `yaml:"alias,omitempty" json:"alias,omitempty" toml:"alias,omitempty"`
	Name                   string   `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Description            string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Entry                  string   `yaml:"entry,omitempty" json:"entry,omitempty" toml:"entry,omitempty"`
	Language               string   `yaml:"language,omitempty" json:"language,omitempty" toml:"language,omitempty"`
	LanguageVersion        string   `yaml:"language_version,omitempty" json:"language_version,omitempty" toml:"language_version,omitempty"`
	Args                   []string `yaml:"args,omitempty" json:"args,omitempty" toml:"args,omitempty"`
	AdditionalDependencies []string `yaml:"additional_dependencies,omitempty" json:"additional_dependencies,omitempty" toml:"additional_dependencies,omitempty" jsonschema:"description=Extra packages installed into the hook environment"`
	Files                  string   `yaml:"files,omitempty" json:"files,omitempty" toml:"files,omitempty"`
	Exclude                string   `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`
	Types                  []string `yaml:"types,omitempty" json:"types,omitempty" toml:"types,omitempty"`
	TypesOr                []string `yaml:"types_or,omitempty" json:"types_or,omitempty" toml:"types_or,omitempty"`
	ExcludeTypes           []string `yaml:"exclude_types,omitempty" json:"exclude_types,omitempty" toml:"exclude_types,omitempty"`
	Stages                 []string `yaml:"stages,omitempty" json:"stages,omitempty" toml:"stages,omitempty"`
	AlwaysRun              *bool    `yaml:"always_run,omitempty" json:"always_run,omitempty" toml:"always_run,omitempty"`
	PassFilenames          *bool    `yaml:"pass_filenames,omitempty" json:"pass_filenames,omitempty" toml:"pass_filenames,omitempty"`
	RequireSerial          *bool    `yaml:"require_serial,omitempty" json:"require_serial,omitempty" toml:"require_serial,omitempty"`
	Verbose                bool     `yaml:"verbose,omitempty" json:"verbose,omitempty" toml:"verbose,omitempty"`
	LogFile                string   `yaml:"log_file,omitempty" json:"log_file,omitempty" toml:"log_file,omitempty"`
}

// HookRef is a flattened view of one hook together with the declaration it
// belongs to.
type HookRef struct {
	Repo                   string   `json:"repo" yaml:"repo"`
	Rev                    string   `json:"rev,omitempty" yaml:"rev,omitempty"`
	ID                     string   `json:"id" yaml:"id"`
	AdditionalDependencies []string `json:"additional_dependencies,omitempty" yaml:"additional_dependencies,omitempty"`
}

// IsLocal reports whether the hooks are defined inline in the config.
func (r Repo) IsLocal() bool { return r.Repo == LocalRepo }

// IsMeta reports whether the hooks are the orchestrator's built-in meta hooks.
func (r Repo) IsMeta() bool { return r.Repo == MetaRepo }

// IsRemote reports whether the declaration points at a fetchable repository.
func (r Repo) IsRemote() bool { return !r.IsLocal() && !r.IsMeta() }

// HookIDs returns the hook identifiers in declaration order.
func (r Repo) HookIDs() []string {
	ids := make([]string, 0, len(r.Hooks))
	for _, h := range r.Hooks {
		ids = append(ids, h.ID)
	}
	return ids
}

// AdditionalDependencies returns every additional dependency declared by the
// repo's hooks, in order.
func (r Repo) AdditionalDependencies() []string {
	var deps []string
	for _, h := range r.Hooks {
		deps = append(deps, h.AdditionalDependencies...)
	}
	return deps
}

// Hooks flattens all declarations into HookRefs, preserving execution order.
func (c *Config) Hooks() []HookRef {
	var refs []HookRef
	for _, repo := range c.Repos {
		for _, h := range repo.Hooks {
			refs = append(refs, HookRef{
				Repo:                   repo.Repo,
				Rev:                    repo.Rev,
				ID:                     h.ID,
				AdditionalDependencies: h.AdditionalDependencies,
			})
		}
	}
	return refs
}

// FindRepo returns the first declaration whose repo matches ref.
func (c *Config) FindRepo(ref string) (*Repo, bool) {
	for i := range c.Repos {
		if c.Repos[i].Repo == ref {
			return &c.Repos[i], true
		}
	}
	return nil, false
}

// RemoteRepos returns the declarations that must be fetched.
func (c *Config) RemoteRepos() []Repo {
	var repos []Repo
	for _, r := range c.Repos {
		if r.IsRemote() {
			repos = append(repos, r)
		}
	}
	return repos
}

// normalize replaces empty collections with nil. Encoders omit empty
// collections, so without this `hooks: []` or `args: []` would not survive
// an encode/decode round trip.
func (c *Config) normalize() {
	if len(c.DefaultLanguageVersion) == 0 {
		c.DefaultLanguageVersion = nil
	}
	c.DefaultStages = nilIfEmpty(c.DefaultStages)
	for i := range c.Repos {
		repo := &c.Repos[i]
		if len(repo.Hooks) == 0 {
			repo.Hooks = nil
		}
		for j := range repo.Hooks {
			h := &repo.Hooks[j]
			h.Args = nilIfEmpty(h.Args)
			h.AdditionalDependencies = nilIfEmpty(h.AdditionalDependencies)
			h.Types = nilIfEmpty(h.Types)
			h.TypesOr = nilIfEmpty(h.TypesOr)
			h.ExcludeTypes = nilIfEmpty(h.ExcludeTypes)
			h.Stages = nilIfEmpty(h.Stages)
		}
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
