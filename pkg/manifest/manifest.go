// Package manifest reads the hook manifest a hook repository publishes
// (.pre-commit-hooks.yaml) and resolves configured hooks against it.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/hookcfg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file at the root of a hook repository.
const FileName = ".pre-commit-hooks.yaml"

// Definition is a hook as published by its repository.
type Definition struct {
	ID                      string   `yaml:"id"`
	Name                    string   `yaml:"name"`
	Entry                   string   `yaml:"entry"`
	Language                string   `yaml:"language"`
	Alias                   string   `yaml:"alias,omitempty"`
	Description             string   `yaml:"description,omitempty"`
	LanguageVersion         string   `yaml:"language_version,omitempty"`
	Args                    []string `yaml:"args,omitempty"`
	AdditionalDependencies  []string `yaml:"additional_dependencies,omitempty"`
	Files                   string   `yaml:"files,omitempty"`
	Exclude                 string   `yaml:"exclude,omitempty"`
	Types                   []string `yaml:"types,omitempty"`
	TypesOr                 []string `yaml:"types_or,omitempty"`
	ExcludeTypes            []string `yaml:"exclude_types,omitempty"`
	Stages                  []string `yaml:"stages,omitempty"`
	AlwaysRun               *bool    `yaml:"always_run,omitempty"`
	PassFilenames           *bool    `yaml:"pass_filenames,omitempty"`
	RequireSerial           *bool    `yaml:"require_serial,omitempty"`
	Verbose                 bool     `yaml:"verbose,omitempty"`
	LogFile                 string   `yaml:"log_file,omitempty"`
	MinimumPreCommitVersion string   `yaml:"minimum_pre_commit_version,omitempty"`
}

// Manifest is the ordered list of hooks a repository exposes.
type Manifest struct {
	Path  string
	Hooks []Definition
	index map[string]int
}

// Load reads the manifest at the root of dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeManifestNotFound, fmt.Sprintf("no %s in %s", FileName, dir)).
				WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeManifestInvalid, "failed to read hook manifest").
			WithDetail("path", path)
	}

	m, err := Parse(data)
	if err != nil {
		if hookErr, ok := errors.As(err); ok {
			hookErr.WithDetail("path", path)
		}
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse decodes and validates manifest contents.
func Parse(data []byte) (*Manifest, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeManifestInvalid, "failed to parse hook manifest")
	}

	m := &Manifest{Hooks: defs, index: make(map[string]int, len(defs))}
	for i, def := range defs {
		switch {
		case def.ID == "":
			return nil, errors.New(errors.ErrCodeManifestInvalid, fmt.Sprintf("hook #%d has no id", i+1))
		case def.Name == "" || def.Entry == "" || def.Language == "":
			return nil, errors.New(errors.ErrCodeManifestInvalid, fmt.Sprintf("hook '%s' must define name, entry and language", def.ID)).
				WithDetail("hook", def.ID)
		}
		if _, dup := m.index[def.ID]; dup {
			return nil, errors.New(errors.ErrCodeManifestInvalid, fmt.Sprintf("hook '%s' is defined more than once", def.ID)).
				WithDetail("hook", def.ID)
		}
		m.index[def.ID] = i
	}
	return m, nil
}

// Lookup returns the definition with the given id.
func (m *Manifest) Lookup(id string) (Definition, bool) {
	i, ok := m.index[id]
	if !ok {
		return Definition{}, false
	}
	return m.Hooks[i], true
}

// IDs returns the hook ids in manifest order.
func (m *Manifest) IDs() []string {
	ids := make([]string, 0, len(m.Hooks))
	for _, h := range m.Hooks {
		ids = append(ids, h.ID)
	}
	return ids
}
