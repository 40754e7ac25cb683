package manifest

import (
	"fmt"

	"github.com/grovetools/hookcfg/config"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ResolvedHook is a manifest definition with the config's overrides applied.
type ResolvedHook struct {
	Repo                   string   `yaml:"repo" json:"repo"`
	Rev                    string   `yaml:"rev,omitempty" json:"rev,omitempty"`
	ID                     string   `yaml:"id" json:"id"`
	Name                   string   `yaml:"name" json:"name"`
	Entry                  string   `yaml:"entry" json:"entry"`
	Language               string   `yaml:"language" json:"language"`
	Alias                  string   `yaml:"alias,omitempty" json:"alias,omitempty"`
	Description            string   `yaml:"description,omitempty" json:"description,omitempty"`
	LanguageVersion        string   `yaml:"language_version,omitempty" json:"language_version,omitempty"`
	Args                   []string `yaml:"args,omitempty" json:"args,omitempty"`
	AdditionalDependencies []string `yaml:"additional_dependencies,omitempty" json:"additional_dependencies,omitempty"`
	Files                  string   `yaml:"files,omitempty" json:"files,omitempty"`
	Exclude                string   `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Types                  []string `yaml:"types,omitempty" json:"types,omitempty"`
	TypesOr                []string `yaml:"types_or,omitempty" json:"types_or,omitempty"`
	ExcludeTypes           []string `yaml:"exclude_types,omitempty" json:"exclude_types,omitempty"`
	Stages                 []string `yaml:"stages,omitempty" json:"stages,omitempty"`
	AlwaysRun              bool     `yaml:"always_run" json:"always_run"`
	PassFilenames          bool     `yaml:"pass_filenames" json:"pass_filenames"`
	RequireSerial          bool     `yaml:"require_serial" json:"require_serial"`
	Verbose                bool     `yaml:"verbose" json:"verbose"`
	LogFile                string   `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

// defaults mirror the orchestrator's manifest defaults.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"files":          "",
		"exclude":        "^$",
		"types":          []interface{}{"file"},
		"always_run":     false,
		"pass_filenames": true,
		"require_serial": false,
		"verbose":        false,
	}
}

// Resolve overlays the keys explicitly set on hook over def. Keys set in the
// config win; everything else comes from the manifest, then from defaults.
func Resolve(def Definition, hook config.Hook) (ResolvedHook, error) {
	merged := defaults()

	for _, layer := range []interface{}{def, hook} {
		m, err := toMap(layer)
		if err != nil {
			return ResolvedHook{}, err
		}
		for k, v := range m {
			merged[k] = v
		}
	}

	var resolved ResolvedHook
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		Result:           &resolved,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ResolvedHook{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(merged); err != nil {
		return ResolvedHook{}, fmt.Errorf("resolve hook %s: %w", hook.ID, err)
	}
	return resolved, nil
}

// toMap returns only the keys a YAML encoding of v would emit, so omitted
// (unset) config fields never shadow manifest values.
func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode hook: %w", err)
	}
	m := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode hook: %w", err)
	}
	return m, nil
}
