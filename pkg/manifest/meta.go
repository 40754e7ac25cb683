package manifest

import "regexp"

var configFilePattern = "^" + regexp.QuoteMeta(".pre-commit-config.yaml") + "$"

// Meta is the manifest of hooks available under `repo: meta`.
var Meta = mustMeta()

func mustMeta() *Manifest {
	defs := []Definition{
		{
			ID:       "check-hooks-apply",
			Name:     "Check hooks apply to the repository",
			Entry:    "hookcfg meta check-hooks-apply",
			Language: "system",
			Files:    configFilePattern,
		},
		{
			ID:       "check-useless-excludes",
			Name:     "Check for useless excludes",
			Entry:    "hookcfg meta check-useless-excludes",
			Language: "system",
			Files:    configFilePattern,
		},
		{
			ID:       "identity",
			Name:     "identity",
			Entry:    "hookcfg meta identity",
			Language: "system",
			Verbose:  true,
		},
	}
	m := &Manifest{Path: "meta", Hooks: defs, index: make(map[string]int, len(defs))}
	for i, d := range defs {
		m.index[d.ID] = i
	}
	return m
}
