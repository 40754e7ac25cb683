package config

import (
	"fmt"

	"github.com/grovetools/hookcfg/errors"
)

// MetaHookIDs are the hooks the orchestrator provides under `repo: meta`.
var MetaHookIDs = map[string]bool{
	"check-hooks-apply":      true,
	"check-useless-excludes": true,
	"identity":               true,
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for runtime, version := range c.DefaultLanguageVersion {
		if runtime == "" || version == "" {
			return errors.New(errors.ErrCodeConfigValidation, "default_language_version entries must name a runtime and a version").
				WithDetail("runtime", runtime)
		}
	}

	if err := validateRegex("files", c.Files); err != nil {
		return err
	}
	if err := validateRegex("exclude", c.Exclude); err != nil {
		return err
	}

	for i, repo := range c.Repos {
		r := repo
		if err := validateRepo(&r); err != nil {
			if hookErr, ok := errors.As(err); ok {
				hookErr.WithDetail("index", i)
			}
			return err
		}
	}

	return nil
}

func validateRepo(repo *Repo) error {
	if repo.Repo == "" {
		return errors.New(errors.ErrCodeConfigValidation, "repo cannot be empty")
	}

	switch {
	case repo.IsRemote() && repo.Rev == "":
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("repo '%s' must pin a rev", repo.Repo)).
			WithDetail("repo", repo.Repo)
	case !repo.IsRemote() && repo.Rev != "":
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("'%s' repos cannot specify a rev", repo.Repo)).
			WithDetail("repo", repo.Repo).
			WithDetail("rev", repo.Rev)
	}

	seen := make(map[string]bool, len(repo.Hooks))
	for _, hook := range repo.Hooks {
		if hook.ID == "" {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("hook id cannot be empty in repo '%s'", repo.Repo)).
				WithDetail("repo", repo.Repo)
		}
		if seen[hook.ID] {
			return errors.DuplicateHook(repo.Repo, hook.ID)
		}
		seen[hook.ID] = true

		h := hook
		if err := validateHook(repo, &h); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid hook '%s' in repo '%s'", hook.ID, repo.Repo)).
				WithDetail("repo", repo.Repo).
				WithDetail("hook", hook.ID)
		}
	}

	return nil
}

func validateHook(repo *Repo, hook *Hook) error {
	for _, dep := range hook.AdditionalDependencies {
		if dep == "" {
			return errors.New(errors.ErrCodeConfigValidation, "additional dependency cannot be empty")
		}
	}

	if err := validateRegex("files", hook.Files); err != nil {
		return err
	}
	if err := validateRegex("exclude", hook.Exclude); err != nil {
		return err
	}

	switch {
	case repo.IsLocal():
		if hook.Name == "" || hook.Entry == "" || hook.Language == "" {
			return errors.New(errors.ErrCodeConfigValidation, "local hooks must define name, entry and language")
		}
	case repo.IsMeta():
		if !MetaHookIDs[hook.ID] {
			return errors.New(errors.ErrCodeHookNotFound, fmt.Sprintf("'%s' is not a meta hook", hook.ID)).
				WithDetail("hook", hook.ID)
		}
	}

	return nil
}

// validateRegex checks that a files/exclude pattern compiles
func validateRegex(field, pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, err := CompilePattern(pattern); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("%s is not a valid regular expression", field)).
			WithDetail("pattern", pattern)
	}
	return nil
}
