package config

import (
	"testing"

	"github.com/grovetools/hookcfg/errors"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr errors.ErrorCode
	}{
		{
			name: "valid remote",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Rev: "20.8b1",
				Hooks: []Hook{{ID: "black"}},
			}}},
		},
		{
			name: "empty repo",
			config: Config{Repos: []Repo{{
				Rev: "v1", Hooks: []Hook{{ID: "x"}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "remote without rev",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Hooks: []Hook{{ID: "black"}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "local with rev",
			config: Config{Repos: []Repo{{
				Repo: "local", Rev: "v1",
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "empty hook id",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Rev: "20.8b1", Hooks: []Hook{{}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "duplicate hook id",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Rev: "20.8b1",
				Hooks: []Hook{{ID: "black"}, {ID: "black", Args: []string{"--check"}}},
			}}},
			wantErr: errors.ErrCodeDuplicateHook,
		},
		{
			name: "same id in different repos",
			config: Config{Repos: []Repo{
				{Repo: "https://github.com/psf/black", Rev: "20.8b1", Hooks: []Hook{{ID: "black"}}},
				{Repo: "https://github.com/psf/black", Rev: "21.5b0", Hooks: []Hook{{ID: "black"}}},
			}},
		},
		{
			name: "empty additional dependency",
			config: Config{Repos: []Repo{{
				Repo: "https://gitlab.com/pycqa/flake8", Rev: "3.8.4",
				Hooks: []Hook{{ID: "flake8", AdditionalDependencies: []string{"pep8-naming", ""}}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "bad hook regex",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Rev: "20.8b1",
				Hooks: []Hook{{ID: "black", Files: "(["}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name:    "bad global exclude",
			config:  Config{Exclude: "(["},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "verbose global exclude",
			config: Config{Exclude: "(?x)^(\n    docs/.*|\n    setup\\.py\n)$"},
		},
		{
			name: "lookahead and backreference",
			config: Config{Repos: []Repo{{
				Repo: "https://github.com/psf/black", Rev: "20.8b1",
				Hooks: []Hook{{ID: "black", Files: `^(?!tests/).*\.py$`, Exclude: `^(\w+)/\1_`}},
			}}},
		},
		{
			name: "local hook missing entry",
			config: Config{Repos: []Repo{{
				Repo: "local", Hooks: []Hook{{ID: "pylint", Name: "pylint", Language: "system"}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name: "complete local hook",
			config: Config{Repos: []Repo{{
				Repo: "local", Hooks: []Hook{{ID: "pylint", Name: "pylint", Entry: "pylint", Language: "system"}},
			}}},
		},
		{
			name: "known meta hook",
			config: Config{Repos: []Repo{{
				Repo: "meta", Hooks: []Hook{{ID: "check-hooks-apply"}},
			}}},
		},
		{
			name: "unknown meta hook",
			config: Config{Repos: []Repo{{
				Repo: "meta", Hooks: []Hook{{ID: "check-everything"}},
			}}},
			wantErr: errors.ErrCodeConfigValidation,
		},
		{
			name:    "empty language version",
			config:  Config{DefaultLanguageVersion: map[string]string{"python": ""}},
			wantErr: errors.ErrCodeConfigValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s, got nil", tt.wantErr)
			}
			if code := errors.GetCode(err); code != tt.wantErr {
				t.Errorf("expected %s, got %s (%v)", tt.wantErr, code, err)
			}
		})
	}
}

func TestValidateErrorDetails(t *testing.T) {
	cfg := Config{Repos: []Repo{
		{Repo: "https://github.com/psf/black", Rev: "20.8b1", Hooks: []Hook{{ID: "black"}}},
		{Repo: "https://github.com/pre-commit/mirrors-isort", Hooks: []Hook{{ID: "isort"}}},
	}}

	err := cfg.Validate()
	hookErr, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected a HookError, got %v", err)
	}
	if hookErr.Details["index"] != 1 {
		t.Errorf("expected index detail 1, got %v", hookErr.Details["index"])
	}
	if hookErr.Details["repo"] != "https://github.com/pre-commit/mirrors-isort" {
		t.Errorf("expected repo detail, got %v", hookErr.Details["repo"])
	}
}
