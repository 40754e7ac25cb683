package config

import (
	"strings"
	"testing"
)

func TestSchemaValidation(t *testing.T) {
	validator, err := NewSchemaValidator()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		config    interface{}
		wantError bool
		errorMsg  string
	}{
		{
			name: "struct config",
			config: &Config{
				DefaultLanguageVersion: map[string]string{"python": "python3"},
				Repos: []Repo{{
					Repo:  "https://github.com/psf/black",
					Rev:   "20.8b1",
					Hooks: []Hook{{ID: "black"}},
				}},
			},
		},
		{
			name: "raw config with bad stage list",
			config: map[string]interface{}{
				"repos":          []interface{}{},
				"default_stages": "commit",
			},
			wantError: true,
			errorMsg:  "/default_stages",
		},
		{
			name: "declaration with unknown key",
			config: map[string]interface{}{
				"repos": []interface{}{
					map[string]interface{}{"repo": "local", "revision": "v1"},
				},
			},
			wantError: true,
			errorMsg:  "/repos/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.config)
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
