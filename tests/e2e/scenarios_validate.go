package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ValidateConfigScenario checks that a well-formed configuration passes.
func ValidateConfigScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "hookcfg-validate-valid",
		Description: "Verifies that a well-formed configuration validates and lists its hooks.",
		Tags:        []string{"hookcfg", "validate"},
		Steps: []harness.Step{
			harness.NewStep("Validate a well-formed configuration", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("valid-project")
				ctx.Set("valid_project", projectDir)
				if err := fs.WriteString(filepath.Join(projectDir, ".pre-commit-config.yaml"), validConfig); err != nil {
					return err
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "validate").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if err := assert.Equal(0, result.ExitCode, "validate should succeed"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "is valid", "validate should report success")
			}),
			harness.NewStep("List hooks from a subdirectory", func(ctx *harness.Context) error {
				projectDir := ctx.GetString("valid_project")
				subDir := filepath.Join(projectDir, "src", "pkg")
				if err := fs.CreateDir(subDir); err != nil {
					return err
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "hooks", "--json").Dir(subDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode != 0 {
					return fmt.Errorf("hooks failed with exit code %d: %s", result.ExitCode, result.Stderr)
				}
				if err := assert.Contains(result.Stdout, `"id": "isort"`, "isort should be listed"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, `"rev": "v5.7.0"`, "isort should be pinned"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "pep8-naming", "flake8 dependencies should be listed")
			}),
		},
	}
}

// InvalidConfigScenario checks that a broken configuration fails with a
// readable message.
func InvalidConfigScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "hookcfg-validate-invalid",
		Description: "Verifies that duplicate hooks and unknown keys are rejected.",
		Tags:        []string{"hookcfg", "validate"},
		Steps: []harness.Step{
			harness.NewStep("Reject a duplicate hook id", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("duplicate-project")
				if err := fs.WriteString(filepath.Join(projectDir, ".pre-commit-config.yaml"), duplicateHookConfig); err != nil {
					return err
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "validate").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode == 0 {
					return fmt.Errorf("validate should fail for a duplicate hook")
				}
				return assert.Contains(result.Stderr, "declared more than once", "error should name the duplicate")
			}),
			harness.NewStep("Reject an unknown key", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("unknown-key-project")
				content := "repos: []\nrepositories: []\n"
				if err := fs.WriteString(filepath.Join(projectDir, ".pre-commit-config.yaml"), content); err != nil {
					return err
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "validate").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode == 0 {
					return fmt.Errorf("validate should fail for an unknown key")
				}
				return assert.Contains(result.Stderr, "schema", "error should come from schema validation")
			}),
			harness.NewStep("Report a missing configuration", func(ctx *harness.Context) error {
				emptyDir := ctx.NewDir("empty-project")

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "validate").Dir(emptyDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode == 0 {
					return fmt.Errorf("validate should fail without a configuration")
				}
				return assert.Contains(result.Stderr, "No .pre-commit-config.yaml found", "error should explain what is missing")
			}),
		},
	}
}

// ExportRoundTripScenario converts the configuration to TOML and back.
func ExportRoundTripScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "hookcfg-export-roundtrip",
		Description: "Verifies that exported YAML validates and matches the original hooks.",
		Tags:        []string{"hookcfg", "export"},
		Steps: []harness.Step{
			harness.NewStep("Export as TOML", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("export-project")
				ctx.Set("export_project", projectDir)
				if err := fs.WriteString(filepath.Join(projectDir, ".pre-commit-config.yaml"), validConfig); err != nil {
					return err
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "export", "-o", "hooks.toml").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode != 0 {
					return fmt.Errorf("export failed with exit code %d: %s", result.ExitCode, result.Stderr)
				}

				content, err := fs.ReadString(filepath.Join(projectDir, "hooks.toml"))
				if err != nil {
					return err
				}
				return assert.Contains(content, "https://github.com/pre-commit/mirrors-isort", "TOML should carry the repo")
			}),
			harness.NewStep("Re-export as YAML and validate it", func(ctx *harness.Context) error {
				projectDir := ctx.GetString("export_project")
				roundTripDir := ctx.NewDir("roundtrip-project")

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				target := filepath.Join(roundTripDir, ".pre-commit-config.yaml")
				cmd := ctx.Command(bin, "export", "--format", "yaml", "-o", target).Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode != 0 {
					return fmt.Errorf("export failed with exit code %d: %s", result.ExitCode, result.Stderr)
				}

				cmd = ctx.Command(bin, "hooks", "--json").Dir(roundTripDir)
				result = cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode != 0 {
					return fmt.Errorf("hooks failed on exported config: %s", result.Stderr)
				}
				return assert.Contains(result.Stdout, `"id": "flake8"`, "flake8 should survive the round trip")
			}),
		},
	}
}
