package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// InstallHookScenario installs the pre-commit shim and checks that a broken
// configuration blocks the commit.
func InstallHookScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "hookcfg-install-blocks-commit",
		Description: "Verifies that the installed git hook rejects commits with an invalid configuration.",
		Tags:        []string{"hookcfg", "git"},
		Steps: []harness.Step{
			harness.NewStep("Initialize repository and install hook", func(ctx *harness.Context) error {
				repoDir := ctx.NewDir("hooked-repo")
				ctx.Set("repo_dir", repoDir)

				for _, args := range [][]string{
					{"init", "--quiet"},
					{"config", "user.name", "Test User"},
					{"config", "user.email", "test@example.com"},
					{"config", "commit.gpgsign", "false"},
				} {
					result := ctx.Command("git", args...).Dir(repoDir).Run()
					if result.ExitCode != 0 {
						return fmt.Errorf("git %v failed: %s", args, result.Stderr)
					}
				}

				bin, err := findHookcfgBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "install").Dir(repoDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if err := assert.Equal(0, result.ExitCode, "install should succeed"); err != nil {
					return err
				}

				hook, err := fs.ReadString(filepath.Join(repoDir, ".git", "hooks", "pre-commit"))
				if err != nil {
					return err
				}
				return assert.Contains(hook, "hookcfg git hook", "hook should carry the hookcfg marker")
			}),
			harness.NewStep("Commit a valid configuration", func(ctx *harness.Context) error {
				repoDir := ctx.GetString("repo_dir")
				if err := fs.WriteString(filepath.Join(repoDir, ".pre-commit-config.yaml"), validConfig); err != nil {
					return err
				}

				ctx.Command("git", "add", ".pre-commit-config.yaml").Dir(repoDir).Run()
				cmd := ctx.Command("git", "commit", "-m", "Add hook configuration").Dir(repoDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				return assert.Equal(0, result.ExitCode, "commit with a valid configuration should succeed")
			}),
			harness.NewStep("Commit a broken configuration", func(ctx *harness.Context) error {
				repoDir := ctx.GetString("repo_dir")
				if err := fs.WriteString(filepath.Join(repoDir, ".pre-commit-config.yaml"), duplicateHookConfig); err != nil {
					return err
				}

				ctx.Command("git", "add", ".pre-commit-config.yaml").Dir(repoDir).Run()
				cmd := ctx.Command("git", "commit", "-m", "Break hook configuration").Dir(repoDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.ExitCode == 0 {
					return fmt.Errorf("commit with a broken configuration should be rejected")
				}
				return assert.Contains(result.Stderr, "declared more than once", "hook output should explain the failure")
			}),
		},
	}
}
