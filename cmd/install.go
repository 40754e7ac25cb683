package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/hookcfg/git"
	"github.com/grovetools/hookcfg/logging"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the `install` command
func NewInstallCmd() *cobra.Command {
	var binary string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a git pre-commit hook that validates the configuration",
		Long: `Install a git pre-commit hook that runs 'hookcfg validate' before every
commit, so a broken configuration cannot be committed.

An existing pre-commit hook is kept as pre-commit.pre-hookcfg and still runs
first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := repoRoot(cmd)
			if err != nil {
				return err
			}
			bin := binary
			if bin == "" {
				bin = selfPath()
			}
			if err := git.NewHookManager(bin).InstallHooks(cmd.Context(), root); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Installed pre-commit hook in %s", root))
			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "binary", "", "hookcfg binary the hook runs (default: this executable)")

	return cmd
}

// NewUninstallCmd creates the `uninstall` command
func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hookcfg pre-commit hook",
		Long: `Remove the pre-commit hook written by 'hookcfg install' and restore the
hook it replaced. Hooks not written by hookcfg are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := repoRoot(cmd)
			if err != nil {
				return err
			}
			if err := git.NewHookManager("").UninstallHooks(cmd.Context(), root); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Removed pre-commit hook from %s", root))
			return nil
		},
	}
}

func repoRoot(cmd *cobra.Command) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return git.NewCLIRepository().GetGitRoot(cmd.Context(), cwd)
}

func selfPath() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return "hookcfg"
}
