package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/pkg/check"
	"github.com/spf13/cobra"
)

// NewHooksCmd creates the `hooks` command
func NewHooksCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List the declared hooks in execution order",
		Long: `List every hook the configuration declares, in execution order.

With --resolve the hook repositories are fetched and each hook is shown as
the orchestrator would run it, with manifest values and config overrides
merged.

Examples:
  hookcfg hooks
  hookcfg hooks --resolve --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := cli.GetOptions(cmd)
			out := cmd.OutOrStdout()

			if !resolve {
				refs := cfg.Hooks()
				if opts.JSONOutput {
					return writeJSON(cmd, refs)
				}
				if len(refs) == 0 {
					fmt.Fprintln(out, "No hooks declared.")
					return nil
				}
				table := cli.NewTable("REPO", "REV", "ID", "DEPENDENCIES")
				for _, ref := range refs {
					table.Row(ref.Repo, ref.Rev, ref.ID, strings.Join(ref.AdditionalDependencies, ", "))
				}
				fmt.Fprintln(out, table.String())
				return nil
			}

			st, settings, err := openStore(cmd)
			if err != nil {
				return err
			}
			report, err := check.New(st, settings.Jobs).Check(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := summarize(cmd.ErrOrStderr(), failed(report), len(cfg.Repos)); err != nil {
				return err
			}

			hooks := report.Hooks()
			if opts.JSONOutput {
				return writeJSON(cmd, hooks)
			}
			table := cli.NewTable("ID", "NAME", "LANGUAGE", "ENTRY", "STAGES")
			for _, h := range hooks {
				table.Row(h.ID, h.Name, h.Language, h.Entry, strings.Join(h.Stages, ", "))
			}
			fmt.Fprintln(out, table.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Fetch hook repositories and show resolved definitions")

	return cmd
}

func failed(report *check.Report) []check.Result {
	var failures []check.Result
	for _, res := range report.Results {
		if res.Err != nil {
			failures = append(failures, res)
		}
	}
	return failures
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
