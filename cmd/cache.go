package cmd

import (
	"fmt"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/logging"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the `cache` command
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the hook repository store",
	}

	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheCleanCmd())

	return cmd
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fetched hook repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			entries, err := st.List()
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No repositories in %s\n", st.Root())
				return nil
			}
			table := cli.NewTable("REPO", "REV", "COMMIT", "FETCHED")
			for _, e := range entries {
				table.Row(e.Repo, e.Rev, shortCommit(e.Commit), e.FetchedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(out, table.String())
			return nil
		},
	}
}

func newCacheCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove every fetched hook repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			if err := st.Clean(); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Cleaned %s", st.Root()))
			return nil
		},
	}
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
