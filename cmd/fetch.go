package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/pkg/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// FetchResult is one repository in the --json output of fetch.
type FetchResult struct {
	Repo   string `json:"repo"`
	Rev    string `json:"rev"`
	Path   string `json:"path,omitempty"`
	Commit string `json:"commit,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewFetchCmd creates the `fetch` command
func NewFetchCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every hook repository at its pinned revision",
		Long: `Fetch every remote hook repository into the local store.

Repositories already in the store are not fetched again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, settings, err := openStore(cmd)
			if err != nil {
				return err
			}
			n := jobs
			if n <= 0 {
				n = settings.Jobs
			}

			opts := cli.GetOptions(cmd)
			var progress *cli.ProgressReporter
			if !opts.JSONOutput {
				progress = cli.NewProgressReporter(cmd.OutOrStdout())
			}

			results, err := fetchAll(cmd.Context(), st, cfg, n, progress)
			if err != nil {
				return err
			}

			if opts.JSONOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				progress.Done()
			}

			var failed int
			for _, r := range results {
				if r.Error != "" {
					failed++
					if !opts.JSONOutput {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", store.Key(r.Repo, r.Rev), r.Error)
					}
				}
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeRepoFetchFailed,
					fmt.Sprintf("%d of %d repositories failed to fetch", failed, len(results)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of parallel fetches (default from settings)")

	return cmd
}

// fetchAll ensures every distinct remote repo@rev of cfg in st, at most jobs
// at a time. Results follow declaration order.
func fetchAll(ctx context.Context, st *store.Store, cfg *config.Config, jobs int, progress *cli.ProgressReporter) ([]FetchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var results []FetchResult
	seen := make(map[string]bool)
	for _, repo := range cfg.RemoteRepos() {
		key := store.Key(repo.Repo, repo.Rev)
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, FetchResult{Repo: repo.Repo, Rev: repo.Rev})
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	for i := range results {
		res := &results[i]
		key := store.Key(res.Repo, res.Rev)
		g.Go(func() error {
			if progress != nil {
				progress.Update(key, "fetching")
			}
			entry, err := st.Ensure(ctx, res.Repo, res.Rev)
			if err != nil {
				res.Error = err.Error()
				if progress != nil {
					progress.Update(key, "failed")
				}
				return nil
			}
			res.Path = entry.Path
			res.Commit = entry.Commit
			if progress != nil {
				progress.Update(key, "completed")
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
