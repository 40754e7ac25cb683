package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/logging"
	"github.com/grovetools/hookcfg/pkg/check"
	"github.com/grovetools/hookcfg/pkg/profiling"
	"github.com/grovetools/hookcfg/pkg/watch"
	"github.com/spf13/cobra"
)

// ValidateOutput is the --json result of validate.
type ValidateOutput struct {
	Path    string         `json:"path"`
	Valid   bool           `json:"valid"`
	Repos   int            `json:"repos"`
	Hooks   int            `json:"hooks"`
	Results []check.Result `json:"results,omitempty"`
}

type validator struct {
	cmd   *cobra.Command
	path  string
	fetch bool
	opts  cli.CommandOptions
}

// NewValidateCmd creates the `validate` command
func NewValidateCmd() *cobra.Command {
	var fetch, watchMode bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the hook configuration",
		Long: `Validate the hook configuration against its schema and rules.

With --fetch every hook repository is fetched at its pinned revision and each
declared hook id is looked up in the repository's .pre-commit-hooks.yaml.

With --watch the configuration is validated again whenever it changes.

Examples:
  hookcfg validate
  hookcfg validate --fetch --json
  hookcfg validate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			path, err := cli.ResolveConfigPath(opts.ConfigFile)
			if err != nil {
				return err
			}

			v := &validator{cmd: cmd, path: path, fetch: fetch, opts: opts}
			if !watchMode {
				return v.run(cmd.Context())
			}
			return v.watch(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch hook repositories and resolve every hook")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Validate again whenever the configuration changes")

	return cmd
}

func (v *validator) run(ctx context.Context) error {
	span := profiling.Start("load config")
	cfg, err := config.Load(v.path)
	span.Stop()
	if err != nil {
		return err
	}

	out := ValidateOutput{
		Path:  v.path,
		Valid: true,
		Repos: len(cfg.Repos),
		Hooks: len(cfg.Hooks()),
	}

	var failures []check.Result
	if v.fetch {
		st, settings, err := openStore(v.cmd)
		if err != nil {
			return err
		}
		report, err := check.New(st, settings.Jobs).Check(ctx, cfg)
		if err != nil {
			return err
		}
		out.Results = report.Results
		failures = failed(report)
		out.Valid = len(failures) == 0
	}

	if v.opts.JSONOutput {
		if err := writeJSON(v.cmd, out); err != nil {
			return err
		}
	} else {
		pretty := logging.NewPrettyLogger().WithWriter(v.cmd.OutOrStdout())
		if out.Valid {
			pretty.Success(fmt.Sprintf("%s is valid", v.path))
		}
		if out.Hooks == 0 {
			pretty.Warn("no hooks declared")
		}
		pretty.Path("config", v.path)
		pretty.Field("repos", out.Repos)
		pretty.Field("hooks", out.Hooks)
		if v.fetch {
			resolved := 0
			for _, res := range out.Results {
				resolved += len(res.Hooks)
			}
			pretty.Field("resolved", resolved)
		}
	}

	return summarize(v.cmd.ErrOrStderr(), failures, len(cfg.Repos))
}

// summarize returns the single failure as is, so its code still selects the
// error message, or one error counting several failures.
func summarize(w io.Writer, failures []check.Result, total int) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0].Err
	}

	for _, res := range failures {
		fmt.Fprintf(w, "  %s: %v\n", res.Repo, res.Err)
	}
	err := errors.New(errors.ErrCodeConfigValidation,
		fmt.Sprintf("%d of %d declarations failed to resolve", len(failures), total))
	for _, res := range failures {
		err = err.WithDetail(res.Repo, res.Err.Error())
	}
	return err
}

func (v *validator) watch(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := cli.NewErrorHandler(v.opts.Verbose)
	handler.Out = v.cmd.ErrOrStderr()

	handler.Handle(v.run(ctx))

	divider := logging.NewPrettyLogger().WithWriter(v.cmd.ErrOrStderr())
	w, err := watch.New(v.path, watch.DefaultDebounce, func(string) {
		divider.Divider()
		handler.Handle(v.run(ctx))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(v.cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", v.path)
	w.Start(ctx)
	return nil
}
