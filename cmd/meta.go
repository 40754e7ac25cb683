package cmd

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/git"
	"github.com/grovetools/hookcfg/pkg/check"
	"github.com/spf13/cobra"
)

// emptyExclude is the manifest default exclude, which matches nothing.
const emptyExclude = "^$"

// NewMetaCmd creates the `meta` command, the entry point of the hooks
// available under `repo: meta`.
func NewMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Run the built-in meta hooks",
		Long: `Run the built-in hooks available to configurations under 'repo: meta'.

These are normally invoked by the orchestrator, not by hand.`,
	}

	cmd.AddCommand(newMetaCheckHooksApplyCmd())
	cmd.AddCommand(newMetaCheckUselessExcludesCmd())
	cmd.AddCommand(newMetaIdentityCmd())

	return cmd
}

func newMetaCheckHooksApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-hooks-apply",
		Short: "Check that every hook matches at least one tracked file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, files, err := metaInputs(cmd)
			if err != nil {
				return err
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

			global, err := newFileFilter(cfg.Files, cfg.Exclude)
			if err != nil {
				return err
			}
			candidates := global.apply(files)

			var unused []string
			for _, hook := range report.Hooks() {
				if hook.Repo == config.MetaRepo || hook.AlwaysRun || hook.Language == "fail" {
					continue
				}
				filter, err := newFileFilter(hook.Files, hook.Exclude)
				if err != nil {
					return err
				}
				if len(filter.apply(candidates)) == 0 {
					unused = append(unused, hook.ID)
				}
			}

			for _, id := range unused {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not apply to this repository\n", id)
			}
			if len(unused) > 0 {
				return errors.New(errors.ErrCodeConfigValidation,
					fmt.Sprintf("%d hooks do not apply to this repository", len(unused)))
			}
			return nil
		},
	}
}

func newMetaCheckUselessExcludesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-useless-excludes",
		Short: "Check that every exclude pattern matches at least one tracked file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, files, err := metaInputs(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var useless int

			if cfg.Exclude != "" && cfg.Exclude != emptyExclude {
				re, err := config.CompilePattern(cfg.Exclude)
				if err != nil {
					return err
				}
				if !matchesAny(re, files) {
					fmt.Fprintf(out, "The global exclude pattern %q does not match any files\n", cfg.Exclude)
					useless++
				}
			}

			global, err := newFileFilter(cfg.Files, cfg.Exclude)
			if err != nil {
				return err
			}
			candidates := global.apply(files)

			for _, repo := range cfg.Repos {
				for _, hook := range repo.Hooks {
					if hook.Exclude == "" || hook.Exclude == emptyExclude {
						continue
					}
					include, err := newFileFilter(hook.Files, "")
					if err != nil {
						return err
					}
					re, err := config.CompilePattern(hook.Exclude)
					if err != nil {
						return err
					}
					if !matchesAny(re, include.apply(candidates)) {
						fmt.Fprintf(out, "The exclude pattern %q for %s does not match any files\n", hook.Exclude, hook.ID)
						useless++
					}
				}
			}

			if useless > 0 {
				return errors.New(errors.ErrCodeConfigValidation,
					fmt.Sprintf("%d exclude patterns match no files", useless))
			}
			return nil
		},
	}
}

func newMetaIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity [files...]",
		Short: "Print the file names the hook was given",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// metaInputs loads the configuration and the files tracked in the repository.
func metaInputs(cmd *cobra.Command) (*config.Config, []string, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	root, err := repoRoot(cmd)
	if err != nil {
		return nil, nil, err
	}
	files, err := git.ListFiles(cmd.Context(), root)
	if err != nil {
		return nil, nil, err
	}
	return cfg, files, nil
}

// fileFilter keeps names matching include and not matching exclude. A nil
// pattern matches everything (include) or nothing (exclude).
type fileFilter struct {
	include *regexp2.Regexp
	exclude *regexp2.Regexp
}

func newFileFilter(include, exclude string) (*fileFilter, error) {
	f := &fileFilter{}
	var err error
	if include != "" {
		if f.include, err = config.CompilePattern(include); err != nil {
			return nil, fmt.Errorf("invalid files pattern %q: %w", include, err)
		}
	}
	if exclude != "" && exclude != emptyExclude {
		if f.exclude, err = config.CompilePattern(exclude); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
	}
	return f, nil
}

func (f *fileFilter) apply(files []string) []string {
	var kept []string
	for _, name := range files {
		if f.include != nil && !config.MatchPattern(f.include, name) {
			continue
		}
		if f.exclude != nil && config.MatchPattern(f.exclude, name) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

func matchesAny(re *regexp2.Regexp, files []string) bool {
	for _, name := range files {
		if config.MatchPattern(re, name) {
			return true
		}
	}
	return false
}
