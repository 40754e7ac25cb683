package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/logging"
	"github.com/grovetools/hookcfg/pkg/profiling"
	"github.com/grovetools/hookcfg/pkg/store"
	"github.com/grovetools/hookcfg/version"
	"github.com/spf13/cobra"
)

type settingsKey struct{}

// NewRootCmd builds the hookcfg command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"hookcfg",
		"Validate and manage pre-commit hook configuration",
	)
	root.Long = `Validate and manage the pre-commit hook configuration of a repository.

hookcfg checks .pre-commit-config.yaml against its schema, resolves every
declared hook against the manifest of the pinned hook repository, and can
install a git pre-commit hook that rejects commits while the configuration
is broken.

Examples:
  # Check the configuration in the current repository
  hookcfg validate

  # Also fetch every hook repository and resolve the hooks
  hookcfg validate --fetch

  # Convert the configuration to TOML
  hookcfg export --format toml`
	root.SilenceUsage = true
	root.SilenceErrors = true
	cli.SetVersionTemplate(root, version.GetInfo())

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(root)
	root.PersistentPostRun = profiler.PostRun

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := profiler.PreRun(cmd, args); err != nil {
			return err
		}

		settings, err := cli.LoadSettings("")
		if err != nil {
			return err
		}

		logCfg := settings.LoggingConfig()
		if cli.GetOptions(cmd).Verbose {
			logCfg.Level = "debug"
		}
		logging.Configure(logCfg)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(context.WithValue(ctx, settingsKey{}, settings))
		return nil
	}

	root.AddCommand(
		NewValidateCmd(),
		NewHooksCmd(),
		NewExportCmd(),
		NewSchemaCmd(),
		NewFetchCmd(),
		NewCacheCmd(),
		NewInstallCmd(),
		NewUninstallCmd(),
		NewMetaCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("hookcfg"),
	)

	cli.SetStyledHelpWithExtras(root, configSearchHelp)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// Execute runs the root command and renders any error. It returns the
// process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		handler := cli.NewErrorHandler(verbose)
		handler.Out = root.ErrOrStderr()
		handler.Handle(err)
		return 1
	}
	return 0
}

func configSearchHelp(w io.Writer, p *cli.Palette) {
	fmt.Fprintf(w, "\n %s\n", p.Italic.Render("CONFIG FILE"))
	fmt.Fprintf(w, "  Without --config, hookcfg looks for %s\n", config.ConfigFileNames[0])
	fmt.Fprintf(w, "  %s\n", p.Muted.Render("in the current directory, its parents, then the git root."))
}

// settingsFrom returns the settings loaded for this invocation.
func settingsFrom(cmd *cobra.Command) (*cli.Settings, error) {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(settingsKey{}).(*cli.Settings); ok {
			return s, nil
		}
	}
	return cli.LoadSettings("")
}

// openStore opens the hook repository store at the configured cache dir.
func openStore(cmd *cobra.Command) (*store.Store, *cli.Settings, error) {
	settings, err := settingsFrom(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(settings.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	return s, settings, nil
}

// loadConfig resolves the --config flag and loads the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	defer profiling.Start("load config").Stop()

	path, err := cli.ResolveConfigPath(cli.GetOptions(cmd).ConfigFile)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	cli.GetLogger(cmd).WithField("path", path).Debug("Loaded configuration")
	return cfg, path, nil
}
