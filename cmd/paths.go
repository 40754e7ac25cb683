package cmd

import (
	"fmt"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput represents the XDG-compliant paths used by hookcfg.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	SettingsFile string `json:"settings_file"`
	StateDir     string `json:"state_dir"`
	CacheDir     string `json:"cache_dir"`
}

func NewPathsCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by hookcfg",
		Long: `Print the XDG-compliant paths used by hookcfg.

This command outputs the paths in JSON format, making it easy
to parse from scripts and other tools.

- config_dir: Configuration files (settings.yaml)
- state_dir: Runtime state (logs)
- cache_dir: Fetched hook repositories (cache_dir in settings overrides it)

HOOKCFG_HOME relocates all three.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := settingsFrom(cmd)
			if err != nil {
				return err
			}

			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				SettingsFile: cli.SettingsPath(),
				StateDir:     paths.StateDir(),
				CacheDir:     paths.CacheDir(),
			}
			if settings.CacheDir != "" {
				output.CacheDir = settings.CacheDir
			}

			if create {
				if err := paths.EnsureDirs(); err != nil {
					return fmt.Errorf("failed to create directories: %w", err)
				}
			}

			return writeJSON(cmd, output)
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Create the directories if missing")

	return cmd
}
