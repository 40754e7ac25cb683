package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/hookcfg/cli"
	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/errors"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the `export` command
func NewExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-serialise the configuration as YAML, JSON or TOML",
		Long: `Load and validate the configuration, then write it in another format.

Without --format the format follows the --output extension, defaulting to
YAML on stdout.

Examples:
  hookcfg export --format json
  hookcfg export -o hooks.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			f, err := exportFormat(format, output)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
			}

			data, err := config.Encode(cfg, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			cli.GetLogger(cmd).WithField("path", output).Info("Configuration exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml, json, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func exportFormat(format, output string) (config.Format, error) {
	switch {
	case format != "":
		return config.ParseFormat(format)
	case output != "":
		return config.FormatForPath(output)
	default:
		return config.FormatYAML, nil
	}
}
