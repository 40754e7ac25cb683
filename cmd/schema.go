package cmd

import (
	"bytes"

	"github.com/grovetools/hookcfg/config"
	"github.com/grovetools/hookcfg/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the `schema` command
func NewSchemaCmd() *cobra.Command {
	var embedded bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration",
		Long: `Print the JSON Schema of .pre-commit-config.yaml.

By default the schema is generated from the Go types. With --embedded the
schema the loader validates against is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if embedded {
				data = schema.Embedded()
			} else {
				var err error
				if data, err = config.GenerateSchema(); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			if !bytes.HasSuffix(data, []byte("\n")) {
				_, err := out.Write([]byte("\n"))
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&embedded, "embedded", false, "Print the schema used for validation")

	return cmd
}
