package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/dqs/internal/presentation"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered serializations",
	Long: `List every registered serialization as JSON, with its placeholders and
its recorded operations in order.

Examples:
  dqs list
  dqs list | jq '.[].name'
  dqs list --definitions ./serializations.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApplication(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		dtos, err := presentation.FromRegistry(app.registry, app.descriptions)
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatSerializations(dtos)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
