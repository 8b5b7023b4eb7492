package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/groupsched/internal/export"
	"github.com/me/groupsched/pkg/model"
)

func newSubmitCmd() *cobra.Command {
	var sf scenarioFlags
	var format string

	cmd := &cobra.Command{
		Use:   "submit [scenario.yaml]",
		Short: "Simulate a scenario on a groupsched server",
		Long:  "Load a scenario locally, inline its catalog and group files, and post it to the server's /simulations endpoint.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			sc, _, err := sf.load(cmd, args)
			if err != nil {
				return err
			}
			sc.Catalog, sc.Dependency = "", ""

			resp, err := client.Post(cmd.Context(), "/api/v1/simulations", sc)
			if err != nil {
				return fmt.Errorf("submit scenario: %w", err)
			}

			var data model.SimulationResponse
			if err := resp.decode(&data); err != nil {
				return err
			}
			if data.RunID != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Run stored: %s\n", data.RunID)
			}
			return export.Write(cmd.OutOrStdout(), f, data.Schedule)
		},
	}

	sf.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, csv)")
	return cmd
}
