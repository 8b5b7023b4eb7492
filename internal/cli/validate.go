package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var sf scenarioFlags

	cmd := &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Check a scenario without simulating it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, _, err := sf.load(cmd, args)
			if err != nil {
				return err
			}
			if err := sc.Validate(); err != nil {
				return err
			}

			ungrouped := 0
			member := make(map[string]bool)
			for _, g := range sc.Groups {
				for _, id := range g.Members {
					member[string(id)] = true
				}
			}
			for _, t := range sc.Tasks {
				if !member[string(t.ID)] {
					ungrouped++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scenario %q is valid.\n", sc.Name)
			fmt.Fprintf(out, "  Tasks:    %s (%s ungrouped)\n", humanize.Comma(int64(len(sc.Tasks))), humanize.Comma(int64(ungrouped)))
			fmt.Fprintf(out, "  Groups:   %s\n", humanize.Comma(int64(len(sc.Groups))))
			fmt.Fprintf(out, "  Horizon:  [%g, %g] from %g, %s ticks of %g\n",
				sc.Timeline.Start, sc.Timeline.End, sc.Timeline.PtrOrDefault(),
				humanize.Comma(int64(sc.Timeline.Ticks())), sc.Timeline.UnitOrDefault())
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}
