package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/me/groupsched/internal/export"
	"github.com/me/groupsched/pkg/model"
)

func newRunsCmd() *cobra.Command {
	var dbPath, scenario string
	var limit, offset int
	var remote bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := model.ListOptions{Limit: limit, Offset: offset, Scenario: scenario}
			var runs []*model.RunSummary
			var total int
			var err error
			if remote {
				runs, total, err = listRemoteRuns(cmd.Context(), opts)
			} else {
				runs, total, err = listLocalRuns(cmd.Context(), dbPath, opts)
			}
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCENARIO\tTASKS\tGROUPS\tHORIZON\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t[%g, %g]\t%s\n",
					r.ID, r.Scenario, r.Tasks, r.Groups, r.Timeline.Start, r.Timeline.End,
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			tw.Flush()

			if offset+len(runs) < total {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(runs), total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default $GROUPSCHED_DB or ~/.groupsched/groupsched.db)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Only list runs of this scenario")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Runs to skip")
	cmd.Flags().BoolVar(&remote, "remote", false, "List runs stored on the --server instead of the local database")
	return cmd
}

func listLocalRuns(ctx context.Context, dbPath string, opts model.ListOptions) ([]*model.RunSummary, int, error) {
	st, err := openStore(ctx, dbPath)
	if err != nil {
		return nil, 0, err
	}
	defer st.Close()
	return st.ListRuns(ctx, opts)
}

func listRemoteRuns(ctx context.Context, opts model.ListOptions) ([]*model.RunSummary, int, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(opts.Offset))
	if opts.Scenario != "" {
		q.Set("scenario", opts.Scenario)
	}
	resp, err := client.Get(ctx, "/api/v1/runs?"+q.Encode())
	if err != nil {
		return nil, 0, err
	}
	var runs []*model.RunSummary
	if err := resp.decode(&runs); err != nil {
		return nil, 0, err
	}
	total := len(runs)
	if resp.Pagination != nil {
		total = resp.Pagination.Total
	}
	return runs, total, nil
}

func newShowCmd() *cobra.Command {
	var dbPath, format, states string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run: summary, final registry, groups and schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			filter, err := export.ParseStates(states)
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			id := args[0]
			run, err := st.GetRun(ctx, id)
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run %q not found", id)
			}
			rows, err := st.ListIntervals(ctx, id, filter...)
			if err != nil {
				return fmt.Errorf("list intervals: %w", err)
			}

			out := cmd.OutOrStdout()
			if f != export.FormatTable {
				return export.Write(out, f, rows)
			}

			entries, err := st.ListEntries(ctx, id)
			if err != nil {
				return fmt.Errorf("list registry: %w", err)
			}
			groups, err := st.ListGroups(ctx, id)
			if err != nil {
				return fmt.Errorf("list groups: %w", err)
			}

			fmt.Fprintf(out, "Run:      %s\n", run.ID)
			fmt.Fprintf(out, "Scenario: %s\n", run.Scenario)
			fmt.Fprintf(out, "Horizon:  [%g, %g]\n", run.Timeline.Start, run.Timeline.End)
			fmt.Fprintf(out, "Passes:   %d\n", run.Passes)
			fmt.Fprintln(out, "\nFinal registry:")
			if err := export.WriteRegistry(out, entries); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nGroups:")
			if err := export.WriteGroups(out, groups); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nSchedule:")
			return export.WriteTable(out, rows)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default $GROUPSCHED_DB or ~/.groupsched/groupsched.db)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().StringVar(&states, "state", "", "Only print intervals in these states (comma-separated)")
	return cmd
}
