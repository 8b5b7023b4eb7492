package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/me/groupsched/internal/config"
	"github.com/me/groupsched/internal/export"
	"github.com/me/groupsched/internal/scheduler"
	"github.com/me/groupsched/internal/store"
	"github.com/me/groupsched/pkg/model"
)

type runOptions struct {
	format   string
	output   string
	states   string
	db       string
	watch    bool
	maxTicks int
}

func newRunCmd() *cobra.Command {
	var sf scenarioFlags
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Simulate a scenario and print the schedule",
		Long: `Simulate a scenario over its horizon and print one row per state
interval of every task.

The scenario is either a YAML/JSON file (tasks and groups inline, or
referenced as a CSV catalog and a group file), or a flat pair given with
--catalog and --groups plus --end.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			states, err := export.ParseStates(opts.states)
			if err != nil {
				return err
			}

			simulate := func() ([]string, error) {
				sc, files, err := sf.load(cmd, args)
				if err != nil {
					return nil, err
				}
				return files, runOnce(cmd, sc, format, states, opts)
			}

			files, err := simulate()
			if !opts.watch || files == nil {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d file(s); Ctrl-C to stop.\n", len(files))
			return watchFiles(ctx, files, func() {
				if _, err := simulate(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				}
			})
		},
	}

	sf.bind(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the schedule to a file instead of stdout")
	cmd.Flags().StringVar(&opts.states, "state", "", "Only print intervals in these states (comma-separated)")
	cmd.Flags().StringVar(&opts.db, "db", "", "Store the run in this SQLite database")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever an input file changes")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", config.DefaultMaxTicks, "Refuse horizons longer than this many ticks (0 = no limit)")

	return cmd
}

func runOnce(cmd *cobra.Command, sc *model.Scenario, format export.Format, states []model.TaskState, opts runOptions) error {
	sched, err := scheduler.New(sc, logger)
	if err != nil {
		return err
	}
	if ticks := sc.Timeline.Ticks(); opts.maxTicks > 0 && ticks > opts.maxTicks {
		return fmt.Errorf("horizon of %d ticks exceeds --max-ticks %d", ticks, opts.maxTicks)
	}
	res, err := sched.Run()
	if err != nil {
		var v *model.InvariantViolation
		if errors.As(err, &v) {
			export.WriteDump(cmd.ErrOrStderr(), v)
		}
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, format, export.BuildRows(res, states...)); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}

	if opts.db == "" {
		return nil
	}
	id, err := saveRun(cmd.Context(), opts.db, sc.Name, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Run stored: %s\n", id)
	return nil
}

func saveRun(ctx context.Context, dbPath, scenario string, res *model.Result) (string, error) {
	st, err := openStore(ctx, dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run := &model.RunSummary{Scenario: scenario}
	if err := st.SaveRun(ctx, run, res); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return run.ID, nil
}

func openStore(ctx context.Context, dbPath string) (*store.SQLiteStore, error) {
	path, err := config.ResolveDBPath(dbPath)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(path, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return st, nil
}
