// Package export turns simulation results into Gantt rows and renders them
// as JSON, CSV, or a plain text table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/me/groupsched/pkg/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, or csv)", s)
	}
}

// ParseStates parses a comma-separated state filter such as "RUNNING,LOCKED".
func ParseStates(s string) ([]model.TaskState, error) {
	var states []model.TaskState
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		st := model.TaskState(part)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown task state %q", part)
		}
		states = append(states, st)
	}
	return states, nil
}

// BuildRows flattens a result into one row per recorded interval, in catalog
// order. When states is non-empty only intervals in those states are kept.
func BuildRows(res *model.Result, states ...model.TaskState) []model.ScheduleRow {
	keep := func(model.TaskState) bool { return true }
	if len(states) > 0 {
		set := make(map[model.TaskState]bool, len(states))
		for _, s := range states {
			set[s] = true
		}
		keep = func(s model.TaskState) bool { return set[s] }
	}

	var rows []model.ScheduleRow
	for _, ts := range res.Schedule {
		for _, iv := range ts.Intervals {
			if !keep(iv.State) {
				continue
			}
			rows = append(rows, model.ScheduleRow{
				TaskID: ts.Task.ID,
				Task:   ts.Task.DisplayName(),
				State:  iv.State,
				Start:  iv.Start,
				Finish: iv.End,
			})
		}
	}
	return rows
}

// Write renders rows in the given format.
func Write(w io.Writer, f Format, rows []model.ScheduleRow) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	default:
		return WriteTable(w, rows)
	}
}

// WriteJSON writes rows as an indented JSON array. An empty schedule is
// written as [] rather than null.
func WriteJSON(w io.Writer, rows []model.ScheduleRow) error {
	if rows == nil {
		rows = []model.ScheduleRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []model.ScheduleRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "task", "state", "start", "finish"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.TaskID), r.Task, string(r.State),
			formatTime(r.Start), formatTime(r.Finish),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes rows as an aligned text table followed by a count line.
func WriteTable(w io.Writer, rows []model.ScheduleRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tNAME\tSTATE\tSTART\tFINISH\tLENGTH")
	tasks := make(map[model.TaskID]bool)
	for _, r := range rows {
		tasks[r.TaskID] = true
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.TaskID, r.Task, r.State,
			formatTime(r.Start), formatTime(r.Finish), formatTime(r.Finish-r.Start))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s intervals across %s tasks\n",
		humanize.Comma(int64(len(rows))), humanize.Comma(int64(len(tasks))))
	return err
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
