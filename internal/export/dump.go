package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/me/groupsched/pkg/model"
)

// WriteDump renders the registry and group state carried by an invariant
// violation: one registry row per task, then one line per group with its
// current pointer marked as *id*.
func WriteDump(w io.Writer, v *model.InvariantViolation) error {
	if _, err := fmt.Fprintf(w, "%s\n\nregistry:\n", v.Error()); err != nil {
		return err
	}
	if err := WriteRegistry(w, v.Registry); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\ngroups:"); err != nil {
		return err
	}
	return WriteGroups(w, v.Groups)
}

// WriteRegistry writes registry entries as an aligned table.
func WriteRegistry(w io.Writer, entries []model.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  TASK\tSTATE\tDEADLINE\tREGISTERED\tGROUPS")
	for _, e := range entries {
		deadline := "-"
		if e.Deadline != nil {
			deadline = formatTime(*e.Deadline)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			e.TaskID, e.State, deadline, formatTime(e.RegisteredAt), strings.Join(e.Groups, ", "))
	}
	return tw.Flush()
}

// WriteGroups writes one line per group.
func WriteGroups(w io.Writer, groups []model.GroupSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s rotations\n",
			g.Name, g.Status, markPointer(g), humanize.Comma(int64(g.Rotations)))
	}
	return tw.Flush()
}

func markPointer(g model.GroupSnapshot) string {
	parts := make([]string, len(g.Members))
	for i, m := range g.Members {
		if i == g.Index {
			parts[i] = "*" + string(m) + "*"
		} else {
			parts[i] = string(m)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
