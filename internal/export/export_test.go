package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func sampleResult() *model.Result {
	return &model.Result{
		Timeline: model.Timeline{Start: 0, End: 6},
		Schedule: []model.TaskSchedule{
			{
				Task: model.Task{ID: "A", Name: "Cut", Duration: 3},
				Intervals: []model.Interval{
					{State: model.TaskStateRunning, Start: 0, End: 3},
					{State: model.TaskStateLocked, Start: 3, End: 5},
					{State: model.TaskStateRunning, Start: 5, End: 6},
				},
			},
			{
				Task: model.Task{ID: "B", Duration: 2},
				Intervals: []model.Interval{
					{State: model.TaskStateLocked, Start: 0, End: 3},
					{State: model.TaskStateRunning, Start: 3, End: 5},
					{State: model.TaskStateLocked, Start: 5, End: 6},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStates(t *testing.T) {
	got, err := ParseStates("running, locked,,")
	if err != nil {
		t.Fatalf("ParseStates: %v", err)
	}
	if len(got) != 2 || got[0] != model.TaskStateRunning || got[1] != model.TaskStateLocked {
		t.Errorf("ParseStates = %v", got)
	}
	if _, err := ParseStates("RUNNING,SLEEPING"); err == nil {
		t.Error("unknown state accepted")
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(sampleResult())
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if rows[0].Task != "Cut" || rows[3].Task != "B" {
		t.Errorf("display names = %q, %q", rows[0].Task, rows[3].Task)
	}
	if rows[4].TaskID != "B" || rows[4].Start != 3 || rows[4].Finish != 5 {
		t.Errorf("rows[4] = %+v", rows[4])
	}

	running := BuildRows(sampleResult(), model.TaskStateRunning)
	if len(running) != 3 {
		t.Fatalf("running rows = %d, want 3", len(running))
	}
	for _, r := range running {
		if r.State != model.TaskStateRunning {
			t.Errorf("filtered row has state %s", r.State)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON = %q, want []", buf.String())
	}

	buf.Reset()
	if err := WriteJSON(&buf, BuildRows(sampleResult())); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []model.ScheduleRow
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 6 || rows[2].State != model.TaskStateRunning {
		t.Errorf("rows = %+v", rows)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, BuildRows(sampleResult(), model.TaskStateRunning)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "task_id,task,state,start,finish\n" +
		"A,Cut,RUNNING,0,3\n" +
		"A,Cut,RUNNING,5,6\n" +
		"B,B,RUNNING,3,5\n"
	if buf.String() != want {
		t.Errorf("CSV =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, BuildRows(sampleResult())); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TASK", "LENGTH", "Cut", "LOCKED", "6 intervals across 2 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDump(t *testing.T) {
	deadline := 4.0
	v := &model.InvariantViolation{
		Tick:  2,
		Stuck: []model.TaskID{"C"},
		Registry: []model.Entry{
			{TaskID: "A", State: model.TaskStateRunning, Deadline: &deadline, RegisteredAt: 1, Groups: []string{"g1"}},
			{TaskID: "C", State: model.TaskStateWaiting, RegisteredAt: 1, Groups: []string{"g1"}},
		},
		Groups: []model.GroupSnapshot{
			{Name: "g1", Members: []model.TaskID{"A", "B", "C"}, Index: 1, Current: "B", Status: model.GroupStateRunning, Rotations: 1},
		},
	}

	var buf bytes.Buffer
	if err := WriteDump(&buf, v); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"tasks left unscheduled: C",
		"registry:",
		"DEADLINE",
		"[A, *B*, C]",
		"1 rotations",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
