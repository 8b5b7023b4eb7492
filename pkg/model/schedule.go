package model

import "time"

// Interval is one contiguous span of a task's history in a single state.
type Interval struct {
	State TaskState `json:"state"`
	Start float64   `json:"start"`
	End   float64   `json:"end"`
}

// Length returns End - Start.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// Entry is a registry row: the scheduling state of one task.
type Entry struct {
	TaskID       TaskID    `json:"task_id"`
	State        TaskState `json:"state"`
	Deadline     *float64  `json:"deadline"`
	RegisteredAt float64   `json:"registered_at"`
	Groups       []string  `json:"groups"`
}

// GroupSnapshot is the observable state of a group at one instant.
type GroupSnapshot struct {
	Name      string     `json:"name"`
	Members   []TaskID   `json:"members"`
	Index     int        `json:"index"`
	Current   TaskID     `json:"current"`
	Status    GroupState `json:"status"`
	Rotations int        `json:"rotations"`
}

// TaskSchedule is the recorded interval history of one task.
type TaskSchedule struct {
	Task      Task       `json:"task"`
	Intervals []Interval `json:"intervals"`
}

// Result is the outcome of a completed simulation run.
type Result struct {
	Timeline Timeline        `json:"timeline"`
	Schedule []TaskSchedule  `json:"schedule"`
	Registry []Entry         `json:"registry"`
	Groups   []GroupSnapshot `json:"groups"`
	Passes   int             `json:"passes"`
}

// ScheduleRow is one normalized Gantt bar: a task in a state over a span.
type ScheduleRow struct {
	TaskID TaskID    `json:"task_id"`
	Task   string    `json:"task"`
	State  TaskState `json:"state"`
	Start  float64   `json:"start"`
	Finish float64   `json:"finish"`
}

// RunSummary describes a stored simulation run.
type RunSummary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Timeline  Timeline  `json:"timeline"`
	Tasks     int       `json:"tasks"`
	Groups    int       `json:"groups"`
	Passes    int       `json:"passes"`
	CreatedAt time.Time `json:"created_at"`
}
