package model

// TaskState represents the scheduling state of a task in the registry.
type TaskState string

const (
	TaskStateWaiting TaskState = "WAITING"
	TaskStateRunning TaskState = "RUNNING"
	TaskStateLocked  TaskState = "LOCKED"
	TaskStateFrozen  TaskState = "FROZEN"
)

// String returns the string representation of the task state.
func (s TaskState) String() string {
	return string(s)
}

// IsBlocked returns true if the task is held back by another task or group.
func (s TaskState) IsBlocked() bool {
	switch s {
	case TaskStateLocked, TaskStateFrozen:
		return true
	}
	return false
}

// Valid reports whether s is one of the known task states.
func (s TaskState) Valid() bool {
	switch s {
	case TaskStateWaiting, TaskStateRunning, TaskStateLocked, TaskStateFrozen:
		return true
	}
	return false
}

// GroupState represents the admission state of a group.
type GroupState string

const (
	GroupStateWaiting GroupState = "WAITING"
	GroupStateRunning GroupState = "RUNNING"
	GroupStateFrozen  GroupState = "FROZEN"
)

// String returns the string representation of the group state.
func (s GroupState) String() string {
	return string(s)
}
