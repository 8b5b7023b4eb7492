package scheduler

import (
	"github.com/me/groupsched/pkg/model"
)

// entry is the mutable registry row behind model.Entry.
type entry struct {
	state        model.TaskState
	deadline     *float64
	registeredAt float64
	groups       []string
}

// Registry maps every task to its scheduling state. Tasks are fixed at
// construction; Set is the only write.
type Registry struct {
	clock   *Clock
	ids     []model.TaskID
	entries map[model.TaskID]*entry
}

// NewRegistry registers every id as WAITING at the current clock time.
func NewRegistry(clock *Clock, ids []model.TaskID, dep *Dependency) *Registry {
	r := &Registry{
		clock:   clock,
		ids:     make([]model.TaskID, len(ids)),
		entries: make(map[model.TaskID]*entry, len(ids)),
	}
	copy(r.ids, ids)
	for _, id := range ids {
		r.entries[id] = &entry{
			state:        model.TaskStateWaiting,
			registeredAt: clock.Ptr(),
			groups:       dep.Containing(id),
		}
	}
	return r
}

// Set moves ids to state and stamps them with the current clock time.
// deadline is only meaningful for RUNNING; pass nil otherwise.
func (r *Registry) Set(ids []model.TaskID, state model.TaskState, deadline *float64) {
	now := r.clock.Ptr()
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		e.state = state
		if deadline != nil {
			d := *deadline
			e.deadline = &d
		} else {
			e.deadline = nil
		}
		e.registeredAt = now
	}
}

// State returns the current state of id.
func (r *Registry) State(id model.TaskID) model.TaskState {
	if e, ok := r.entries[id]; ok {
		return e.state
	}
	return ""
}

// Get returns a copy of the registry row for id.
func (r *Registry) Get(id model.TaskID) (model.Entry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return model.Entry{}, false
	}
	return e.export(id), true
}

// IDs returns every task id in catalog order.
func (r *Registry) IDs() []model.TaskID {
	out := make([]model.TaskID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Snapshot copies every row in catalog order.
func (r *Registry) Snapshot() []model.Entry {
	out := make([]model.Entry, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.entries[id].export(id))
	}
	return out
}

// NextCheckpoint returns the earliest deadline of any running task.
func (r *Registry) NextCheckpoint() (float64, bool) {
	var (
		min   float64
		found bool
	)
	for _, id := range r.ids {
		d := r.entries[id].deadline
		if d == nil {
			continue
		}
		if !found || *d < min {
			min, found = *d, true
		}
	}
	return min, found
}

func (e *entry) export(id model.TaskID) model.Entry {
	out := model.Entry{
		TaskID:       id,
		State:        e.state,
		RegisteredAt: e.registeredAt,
		Groups:       make([]string, len(e.groups)),
	}
	copy(out.Groups, e.groups)
	if e.deadline != nil {
		d := *e.deadline
		out.Deadline = &d
	}
	return out
}
