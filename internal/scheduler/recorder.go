package scheduler

import (
	"github.com/me/groupsched/pkg/model"
)

// Recorder keeps, per task, the ordered intervals the task spent in each
// state. Intervals of one task are contiguous and start at the timeline
// start.
type Recorder struct {
	ids       []model.TaskID
	intervals map[model.TaskID][]model.Interval
}

// NewRecorder opens a WAITING interval [start, ptr] for every task.
func NewRecorder(ids []model.TaskID, start, ptr float64) *Recorder {
	r := &Recorder{
		ids:       make([]model.TaskID, len(ids)),
		intervals: make(map[model.TaskID][]model.Interval, len(ids)),
	}
	copy(r.ids, ids)
	for _, id := range ids {
		r.intervals[id] = []model.Interval{{State: model.TaskStateWaiting, Start: start, End: ptr}}
	}
	return r
}

// Record applies the difference between two registry snapshots taken around
// a reconciliation pass at time now. Tasks whose state did not change have
// their last interval stretched to checkpoint; the others have it closed at
// now and a new one opened from now to checkpoint.
func (r *Recorder) Record(before, after []model.Entry, now, checkpoint float64) {
	prev := make(map[model.TaskID]model.TaskState, len(before))
	for _, e := range before {
		prev[e.TaskID] = e.State
	}
	for _, e := range after {
		list, ok := r.intervals[e.TaskID]
		if !ok {
			continue
		}
		last := &list[len(list)-1]
		if prev[e.TaskID] == e.State {
			last.End = checkpoint
			continue
		}
		last.End = now
		if last.Length() <= epsilon {
			// A zero-length interval leaves no trace once superseded.
			list = list[:len(list)-1]
		}
		if n := len(list); n > 0 && list[n-1].State == e.State {
			list[n-1].End = checkpoint
		} else {
			list = append(list, model.Interval{State: e.State, Start: now, End: checkpoint})
		}
		r.intervals[e.TaskID] = list
	}
}

// Close stretches every task's last interval to end.
func (r *Recorder) Close(end float64) {
	for _, id := range r.ids {
		list := r.intervals[id]
		list[len(list)-1].End = end
	}
}

// Intervals returns a copy of the recorded intervals of id.
func (r *Recorder) Intervals(id model.TaskID) []model.Interval {
	list := r.intervals[id]
	out := make([]model.Interval, len(list))
	copy(out, list)
	return out
}
