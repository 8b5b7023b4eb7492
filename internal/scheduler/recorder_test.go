package scheduler

import (
	"reflect"
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func states(pairs ...any) []model.Entry {
	var out []model.Entry
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.Entry{TaskID: model.TaskID(pairs[i].(string)), State: pairs[i+1].(model.TaskState)})
	}
	return out
}

func TestRecorder_ExtendAndOpen(t *testing.T) {
	r := NewRecorder([]model.TaskID{"a", "b"}, 0, 0)

	r.Record(
		states("a", model.TaskStateWaiting, "b", model.TaskStateWaiting),
		states("a", model.TaskStateRunning, "b", model.TaskStateWaiting),
		0, 3,
	)
	r.Record(
		states("a", model.TaskStateRunning, "b", model.TaskStateWaiting),
		states("a", model.TaskStateLocked, "b", model.TaskStateWaiting),
		3, 8,
	)
	r.Close(10)

	wantA := []model.Interval{
		{State: model.TaskStateRunning, Start: 0, End: 3},
		{State: model.TaskStateLocked, Start: 3, End: 10},
	}
	if got := r.Intervals("a"); !reflect.DeepEqual(got, wantA) {
		t.Errorf("a = %+v, want %+v", got, wantA)
	}
	wantB := []model.Interval{{State: model.TaskStateWaiting, Start: 0, End: 10}}
	if got := r.Intervals("b"); !reflect.DeepEqual(got, wantB) {
		t.Errorf("b = %+v, want %+v", got, wantB)
	}
}

func TestRecorder_LeadingInterval(t *testing.T) {
	r := NewRecorder([]model.TaskID{"a"}, -5, 0)
	r.Record(states("a", model.TaskStateWaiting), states("a", model.TaskStateRunning), 0, 4)
	r.Close(4)

	want := []model.Interval{
		{State: model.TaskStateWaiting, Start: -5, End: 0},
		{State: model.TaskStateRunning, Start: 0, End: 4},
	}
	if got := r.Intervals("a"); !reflect.DeepEqual(got, want) {
		t.Errorf("a = %+v, want %+v", got, want)
	}
}

func TestRecorder_DropsSupersededZeroLength(t *testing.T) {
	r := NewRecorder([]model.TaskID{"z"}, 0, 0)
	// Same-instant RUNNING then LOCKED: the instantaneous run leaves no bar.
	r.Record(states("z", model.TaskStateWaiting), states("z", model.TaskStateRunning), 0, 0)
	r.Record(states("z", model.TaskStateRunning), states("z", model.TaskStateLocked), 0, 2)
	r.Record(states("z", model.TaskStateLocked), states("z", model.TaskStateRunning), 2, 2)
	r.Record(states("z", model.TaskStateRunning), states("z", model.TaskStateLocked), 2, 4)
	r.Close(5)

	want := []model.Interval{{State: model.TaskStateLocked, Start: 0, End: 5}}
	if got := r.Intervals("z"); !reflect.DeepEqual(got, want) {
		t.Errorf("z = %+v, want %+v", got, want)
	}
}
