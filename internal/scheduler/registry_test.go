package scheduler

import (
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func testRegistry(t *testing.T) (*Registry, *Clock) {
	t.Helper()
	clock, err := NewClock(0, 20, 2, 1)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	dep, err := NewDependency([]model.GroupSpec{{Name: "g", Members: []model.TaskID{"a", "b"}}})
	if err != nil {
		t.Fatalf("NewDependency: %v", err)
	}
	return NewRegistry(clock, []model.TaskID{"a", "b", "c"}, dep), clock
}

func TestNewRegistry(t *testing.T) {
	reg, _ := testRegistry(t)
	for _, e := range reg.Snapshot() {
		if e.State != model.TaskStateWaiting {
			t.Errorf("%s: State = %s, want WAITING", e.TaskID, e.State)
		}
		if e.Deadline != nil {
			t.Errorf("%s: Deadline = %v, want nil", e.TaskID, *e.Deadline)
		}
		if e.RegisteredAt != 2 {
			t.Errorf("%s: RegisteredAt = %v, want 2", e.TaskID, e.RegisteredAt)
		}
	}
	c, _ := reg.Get("c")
	if len(c.Groups) != 0 {
		t.Errorf("c.Groups = %v, want none", c.Groups)
	}
	a, _ := reg.Get("a")
	if len(a.Groups) != 1 || a.Groups[0] != "g" {
		t.Errorf("a.Groups = %v, want [g]", a.Groups)
	}
}

func TestRegistry_SetStampsClock(t *testing.T) {
	reg, clock := testRegistry(t)
	clock.Advance(3)

	deadline := 9.0
	reg.Set([]model.TaskID{"a"}, model.TaskStateRunning, &deadline)
	deadline = 100 // the registry keeps its own copy

	a, ok := reg.Get("a")
	if !ok {
		t.Fatal("Get(a) not found")
	}
	if a.State != model.TaskStateRunning || a.Deadline == nil || *a.Deadline != 9 {
		t.Errorf("a = %+v, want RUNNING until 9", a)
	}
	if a.RegisteredAt != 5 {
		t.Errorf("RegisteredAt = %v, want 5", a.RegisteredAt)
	}

	reg.Set([]model.TaskID{"a", "b", "unknown"}, model.TaskStateLocked, nil)
	if a, _ := reg.Get("a"); a.State != model.TaskStateLocked || a.Deadline != nil {
		t.Errorf("a after lock = %+v, want LOCKED without deadline", a)
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Error("Set added an unknown task")
	}
}

func TestRegistry_NextCheckpoint(t *testing.T) {
	reg, _ := testRegistry(t)
	if _, ok := reg.NextCheckpoint(); ok {
		t.Error("NextCheckpoint reported a deadline with nothing running")
	}
	d1, d2 := 7.0, 4.0
	reg.Set([]model.TaskID{"a"}, model.TaskStateRunning, &d1)
	reg.Set([]model.TaskID{"c"}, model.TaskStateRunning, &d2)
	cp, ok := reg.NextCheckpoint()
	if !ok || cp != 4 {
		t.Errorf("NextCheckpoint() = %v, %v; want 4, true", cp, ok)
	}
}
