package scheduler

import (
	"errors"
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func TestNewGroup_Empty(t *testing.T) {
	_, err := NewGroup("g", nil)
	var emptyErr *model.EmptyGroupError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("NewGroup(nil) error = %v, want *model.EmptyGroupError", err)
	}
}

func TestGroup_RoundRobin(t *testing.T) {
	g, err := NewGroup("g", []model.TaskID{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if g.Current() != "a" || g.Status() != model.GroupStateWaiting {
		t.Fatalf("new group: current=%s status=%s", g.Current(), g.Status())
	}

	want := []model.TaskID{"b", "c", "a", "b", "c", "a", "b"}
	for k, id := range want {
		if err := g.Advance(1); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if g.Current() != id {
			t.Errorf("after %d advances: Current() = %s, want %s", k+1, g.Current(), id)
		}
		if g.Index() != (k+1)%3 {
			t.Errorf("after %d advances: Index() = %d, want %d", k+1, g.Index(), (k+1)%3)
		}
	}
	if g.Rotations() != len(want) {
		t.Errorf("Rotations() = %d, want %d", g.Rotations(), len(want))
	}
}

func TestGroup_AdvanceNegativeAndLarge(t *testing.T) {
	g, _ := NewGroup("g", []model.TaskID{"a", "b", "c", "d"})
	if err := g.Advance(-1); err != nil {
		t.Fatalf("Advance(-1): %v", err)
	}
	if g.Current() != "d" {
		t.Errorf("Current() = %s, want d", g.Current())
	}
	if err := g.Advance(9); err != nil {
		t.Fatalf("Advance(9): %v", err)
	}
	if g.Current() != "a" {
		t.Errorf("Current() = %s, want a", g.Current())
	}
}

func TestGroup_AdvanceWithoutMembers(t *testing.T) {
	g := &Group{name: "hollow"}
	err := g.Advance(1)
	var argErr *model.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("Advance on empty group error = %v, want *model.ArgumentError", err)
	}
}

func TestGroup_MembersIsACopy(t *testing.T) {
	in := []model.TaskID{"a", "b"}
	g, _ := NewGroup("g", in)
	in[0] = "z"
	m := g.Members()
	m[1] = "y"
	if g.Current() != "a" || g.Members()[1] != "b" {
		t.Errorf("group members were mutated from outside: %v", g.Members())
	}
}

func TestGroup_StatusIsUnvalidated(t *testing.T) {
	g, _ := NewGroup("g", []model.TaskID{"a"})
	for _, s := range []model.GroupState{model.GroupStateFrozen, model.GroupStateRunning, model.GroupStateWaiting, model.GroupStateFrozen} {
		g.SetStatus(s)
		if g.Status() != s {
			t.Errorf("Status() = %s, want %s", g.Status(), s)
		}
	}
	snap := g.Snapshot()
	if snap.Status != model.GroupStateFrozen || snap.Current != "a" || snap.Name != "g" {
		t.Errorf("Snapshot() = %+v", snap)
	}
}
