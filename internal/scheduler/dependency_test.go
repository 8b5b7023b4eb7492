package scheduler

import (
	"errors"
	"reflect"
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func TestNewDependency(t *testing.T) {
	dep, err := NewDependency([]model.GroupSpec{
		{Name: "zeta", Members: []model.TaskID{"c", "d"}},
		{Name: "alpha", Members: []model.TaskID{"c", "e"}},
	})
	if err != nil {
		t.Fatalf("NewDependency: %v", err)
	}
	if got := dep.Names(); !reflect.DeepEqual(got, []string{"zeta", "alpha"}) {
		t.Errorf("Names() = %v, want declaration order", got)
	}
	if got := dep.Containing("c"); !reflect.DeepEqual(got, []string{"zeta", "alpha"}) {
		t.Errorf("Containing(c) = %v", got)
	}
	if got := dep.Containing("x"); len(got) != 0 {
		t.Errorf("Containing(x) = %v, want none", got)
	}
	if dep.Get("alpha").Current() != "c" {
		t.Errorf("alpha.Current() = %s, want c", dep.Get("alpha").Current())
	}
	if dep.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
}

func TestNewDependency_Errors(t *testing.T) {
	_, err := NewDependency([]model.GroupSpec{{Name: "g"}})
	var emptyErr *model.EmptyGroupError
	if !errors.As(err, &emptyErr) {
		t.Errorf("empty group: error = %v, want *model.EmptyGroupError", err)
	}

	_, err = NewDependency([]model.GroupSpec{
		{Name: "g", Members: []model.TaskID{"a"}},
		{Name: "g", Members: []model.TaskID{"b"}},
	})
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("duplicate name: error = %v, want *model.ConfigError", err)
	}
}

func TestDependency_Replace(t *testing.T) {
	dep, _ := NewDependency([]model.GroupSpec{{Name: "g", Members: []model.TaskID{"a", "b"}}})

	g, _ := NewGroup("g", []model.TaskID{"a", "b"})
	_ = g.Advance(1)
	if err := dep.Replace("g", g); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if dep.Get("g").Current() != "b" {
		t.Errorf("Current() = %s after replace, want b", dep.Get("g").Current())
	}

	other, _ := NewGroup("g", []model.TaskID{"a", "c"})
	if err := dep.Replace("g", other); err == nil {
		t.Error("Replace with different membership succeeded")
	}
	if err := dep.Replace("nope", g); err == nil {
		t.Error("Replace of unknown group succeeded")
	}
}
