package scheduler

import (
	"fmt"

	"github.com/me/groupsched/pkg/model"
)

// Dependency is the fixed set of groups of a simulation, keyed by name.
// Names are kept in declaration order, which is the order every pass visits
// the groups in.
type Dependency struct {
	names  []string
	groups map[string]*Group
	byTask map[model.TaskID][]string
}

// NewDependency builds one Group per spec. Empty groups and duplicate names
// are rejected.
func NewDependency(specs []model.GroupSpec) (*Dependency, error) {
	d := &Dependency{
		groups: make(map[string]*Group, len(specs)),
		byTask: make(map[model.TaskID][]string),
	}
	for _, spec := range specs {
		if _, dup := d.groups[spec.Name]; dup {
			return nil, &model.ConfigError{Field: "groups", Reason: fmt.Sprintf("duplicate group name %q", spec.Name)}
		}
		g, err := NewGroup(spec.Name, spec.Members)
		if err != nil {
			return nil, err
		}
		d.names = append(d.names, spec.Name)
		d.groups[spec.Name] = g
		for _, id := range g.members {
			d.byTask[id] = appendUnique(d.byTask[id], spec.Name)
		}
	}
	return d, nil
}

// Get returns the named group, or nil.
func (d *Dependency) Get(name string) *Group {
	return d.groups[name]
}

// Replace swaps the named group for g. The member list of g must match the
// one it replaces; membership is fixed for the lifetime of a run.
func (d *Dependency) Replace(name string, g *Group) error {
	old, ok := d.groups[name]
	if !ok {
		return fmt.Errorf("unknown group %q", name)
	}
	if !sameMembers(old.members, g.members) {
		return fmt.Errorf("replace group %q: membership differs", name)
	}
	d.groups[name] = g
	return nil
}

// Names returns group names in declaration order.
func (d *Dependency) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Containing returns the names of the groups id belongs to.
func (d *Dependency) Containing(id model.TaskID) []string {
	return d.byTask[id]
}

// Len returns the number of groups.
func (d *Dependency) Len() int {
	return len(d.names)
}

// Snapshot returns every group's state in declaration order.
func (d *Dependency) Snapshot() []model.GroupSnapshot {
	out := make([]model.GroupSnapshot, 0, len(d.names))
	for _, name := range d.names {
		out = append(out, d.groups[name].Snapshot())
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func sameMembers(a, b []model.TaskID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
