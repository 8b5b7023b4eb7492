package scheduler

import (
	"github.com/me/groupsched/pkg/model"
)

// Group is a cyclic, ordered sequence of task ids with a pointer to the
// member whose turn it is. Status is a plain tag; which transitions are legal
// is decided by the scheduler, not here.
type Group struct {
	name      string
	members   []model.TaskID
	index     int
	status    model.GroupState
	rotations int
}

// NewGroup creates a WAITING group pointing at its first member.
func NewGroup(name string, members []model.TaskID) (*Group, error) {
	if len(members) == 0 {
		return nil, &model.EmptyGroupError{Group: name}
	}
	m := make([]model.TaskID, len(members))
	copy(m, members)
	return &Group{name: name, members: m, status: model.GroupStateWaiting}, nil
}

// Advance moves the pointer n steps around the cycle. Negative n walks
// backwards.
func (g *Group) Advance(n int) error {
	if len(g.members) == 0 {
		return &model.ArgumentError{Op: "group advance", Reason: "group " + g.name + " has no members"}
	}
	l := len(g.members)
	g.index = ((g.index+n)%l + l) % l
	if n > 0 {
		g.rotations += n
	}
	return nil
}

// Current returns the member the pointer is on.
func (g *Group) Current() model.TaskID {
	return g.members[g.index]
}

// Members returns a copy of the member list.
func (g *Group) Members() []model.TaskID {
	m := make([]model.TaskID, len(g.members))
	copy(m, g.members)
	return m
}

func (g *Group) Name() string                      { return g.name }
func (g *Group) Len() int                          { return len(g.members) }
func (g *Group) Index() int                        { return g.index }
func (g *Group) Rotations() int                    { return g.rotations }
func (g *Group) Status() model.GroupState          { return g.status }
func (g *Group) SetStatus(status model.GroupState) { g.status = status }

// Snapshot returns the group's observable state.
func (g *Group) Snapshot() model.GroupSnapshot {
	return model.GroupSnapshot{
		Name:      g.name,
		Members:   g.Members(),
		Index:     g.index,
		Current:   g.Current(),
		Status:    g.status,
		Rotations: g.rotations,
	}
}
