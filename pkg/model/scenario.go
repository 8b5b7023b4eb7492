package model

import "math"

// Timeline configures the simulation clock. Ptr defaults to Start and Unit
// defaults to 1 when left nil.
type Timeline struct {
	Start float64  `json:"start" yaml:"start"`
	End   float64  `json:"end" yaml:"end"`
	Ptr   *float64 `json:"ptr,omitempty" yaml:"ptr,omitempty"`
	Unit  *float64 `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// PtrOrDefault returns the initial clock pointer.
func (t Timeline) PtrOrDefault() float64 {
	if t.Ptr != nil {
		return *t.Ptr
	}
	return t.Start
}

// UnitOrDefault returns the tick unit.
func (t Timeline) UnitOrDefault() float64 {
	if t.Unit != nil {
		return *t.Unit
	}
	return 1
}

// Ticks returns the number of ticks needed to cover the horizon from the
// initial pointer, or -1 when the unit is not positive or a bound is NaN.
// Horizons too long for an int saturate at math.MaxInt.
func (t Timeline) Ticks() int {
	unit := t.UnitOrDefault()
	span := t.End - t.PtrOrDefault()
	if !(unit > 0) || math.IsNaN(span) {
		return -1
	}
	if span <= 0 {
		return 0
	}
	n := math.Ceil(span / unit)
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Scenario is everything a simulation run needs: the clock, the task
// catalog, and the group membership.
type Scenario struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Timeline Timeline    `json:"timeline" yaml:"timeline"`
	Tasks    []Task      `json:"tasks" yaml:"tasks"`
	Groups   []GroupSpec `json:"groups" yaml:"groups"`

	// Catalog and Dependency reference external files (a CSV task catalog
	// and a group text file). Paths are relative to the scenario file.
	Catalog    string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Dependency string `json:"dependency,omitempty" yaml:"dependency,omitempty"`
}

// TaskByID returns the catalog entry for id.
func (s *Scenario) TaskByID(id TaskID) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
