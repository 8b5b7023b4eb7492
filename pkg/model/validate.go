package model

import (
	"fmt"
	"math"
)

// Validate checks the scenario before any simulation state is built.
// It returns the first problem found as a *ConfigError or *EmptyGroupError.
func (s *Scenario) Validate() error {
	if err := s.Timeline.validate(); err != nil {
		return err
	}

	if len(s.Tasks) == 0 {
		return &ConfigError{Field: "tasks", Reason: "catalog is empty"}
	}
	durations := make(map[TaskID]float64, len(s.Tasks))
	for i, t := range s.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if t.ID == "" {
			return &ConfigError{Field: field, Reason: "missing id"}
		}
		if _, dup := durations[t.ID]; dup {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
		}
		if t.Duration < 0 || math.IsNaN(t.Duration) || math.IsInf(t.Duration, 0) {
			return &ConfigError{Field: field + ".duration", Reason: fmt.Sprintf("task %q has invalid duration %g", t.ID, t.Duration)}
		}
		durations[t.ID] = t.Duration
	}

	names := make(map[string]bool, len(s.Groups))
	for i, g := range s.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		if g.Name == "" {
			return &ConfigError{Field: field, Reason: "missing name"}
		}
		if names[g.Name] {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("duplicate group name %q", g.Name)}
		}
		names[g.Name] = true
		if len(g.Members) == 0 {
			return &EmptyGroupError{Group: g.Name}
		}

		allZero := true
		for _, id := range g.Members {
			d, ok := durations[id]
			if !ok {
				return &ConfigError{Field: field, Reason: fmt.Sprintf("group %q references unknown task %q", g.Name, id)}
			}
			if d > 0 {
				allZero = false
			}
		}
		if allZero {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("every member of group %q has zero duration", g.Name)}
		}
	}
	return nil
}

// validate checks the clock bounds. Every bound must be finite and the unit
// must still move the pointer at the largest magnitude on the horizon,
// otherwise the clock never reaches end.
func (t Timeline) validate() error {
	ptr, unit := t.PtrOrDefault(), t.UnitOrDefault()
	for _, f := range []struct {
		field string
		v     float64
	}{
		{"timeline.start", t.Start},
		{"timeline.end", t.End},
		{"timeline.ptr", ptr},
		{"timeline.unit", unit},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.field, Reason: fmt.Sprintf("%g is not a finite number", f.v)}
		}
	}
	switch {
	case t.Start > t.End:
		return &ConfigError{Field: "timeline.start", Reason: fmt.Sprintf("start %g is after end %g", t.Start, t.End)}
	case ptr < t.Start || ptr > t.End:
		return &ConfigError{Field: "timeline.ptr", Reason: fmt.Sprintf("ptr %g is outside [%g, %g]", ptr, t.Start, t.End)}
	case unit <= 0:
		return &ConfigError{Field: "timeline.unit", Reason: fmt.Sprintf("unit %g must be positive", unit)}
	}
	if scale := math.Max(math.Abs(t.Start), math.Abs(t.End)); scale+unit == scale {
		return &ConfigError{Field: "timeline.unit", Reason: fmt.Sprintf("unit %g is below the float resolution at %g", unit, scale)}
	}
	return nil
}
