package scheduler

import (
	"fmt"
	"math"

	"github.com/me/groupsched/pkg/model"
)

// epsilon absorbs float drift when a deadline is compared with the clock.
const epsilon = 1e-9

// Clock is a monotonic discrete time pointer bounded to [start, end].
type Clock struct {
	start float64
	end   float64
	ptr   float64
	unit  float64
}

// NewClock validates the bounds and returns a clock positioned at ptr.
func NewClock(start, end, ptr, unit float64) (*Clock, error) {
	for _, v := range []float64{start, end, ptr, unit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &model.ConfigError{Field: "timeline", Reason: fmt.Sprintf("%g is not a finite number", v)}
		}
	}
	if start > end {
		return nil, &model.ConfigError{Field: "timeline.start", Reason: fmt.Sprintf("start %g is after end %g", start, end)}
	}
	if ptr < start || ptr > end {
		return nil, &model.ConfigError{Field: "timeline.ptr", Reason: fmt.Sprintf("ptr %g is outside [%g, %g]", ptr, start, end)}
	}
	if unit <= 0 {
		return nil, &model.ConfigError{Field: "timeline.unit", Reason: fmt.Sprintf("unit %g must be positive", unit)}
	}
	return &Clock{start: start, end: end, ptr: ptr, unit: unit}, nil
}

// NewClockFromTimeline builds a clock from a scenario timeline, applying the
// ptr and unit defaults.
func NewClockFromTimeline(tl model.Timeline) (*Clock, error) {
	return NewClock(tl.Start, tl.End, tl.PtrOrDefault(), tl.UnitOrDefault())
}

// Advance moves the pointer by n units, clamping into [start, end].
func (c *Clock) Advance(n int) {
	c.ptr += float64(n) * c.unit
	if c.ptr > c.end {
		c.ptr = c.end
	} else if c.ptr < c.start {
		c.ptr = c.start
	}
}

// IsEnd reports whether the pointer has reached the end of the horizon.
// Advance clamps the pointer to end, so the comparison must include it.
func (c *Clock) IsEnd() bool {
	return c.ptr >= c.end
}

func (c *Clock) Start() float64 { return c.start }
func (c *Clock) End() float64   { return c.end }
func (c *Clock) Ptr() float64   { return c.ptr }
func (c *Clock) Unit() float64  { return c.unit }

// Timeline returns the clock state as a model.Timeline.
func (c *Clock) Timeline() model.Timeline {
	ptr, unit := c.ptr, c.unit
	return model.Timeline{Start: c.start, End: c.end, Ptr: &ptr, Unit: &unit}
}

func (c *Clock) String() string {
	return fmt.Sprintf("{start: %g, end: %g, ptr: %g, unit: %g}", c.start, c.end, c.ptr, c.unit)
}

// reached reports whether deadline is at or before t.
func reached(deadline, t float64) bool {
	return deadline <= t+epsilon
}
