package scheduler

import (
	"errors"
	"math"
	"testing"

	"github.com/me/groupsched/pkg/model"
)

func TestNewClock_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		end   float64
		ptr   float64
		unit  float64
		field string
	}{
		{"start after end", 5, 1, 1, 1, "timeline.start"},
		{"ptr below start", 0, 10, -1, 1, "timeline.ptr"},
		{"ptr above end", 0, 10, 11, 1, "timeline.ptr"},
		{"zero unit", 0, 10, 0, 0, "timeline.unit"},
		{"negative unit", 0, 10, 0, -1, "timeline.unit"},
		{"infinite end", 0, math.Inf(1), 0, 1, "timeline"},
		{"NaN unit", 0, 10, 0, math.NaN(), "timeline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClock(tt.start, tt.end, tt.ptr, tt.unit)
			var cfgErr *model.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("NewClock() error = %v, want *model.ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestClock_AdvanceClampsToEnd(t *testing.T) {
	c, err := NewClock(0, 10, 0, 1)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	c.Advance(3)
	if c.Ptr() != 3 {
		t.Errorf("Ptr() = %v, want 3", c.Ptr())
	}
	for _, n := range []int{8, 1, 1000} {
		c.Advance(n)
		if c.Ptr() != 10 {
			t.Errorf("after Advance(%d): Ptr() = %v, want 10", n, c.Ptr())
		}
	}
	if !c.IsEnd() {
		t.Error("IsEnd() = false at end")
	}
}

func TestClock_AdvanceClampsToStart(t *testing.T) {
	c, err := NewClock(-5, 5, 0, 2)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	c.Advance(-1)
	if c.Ptr() != -2 {
		t.Errorf("Ptr() = %v, want -2", c.Ptr())
	}
	c.Advance(-100)
	if c.Ptr() != -5 {
		t.Errorf("Ptr() = %v, want -5", c.Ptr())
	}
	if c.IsEnd() {
		t.Error("IsEnd() = true at start")
	}
}

func TestClock_IsEndWithPartialLastTick(t *testing.T) {
	c, err := NewClock(0, 10, 0, 3)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	ticks := 0
	for !c.IsEnd() {
		c.Advance(1)
		ticks++
		if ticks > 10 {
			t.Fatal("clock never reached its end")
		}
	}
	if ticks != 4 {
		t.Errorf("ticks = %d, want 4", ticks)
	}
	if c.Ptr() != 10 {
		t.Errorf("Ptr() = %v, want 10", c.Ptr())
	}
}

func TestClock_EmptyHorizon(t *testing.T) {
	c, err := NewClock(3, 3, 3, 1)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	if !c.IsEnd() {
		t.Error("IsEnd() = false for start == end")
	}
}

func TestNewClockFromTimeline_Defaults(t *testing.T) {
	c, err := NewClockFromTimeline(model.Timeline{Start: -50, End: 500})
	if err != nil {
		t.Fatalf("NewClockFromTimeline: %v", err)
	}
	if c.Ptr() != -50 || c.Unit() != 1 {
		t.Errorf("clock = %s, want ptr -50 and unit 1", c)
	}
	tl := c.Timeline()
	if tl.Ptr == nil || *tl.Ptr != -50 {
		t.Errorf("Timeline().Ptr = %v, want -50", tl.Ptr)
	}
}
