package model

import (
	"math"
	"testing"
)

func TestListOptions_Clamp(t *testing.T) {
	tests := []struct {
		name       string
		input      ListOptions
		wantLimit  int
		wantOffset int
	}{
		{"defaults", ListOptions{Limit: 0, Offset: 0}, 20, 0},
		{"negative limit", ListOptions{Limit: -5, Offset: 0}, 20, 0},
		{"over max", ListOptions{Limit: 200, Offset: 0}, 100, 0},
		{"negative offset", ListOptions{Limit: 10, Offset: -3}, 10, 0},
		{"valid", ListOptions{Limit: 50, Offset: 10, Scenario: "line-a"}, 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Clamp()
			if tt.input.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.input.Limit, tt.wantLimit)
			}
			if tt.input.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", tt.input.Offset, tt.wantOffset)
			}
		})
	}
}

func TestTimeline_Defaults(t *testing.T) {
	tl := Timeline{Start: -5, End: 10}
	if got := tl.PtrOrDefault(); got != -5 {
		t.Errorf("PtrOrDefault() = %v, want -5", got)
	}
	if got := tl.UnitOrDefault(); got != 1 {
		t.Errorf("UnitOrDefault() = %v, want 1", got)
	}

	ptr, unit := 0.0, 0.5
	tl.Ptr, tl.Unit = &ptr, &unit
	if got := tl.PtrOrDefault(); got != 0 {
		t.Errorf("PtrOrDefault() = %v, want 0", got)
	}
	if got := tl.Ticks(); got != 20 {
		t.Errorf("Ticks() = %d, want 20", got)
	}
}

func TestTimeline_Ticks(t *testing.T) {
	tests := []struct {
		name string
		unit float64
		end  float64
		want int
	}{
		{"whole", 1, 10, 10},
		{"partial last tick", 3, 10, 4},
		{"empty horizon", 1, 0, 0},
		{"zero unit", 0, 10, -1},
		{"saturates", 1e-10, 1e300, math.MaxInt},
		{"infinite end", 1, math.Inf(1), math.MaxInt},
		{"NaN end", 1, math.NaN(), -1},
		{"NaN unit", math.NaN(), 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := tt.unit
			tl := Timeline{Start: 0, End: tt.end, Unit: &unit}
			if got := tl.Ticks(); got != tt.want {
				t.Errorf("Ticks() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTask_DisplayName(t *testing.T) {
	if got := (Task{ID: "7"}).DisplayName(); got != "7" {
		t.Errorf("DisplayName() = %q, want 7", got)
	}
	if got := (Task{ID: "7", Name: "weld"}).DisplayName(); got != "weld" {
		t.Errorf("DisplayName() = %q, want weld", got)
	}
}
