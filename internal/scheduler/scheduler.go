package scheduler

import (
	"log/slog"

	"github.com/me/groupsched/internal/logging"
	"github.com/me/groupsched/pkg/model"
)

// Scheduler replays group contention over the clock horizon. It owns the
// clock, the dependency set, the registry and the recorder; nothing else
// mutates them.
type Scheduler struct {
	scenario  string
	timeline  model.Timeline
	catalog   []model.Task
	tasks     map[model.TaskID]model.Task
	clock     *Clock
	dep       *Dependency
	registry  *Registry
	recorder  *Recorder
	logger    *slog.Logger
	first     bool
	passes    int
	maxPasses int
}

// New validates sc and builds a scheduler positioned at the initial clock
// pointer, with every task WAITING and every group WAITING on its first
// member. A nil logger discards output.
func New(sc *model.Scenario, logger *slog.Logger) (*Scheduler, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	clock, err := NewClockFromTimeline(sc.Timeline)
	if err != nil {
		return nil, err
	}
	dep, err := NewDependency(sc.Groups)
	if err != nil {
		return nil, err
	}

	ids := make([]model.TaskID, len(sc.Tasks))
	tasks := make(map[model.TaskID]model.Task, len(sc.Tasks))
	for i, t := range sc.Tasks {
		ids[i] = t.ID
		tasks[t.ID] = t
	}
	catalog := make([]model.Task, len(sc.Tasks))
	copy(catalog, sc.Tasks)

	maxPasses := 1
	for _, g := range sc.Groups {
		maxPasses += len(g.Members)
	}

	return &Scheduler{
		scenario:  sc.Name,
		timeline:  sc.Timeline,
		catalog:   catalog,
		tasks:     tasks,
		clock:     clock,
		dep:       dep,
		registry:  NewRegistry(clock, ids, dep),
		recorder:  NewRecorder(ids, clock.Start(), clock.Ptr()),
		logger:    logger.With("component", "scheduler"),
		first:     true,
		maxPasses: maxPasses,
	}, nil
}

// Run ticks the clock until it reaches the end of the horizon and returns
// the recorded schedule. An *model.InvariantViolation halts the run.
func (s *Scheduler) Run() (*model.Result, error) {
	s.logger.Info("simulation started",
		"scenario", s.scenario,
		"tasks", len(s.catalog),
		"groups", s.dep.Len(),
		"clock", s.clock.String(),
	)
	for !s.clock.IsEnd() {
		if err := s.Tick(); err != nil {
			s.logger.Error("simulation halted", "t", s.clock.Ptr(), "error", err)
			return nil, err
		}
	}
	s.recorder.Close(s.clock.End())
	s.logger.Info("simulation finished", "scenario", s.scenario, "passes", s.passes)
	return s.Result(), nil
}

// Result returns the recorded schedule and the current registry and group
// state.
func (s *Scheduler) Result() *model.Result {
	schedule := make([]model.TaskSchedule, 0, len(s.catalog))
	for _, t := range s.catalog {
		schedule = append(schedule, model.TaskSchedule{Task: t, Intervals: s.recorder.Intervals(t.ID)})
	}
	return &model.Result{
		Timeline: s.timeline,
		Schedule: schedule,
		Registry: s.registry.Snapshot(),
		Groups:   s.dep.Snapshot(),
		Passes:   s.passes,
	}
}

// Now returns the current clock pointer.
func (s *Scheduler) Now() float64 {
	return s.clock.Ptr()
}

// Done reports whether the clock has reached the end of the horizon.
func (s *Scheduler) Done() bool {
	return s.clock.IsEnd()
}

// Registry returns a copy of every registry row.
func (s *Scheduler) Registry() []model.Entry {
	return s.registry.Snapshot()
}

// Groups returns a copy of every group's state.
func (s *Scheduler) Groups() []model.GroupSnapshot {
	return s.dep.Snapshot()
}
