package scheduler

import "github.com/me/groupsched/pkg/model"

// classification partitions the registry at the current clock time.
type classification struct {
	finished  []model.TaskID
	executing []model.TaskID
	locked    []model.TaskID
	frozen    []model.TaskID
	stuck     []model.TaskID
}

// Tick runs one clock step: classify, reconcile when something finished (or
// on the first tick), then advance the clock by one unit.
func (s *Scheduler) Tick() error {
	if s.clock.IsEnd() {
		return nil
	}

	cls := s.classify()
	if !s.first && len(cls.stuck) > 0 {
		return &model.InvariantViolation{
			Tick:     s.clock.Ptr(),
			Stuck:    cls.stuck,
			Registry: s.registry.Snapshot(),
			Groups:   s.dep.Snapshot(),
		}
	}

	// Zero-duration admissions finish at the instant they start, so keep
	// reconciling until nothing is finished at the current time.
	for pass := 0; s.first || len(cls.finished) > 0; pass++ {
		if pass >= s.maxPasses {
			return &model.SettleError{
				Tick:     s.clock.Ptr(),
				Passes:   pass,
				Registry: s.registry.Snapshot(),
				Groups:   s.dep.Snapshot(),
			}
		}
		s.reconcile(cls)
		s.first = false
		cls = s.classify()
	}

	s.clock.Advance(1)
	return nil
}

func (s *Scheduler) classify() classification {
	var cls classification
	now := s.clock.Ptr()
	for _, id := range s.registry.ids {
		e := s.registry.entries[id]
		switch e.state {
		case model.TaskStateRunning:
			if e.deadline == nil || reached(*e.deadline, now) {
				cls.finished = append(cls.finished, id)
			} else {
				cls.executing = append(cls.executing, id)
			}
		case model.TaskStateLocked:
			cls.locked = append(cls.locked, id)
		case model.TaskStateFrozen:
			cls.frozen = append(cls.frozen, id)
		case model.TaskStateWaiting:
			// Tasks outside every group are never scheduled.
			if len(e.groups) > 0 {
				cls.stuck = append(cls.stuck, id)
			}
		}
	}
	return cls
}

// reconcile rebuilds every lock and freeze from scratch: unlock, then group
// progression, then admission, then record.
func (s *Scheduler) reconcile(cls classification) {
	now := s.clock.Ptr()
	before := s.registry.Snapshot()

	executing := make(map[model.TaskID]bool, len(cls.executing))
	for _, id := range cls.executing {
		executing[id] = true
	}
	finished := make(map[model.TaskID]bool, len(cls.finished))
	for _, id := range cls.finished {
		finished[id] = true
	}

	// Unlock.
	var release []model.TaskID
	for _, id := range s.registry.ids {
		if !executing[id] {
			release = append(release, id)
		}
	}
	s.registry.Set(release, model.TaskStateWaiting, nil)

	// Group progression.
	var advanced int
	for _, name := range s.dep.names {
		g := s.dep.groups[name]
		switch g.Status() {
		case model.GroupStateFrozen:
			g.SetStatus(model.GroupStateWaiting)
		case model.GroupStateRunning:
			cur := g.Current()
			switch {
			case finished[cur]:
				g.SetStatus(model.GroupStateWaiting)
				_ = g.Advance(1)
				advanced++
			case executing[cur]:
				s.lockPeers(cur)
			default:
				s.logger.Warn("running group without a running member", "group", name, "member", cur, "t", now)
				g.SetStatus(model.GroupStateWaiting)
			}
		}
	}
	// An executing task keeps its peers locked in every group it belongs
	// to, including groups whose pointer is elsewhere.
	for _, id := range cls.executing {
		s.lockPeers(id)
	}

	// Admission.
	var admitted, frozen int
	for _, name := range s.dep.names {
		g := s.dep.groups[name]
		if g.Status() != model.GroupStateWaiting {
			continue
		}
		cur := g.Current()
		switch s.registry.State(cur) {
		case model.TaskStateWaiting:
			deadline := now + s.tasks[cur].Duration
			s.registry.Set([]model.TaskID{cur}, model.TaskStateRunning, &deadline)
			g.SetStatus(model.GroupStateRunning)
			s.lockPeers(cur)
			admitted++
		case model.TaskStateRunning:
			// Already admitted by another group that shares it.
			g.SetStatus(model.GroupStateRunning)
			s.lockPeers(cur)
		case model.TaskStateLocked, model.TaskStateFrozen:
			g.SetStatus(model.GroupStateFrozen)
			var cascade []model.TaskID
			for _, m := range g.members {
				if s.registry.State(m) == model.TaskStateWaiting {
					cascade = append(cascade, m)
				}
			}
			s.registry.Set(cascade, model.TaskStateFrozen, nil)
			frozen++
		}
	}

	after := s.registry.Snapshot()
	s.recorder.Record(before, after, now, s.checkpoint())
	s.passes++

	s.logger.Debug("reconciliation pass",
		"t", now,
		"finished", len(cls.finished),
		"advanced", advanced,
		"admitted", admitted,
		"frozen_groups", frozen,
	)
}

// lockPeers locks every member of every group id belongs to, except id
// itself and tasks that are running.
func (s *Scheduler) lockPeers(id model.TaskID) {
	var peers []model.TaskID
	for _, name := range s.dep.Containing(id) {
		for _, m := range s.dep.groups[name].members {
			if m == id || s.registry.State(m) == model.TaskStateRunning {
				continue
			}
			peers = append(peers, m)
		}
	}
	s.registry.Set(peers, model.TaskStateLocked, nil)
}

// checkpoint is the time of the next state-changing event: the earliest
// running deadline, bounded by the end of the horizon.
func (s *Scheduler) checkpoint() float64 {
	cp, ok := s.registry.NextCheckpoint()
	if !ok || cp > s.clock.End() {
		return s.clock.End()
	}
	return cp
}
