package store

import (
	"context"

	"github.com/me/groupsched/pkg/model"
)

// Store defines the persistence layer for finished simulation runs. It is
// an export sink: simulations never read it back as input.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run *model.RunSummary, res *model.Result) error
	GetRun(ctx context.Context, id string) (*model.RunSummary, error)
	ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.RunSummary, int, error)

	// Run contents
	ListIntervals(ctx context.Context, runID string, states ...model.TaskState) ([]model.ScheduleRow, error)
	ListEntries(ctx context.Context, runID string) ([]model.Entry, error)
	ListGroups(ctx context.Context, runID string) ([]model.GroupSnapshot, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
