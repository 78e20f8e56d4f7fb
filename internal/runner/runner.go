// Package runner executes a search under one of the concurrency strategies.
// Every strategy goes through the same coordinator; they differ only in worker and task counts.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/internal/cluster"
	"github.com/gcbaptista/go-doc-search/internal/matcher"
	"github.com/gcbaptista/go-doc-search/model"
)

// Strategy is a (workers, tasks per worker) pair with a display name
type Strategy struct {
	Name    string `json:"name"`
	Workers int    `json:"workers"`
	Tasks   int    `json:"tasks_per_worker"`
}

func (s Strategy) String() string {
	return fmt.Sprintf("%s (%d workers x %d tasks)", s.Name, s.Workers, s.Tasks)
}

// Sequential runs one worker with one task
func Sequential() Strategy {
	return Strategy{Name: "sequential", Workers: 1, Tasks: 1}
}

// Threaded runs one worker with several tasks
func Threaded(tasks int) Strategy {
	return Strategy{Name: "threaded", Workers: 1, Tasks: tasks}
}

// Distributed runs several single-task workers
func Distributed(workers int) Strategy {
	return Strategy{Name: "distributed", Workers: workers, Tasks: 1}
}

// Hybrid runs several workers with several tasks each
func Hybrid(workers, tasks int) Strategy {
	return Strategy{Name: "hybrid", Workers: workers, Tasks: tasks}
}

// All returns the four strategies, baseline first
func All(workers, tasks int) []Strategy {
	return []Strategy{
		Sequential(),
		Threaded(tasks),
		Distributed(workers),
		Hybrid(workers, tasks),
	}
}

// Runner runs searches with shared coordinator options
type Runner struct {
	gatherTimeout time.Duration
	options       []cluster.CoordinatorOption
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLogger sets the logger every run writes to
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.options = append(r.options, cluster.WithLogger(logger))
	}
}

// WithOpener sets how documents are opened
func WithOpener(opener matcher.Opener) RunnerOption {
	return func(r *Runner) {
		r.options = append(r.options, cluster.WithOpener(opener))
	}
}

// WithGatherTimeout bounds how long a run waits for worker reports
func WithGatherTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.gatherTimeout = timeout
	}
}

// NewRunner creates a runner
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run searches docs for pattern with the given strategy
func (r *Runner) Run(ctx context.Context, docs []model.Document, pattern model.Pattern, strategy Strategy) (*cluster.RunResult, error) {
	coordinator, err := cluster.NewCoordinator(config.RunSettings{
		Pattern:        pattern.Text,
		Mode:           pattern.Mode,
		Workers:        strategy.Workers,
		TasksPerWorker: strategy.Tasks,
		GatherTimeout:  r.gatherTimeout,
	}, r.options...)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", strategy.Name, err)
	}
	return coordinator.Run(ctx, docs)
}
