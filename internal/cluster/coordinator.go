// Package cluster runs a search over isolated workers.
//
// The coordinator broadcasts the pattern and the document list, every worker searches
// its round-robin share with its own task pool and sends back a partial table, and the
// coordinator merges the partial tables into the final one. Workers exchange gob frames
// with the coordinator only and never share memory.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	searcherrors "github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/internal/matcher"
	"github.com/gcbaptista/go-doc-search/model"
)

// RunResult is what a coordinated run produces
type RunResult struct {
	RunID         string                 `json:"run_id"`
	Pattern       model.Pattern          `json:"pattern"`
	Workers       int                    `json:"workers"`
	Tasks         int                    `json:"tasks_per_worker"`
	Table         *aggregate.ResultTable `json:"-"`
	AnyFound      bool                   `json:"any_found"`
	Elapsed       time.Duration          `json:"elapsed"`
	WorkerElapsed []time.Duration        `json:"worker_elapsed"` // indexed by rank
}

// Coordinator owns a run: it assigns the run ID, distributes the work and gathers the results.
type Coordinator struct {
	settings  config.RunSettings
	threshold int
	opener    matcher.Opener
	logger    *log.Logger
	transport func(workers int) Transport
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger shared by the coordinator and its workers.
// A log.Logger serializes its writes, so lines from concurrent tasks never interleave.
func WithLogger(logger *log.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithOpener makes every worker read documents through opener
func WithOpener(opener matcher.Opener) CoordinatorOption {
	return func(c *Coordinator) {
		c.opener = opener
	}
}

// WithThreshold sets the edit distance accepted in approximate mode
func WithThreshold(threshold int) CoordinatorOption {
	return func(c *Coordinator) {
		c.threshold = threshold
	}
}

// WithTransport replaces the in-process transport factory
func WithTransport(factory func(workers int) Transport) CoordinatorOption {
	return func(c *Coordinator) {
		c.transport = factory
	}
}

// NewCoordinator validates the settings and creates a coordinator for them
func NewCoordinator(settings config.RunSettings, opts ...CoordinatorOption) (*Coordinator, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, searcherrors.NewValidationError("settings", problems[0])
	}

	c := &Coordinator{
		settings:  settings,
		threshold: matcher.DefaultThreshold,
		logger:    log.Default(),
		transport: func(workers int) Transport {
			return NewLocalTransport(workers)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Settings returns the settings the coordinator runs with, defaults applied
func (c *Coordinator) Settings() config.RunSettings {
	return c.settings
}

// Run searches docs and returns the merged, name-ordered result table.
func (c *Coordinator) Run(ctx context.Context, docs []model.Document) (*RunResult, error) {
	start := time.Now()

	broadcast := Broadcast{
		RunID:     uuid.New().String(),
		Pattern:   c.settings.SearchPattern(),
		Documents: docs,
		Workers:   c.settings.Workers,
		Tasks:     c.settings.TasksPerWorker,
		Threshold: c.threshold,
	}

	c.logger.Printf("Run %s: searching %d documents for %q (%s) with %d workers x %d tasks",
		broadcast.RunID, len(docs), broadcast.Pattern.Text, broadcast.Pattern.Mode, broadcast.Workers, broadcast.Tasks)

	var (
		table         *aggregate.ResultTable
		workerElapsed []time.Duration
		err           error
	)
	if broadcast.Workers == 1 {
		table, workerElapsed, err = c.runSingle(ctx, broadcast)
	} else {
		table, workerElapsed, err = c.runDistributed(ctx, broadcast)
	}
	if err != nil {
		c.logger.Printf("Run %s failed: %v", broadcast.RunID, err)
		return nil, err
	}

	result := &RunResult{
		RunID:         broadcast.RunID,
		Pattern:       broadcast.Pattern,
		Workers:       broadcast.Workers,
		Tasks:         broadcast.Tasks,
		Table:         table,
		AnyFound:      table.AnyFound(),
		Elapsed:       time.Since(start),
		WorkerElapsed: workerElapsed,
	}
	c.logger.Printf("Run %s completed in %v: %d of %d documents matched, %d unreadable",
		result.RunID, result.Elapsed, table.FoundCount(), table.Len(), table.UnreadableCount())
	return result, nil
}

// runSingle processes everything in the coordinator's own worker; there is nothing to gather.
func (c *Coordinator) runSingle(ctx context.Context, broadcast Broadcast) (*aggregate.ResultTable, []time.Duration, error) {
	worker := c.newWorker(0)
	report, err := worker.Process(ctx, broadcast)
	if err != nil {
		return nil, nil, err
	}

	builder := aggregate.NewBuilder()
	if err := builder.Merge(report.Entries); err != nil {
		return nil, nil, err
	}
	table, err := builder.Build(aggregate.AllIndices(len(broadcast.Documents)))
	if err != nil {
		return nil, nil, err
	}
	return table, []time.Duration{report.Elapsed}, nil
}

func (c *Coordinator) runDistributed(ctx context.Context, broadcast Broadcast) (*aggregate.ResultTable, []time.Duration, error) {
	transport := c.transport(broadcast.Workers)
	if transport.Workers() != broadcast.Workers {
		return nil, nil, fmt.Errorf("transport connects %d workers, run needs %d", transport.Workers(), broadcast.Workers)
	}

	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	for rank := 0; rank < broadcast.Workers; rank++ {
		wg.Add(1)
		go func(worker *Worker) {
			defer wg.Done()
			if err := worker.Serve(ctx, transport); err != nil && ctx.Err() == nil {
				c.logger.Printf("Run %s: %v", broadcast.RunID, err)
			}
		}(c.newWorker(rank))
	}
	defer func() {
		// Workers still running after a failed gather are stopped before returning
		cancel()
		wg.Wait()
	}()

	frame, err := Encode(broadcast)
	if err != nil {
		return nil, nil, err
	}
	if err := transport.Broadcast(ctx, frame); err != nil {
		return nil, nil, err
	}

	return c.gather(ctx, transport, broadcast)
}

// gather waits for one report per worker, merging each as it arrives.
func (c *Coordinator) gather(ctx context.Context, transport Transport, broadcast Broadcast) (*aggregate.ResultTable, []time.Duration, error) {
	gatherCtx := ctx
	if c.settings.GatherTimeout > 0 {
		var cancel context.CancelFunc
		gatherCtx, cancel = context.WithTimeout(ctx, c.settings.GatherTimeout)
		defer cancel()
	}

	global := aggregate.NewBuilder()
	partials := make([]bool, 0, broadcast.Workers)
	elapsed := make([]time.Duration, broadcast.Workers)
	reported := make(map[int]bool, broadcast.Workers)

	for len(reported) < broadcast.Workers {
		frame, err := transport.Gather(gatherCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, nil, &searcherrors.GatherTimeoutError{Pending: pendingRanks(broadcast.Workers, reported)}
			}
			return nil, nil, fmt.Errorf("gather interrupted: %w", err)
		}

		var report Report
		if err := Decode(frame, &report); err != nil {
			return nil, nil, err
		}
		if report.Rank < 0 || report.Rank >= broadcast.Workers || reported[report.Rank] {
			return nil, nil, fmt.Errorf("unexpected report from rank %d", report.Rank)
		}
		if report.Err != "" {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("gather interrupted: %w", err)
			}
			return nil, nil, fmt.Errorf("worker %d failed: %s", report.Rank, report.Err)
		}
		if report.RunID != broadcast.RunID {
			return nil, nil, fmt.Errorf("worker %d reported for run %s, expected %s", report.Rank, report.RunID, broadcast.RunID)
		}

		reported[report.Rank] = true
		elapsed[report.Rank] = report.Elapsed
		partials = append(partials, report.AnyFound)
		if err := global.Merge(report.Entries); err != nil {
			return nil, nil, err
		}
	}

	table, err := global.Build(aggregate.AllIndices(len(broadcast.Documents)))
	if err != nil {
		return nil, nil, err
	}

	// The workers' own reductions must agree with the merged table
	reduced := aggregate.Reduce(partials...)
	if reduced != table.AnyFound() {
		return nil, nil, &searcherrors.ReductionMismatchError{Reduced: reduced, Gathered: table.AnyFound()}
	}
	return table, elapsed, nil
}

func (c *Coordinator) newWorker(rank int) *Worker {
	return &Worker{Rank: rank, Opener: c.opener, Logger: c.logger}
}

func pendingRanks(workers int, reported map[int]bool) []int {
	var pending []int
	for rank := 0; rank < workers; rank++ {
		if !reported[rank] {
			pending = append(pending, rank)
		}
	}
	return pending
}
