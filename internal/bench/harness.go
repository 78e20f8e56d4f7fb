// Package bench times the same search under every concurrency strategy
// and checks each strategy's results against the sequential baseline.
package bench

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-doc-search/internal/accuracy"
	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	"github.com/gcbaptista/go-doc-search/internal/runner"
	"github.com/gcbaptista/go-doc-search/model"
)

// StrategyResult is the measurement of one strategy
type StrategyResult struct {
	Name     string           `json:"name"`
	Workers  int              `json:"workers"`
	Tasks    int              `json:"tasks_per_worker"`
	Elapsed  time.Duration    `json:"elapsed"`
	Speedup  float64          `json:"speedup"` // baseline elapsed / elapsed
	Found    int              `json:"found"`
	AnyFound bool             `json:"any_found"`
	Accuracy *accuracy.Report `json:"accuracy"`
}

// Report is the outcome of a benchmark run
type Report struct {
	RunID      string            `json:"run_id"`
	Pattern    string            `json:"pattern"`
	Mode       model.Mode        `json:"mode"`
	Documents  int               `json:"documents"`
	Matches    []aggregate.Match `json:"matches"` // baseline (name, found) pairs
	Strategies []StrategyResult  `json:"strategies"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Consistent reports whether every strategy agreed with the baseline on every document
func (r *Report) Consistent() bool {
	for _, s := range r.Strategies {
		if s.Accuracy == nil || !s.Accuracy.Consistent() {
			return false
		}
	}
	return true
}

// Harness runs benchmarks
type Harness struct {
	runner *runner.Runner
	logger *log.Logger

	// Progress, when set, is called after each strategy finishes
	Progress func(done, total int, strategy runner.Strategy)
}

// NewHarness creates a harness on top of a runner
func NewHarness(r *runner.Runner, logger *log.Logger) *Harness {
	if logger == nil {
		logger = log.Default()
	}
	return &Harness{runner: r, logger: logger}
}

// Run searches docs once per strategy, sequential first, and compares every result with the sequential one.
func (h *Harness) Run(ctx context.Context, docs []model.Document, pattern model.Pattern, workers, tasks int) (*Report, error) {
	return h.RunStrategies(ctx, docs, pattern, runner.All(workers, tasks))
}

// RunStrategies is Run with an explicit strategy list; the first strategy is the baseline.
func (h *Harness) RunStrategies(ctx context.Context, docs []model.Document, pattern model.Pattern, strategies []runner.Strategy) (*Report, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy is required")
	}

	report := &Report{
		RunID:     uuid.New().String(),
		Pattern:   pattern.Text,
		Mode:      pattern.Mode,
		Documents: len(docs),
		CreatedAt: time.Now(),
	}

	var baseline *aggregate.ResultTable
	var baselineElapsed time.Duration

	for i, strategy := range strategies {
		result, err := h.runner.Run(ctx, docs, pattern, strategy)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", report.RunID, err)
		}

		if baseline == nil {
			baseline = result.Table
			baselineElapsed = result.Elapsed
			report.Matches = result.Table.Matches()
		}

		comparison, err := accuracy.Compare(baseline, result.Table)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: comparing %s: %w", report.RunID, strategy.Name, err)
		}

		speedup := 0.0
		if result.Elapsed > 0 {
			speedup = float64(baselineElapsed) / float64(result.Elapsed)
		}

		report.Strategies = append(report.Strategies, StrategyResult{
			Name:     strategy.Name,
			Workers:  strategy.Workers,
			Tasks:    strategy.Tasks,
			Elapsed:  result.Elapsed,
			Speedup:  speedup,
			Found:    result.Table.FoundCount(),
			AnyFound: result.AnyFound,
			Accuracy: comparison,
		})
		h.logger.Printf("Benchmark %s: %s took %v, %s", report.RunID, strategy, result.Elapsed, comparison)
		if h.Progress != nil {
			h.Progress(i+1, len(strategies), strategy)
		}
	}

	return report, nil
}
