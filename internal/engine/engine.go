// Package engine wires discovery, the concurrent runner, the benchmark harness, background jobs
// and the history store into the service behind the HTTP API.
package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/discovery"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/internal/jobs"
	"github.com/gcbaptista/go-doc-search/internal/runner"
	"github.com/gcbaptista/go-doc-search/model"
)

const (
	dataDirPerm    = 0o750
	historyFile    = "history.db"
	convertedDir   = "converted"
	defaultMaxJobs = 2
)

// Engine runs searches and benchmarks as background jobs and records them in the history store.
// It implements services.SearchService.
type Engine struct {
	dataDir    string
	jobManager *jobs.Manager
	runner     *runner.Runner
	preparer   *discovery.Preparer
	history    *history.Store
	logger     *log.Logger
}

// NewEngine opens the history in settings.DataDir and starts the job manager.
func NewEngine(settings config.ServerSettings) (*Engine, error) {
	settings.ApplyDefaults()
	if err := os.MkdirAll(settings.DataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", settings.DataDir, err)
	}

	store, err := history.Open(filepath.Join(settings.DataDir, historyFile))
	if err != nil {
		return nil, err
	}

	maxJobs := settings.MaxJobs
	if maxJobs < 1 {
		maxJobs = defaultMaxJobs
	}

	logger := log.Default()
	e := &Engine{
		dataDir:    settings.DataDir,
		jobManager: jobs.NewManager(maxJobs),
		runner:     runner.NewRunner(runner.WithLogger(logger)),
		preparer:   discovery.NewPreparer(discovery.WithLogger(logger)),
		history:    store,
		logger:     logger,
	}
	e.jobManager.Start()
	log.Printf("Engine ready: data directory %s, %d concurrent jobs", settings.DataDir, maxJobs)
	return e, nil
}

// Close stops running jobs and closes the history store
func (e *Engine) Close() error {
	e.jobManager.Stop()
	return e.history.Close()
}

// GetJob returns a job by ID
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs lists jobs, optionally by type and status
func (e *Engine) ListJobs(jobType model.JobType, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(jobType, status)
}

// GetJobMetrics returns job metrics
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}

// GetCurrentWorkload returns the number of pending and running jobs
func (e *Engine) GetCurrentWorkload() int64 {
	return e.jobManager.GetCurrentWorkload()
}

// GetBenchmark returns a stored benchmark report
func (e *Engine) GetBenchmark(runID string) (*bench.Report, error) {
	return e.history.GetBenchmark(runID)
}

// ListBenchmarks returns stored benchmark reports, newest first
func (e *Engine) ListBenchmarks() ([]*bench.Report, error) {
	return e.history.ListBenchmarks()
}

// ListSearches returns stored search summaries, newest first
func (e *Engine) ListSearches() ([]history.SearchRecord, error) {
	return e.history.ListSearches()
}
