package services

import (
	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/internal/jobs"
	"github.com/gcbaptista/go-doc-search/model"
)

// DocumentSource names the documents of a run: either a directory to discover or explicit text paths.
type DocumentSource struct {
	Directory string   `json:"directory,omitempty"`
	Paths     []string `json:"paths,omitempty"`
}

// SearchRequest is a search submitted for background execution
type SearchRequest struct {
	config.RunSettings
	DocumentSource
}

// BenchmarkRequest runs the same search under every strategy
type BenchmarkRequest struct {
	Pattern        string     `json:"pattern"`
	Mode           model.Mode `json:"mode"`
	Workers        int        `json:"workers"`          // workers of the distributed and hybrid strategies
	TasksPerWorker int        `json:"tasks_per_worker"` // tasks of the threaded and hybrid strategies
	DocumentSource
}

// Settings returns the run settings the benchmark's parallel strategies share
func (r BenchmarkRequest) Settings() config.RunSettings {
	return config.RunSettings{
		Pattern:        r.Pattern,
		Mode:           r.Mode,
		Workers:        r.Workers,
		TasksPerWorker: r.TasksPerWorker,
	}
}

// RunSubmitter starts searches and benchmarks in the background and returns their job IDs
type RunSubmitter interface {
	SubmitSearch(req SearchRequest) (string, error)
	SubmitBenchmark(req BenchmarkRequest) (string, error)
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(jobType model.JobType, status *model.JobStatus) []*model.Job
	GetJobMetrics() jobs.JobMetricsData
	GetCurrentWorkload() int64
}

// HistoryReader gives read access to finished runs
type HistoryReader interface {
	GetBenchmark(runID string) (*bench.Report, error)
	ListBenchmarks() ([]*bench.Report, error)
	ListSearches() ([]history.SearchRecord, error)
}

// SearchService is everything the HTTP layer needs
type SearchService interface {
	RunSubmitter
	JobManager
	HistoryReader
}
