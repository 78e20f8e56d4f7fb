// Package config provides configuration structures for document search runs
// and for the HTTP service that schedules them.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/gcbaptista/go-doc-search/model"
)

// RunSettings contains everything a single search run needs besides the document list.
//
// Workers and TasksPerWorker are independent knobs:
// Workers=1 degenerates to a single isolated worker and
// TasksPerWorker=1 to one task per worker.
type RunSettings struct {
	Pattern        string        `json:"pattern"`                  // Search string (single line)
	Mode           model.Mode    `json:"mode"`                     // "exact" or "approximate"
	Workers        int           `json:"workers"`                  // Number of isolated workers (>= 1)
	TasksPerWorker int           `json:"tasks_per_worker"`         // Concurrent tasks inside each worker (>= 1)
	GatherTimeout  time.Duration `json:"gather_timeout,omitempty"` // Upper bound on waiting for worker reports; 0 waits forever
}

// SearchPattern returns the immutable pattern of the run
func (s *RunSettings) SearchPattern() model.Pattern {
	return model.Pattern{Text: s.Pattern, Mode: s.Mode}
}

// ApplyDefaults applies default values to the run settings
func (s *RunSettings) ApplyDefaults() {
	if s.Mode == "" {
		s.Mode = model.ModeExact
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	if s.TasksPerWorker == 0 {
		s.TasksPerWorker = runtime.NumCPU()
	}
}

// Validate checks the settings and returns every problem found.
// An empty result means the settings are usable.
func (s *RunSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.Pattern) == "" {
		problems = append(problems, "Pattern cannot be empty or whitespace-only")
	}
	if strings.ContainsAny(s.Pattern, "\r\n") {
		// Documents are scanned line by line, a multi-line pattern could never match
		problems = append(problems, "Pattern cannot span multiple lines")
	}
	if !s.Mode.Valid() {
		problems = append(problems, "Invalid mode '"+string(s.Mode)+"' (must be 'exact' or 'approximate')")
	}
	if s.Workers < 1 {
		problems = append(problems, "Workers must be at least 1")
	}
	if s.TasksPerWorker < 1 {
		problems = append(problems, "Tasks per worker must be at least 1")
	}
	if s.GatherTimeout < 0 {
		problems = append(problems, "Gather timeout cannot be negative")
	}

	return problems
}

// ServerSettings configures the HTTP service
type ServerSettings struct {
	Port              string  `json:"port"`
	DataDir           string  `json:"data_dir"`            // Holds the history database and converted documents
	RequestsPerSecond float64 `json:"requests_per_second"` // Token bucket refill rate; 0 disables rate limiting
	Burst             int     `json:"burst"`
	MaxJobs           int     `json:"max_jobs"` // Concurrent background jobs
}

// ApplyDefaults applies default values to the server settings
func (s *ServerSettings) ApplyDefaults() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.DataDir == "" {
		s.DataDir = "./docsearch_data"
	}
	if s.RequestsPerSecond > 0 && s.Burst == 0 {
		s.Burst = int(s.RequestsPerSecond) + 1
	}
	if s.MaxJobs == 0 {
		s.MaxJobs = 2
	}
}
