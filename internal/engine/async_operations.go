package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/internal/runner"
	"github.com/gcbaptista/go-doc-search/model"
	"github.com/gcbaptista/go-doc-search/services"
)

// SubmitSearch validates the request and starts the search as a background job.
func (e *Engine) SubmitSearch(req services.SearchRequest) (string, error) {
	settings := req.RunSettings
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return "", errors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if err := validateSource(req.DocumentSource); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeSearch, map[string]string{
		"pattern": settings.Pattern,
		"mode":    string(settings.Mode),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) (interface{}, error) {
		docs, err := e.resolveDocuments(ctx, jobID, req.DocumentSource)
		if err != nil {
			return nil, err
		}
		e.jobManager.UpdateJobProgress(jobID, 0, len(docs), "Searching")

		strategy := runner.Strategy{Name: "search", Workers: settings.Workers, Tasks: settings.TasksPerWorker}
		result, err := e.runner.Run(ctx, docs, settings.SearchPattern(), strategy)
		if err != nil {
			return nil, err
		}
		e.jobManager.UpdateJobProgress(jobID, len(docs), len(docs), "Completed")

		record := history.NewSearchRecord(result)
		if err := e.history.SaveSearch(record); err != nil {
			// The search itself succeeded
			e.logger.Printf("Warning: failed to record search %s: %v", record.RunID, err)
		}
		return record, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start search job: %w", err)
	}
	return jobID, nil
}

// SubmitBenchmark validates the request and starts the benchmark as a background job.
func (e *Engine) SubmitBenchmark(req services.BenchmarkRequest) (string, error) {
	settings := req.Settings()
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return "", errors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if err := validateSource(req.DocumentSource); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeBenchmark, map[string]string{
		"pattern": settings.Pattern,
		"mode":    string(settings.Mode),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) (interface{}, error) {
		docs, err := e.resolveDocuments(ctx, jobID, req.DocumentSource)
		if err != nil {
			return nil, err
		}

		harness := bench.NewHarness(e.runner, e.logger)
		harness.Progress = func(done, total int, strategy runner.Strategy) {
			e.jobManager.UpdateJobProgress(jobID, done, total, "Finished "+strategy.Name)
		}
		report, err := harness.Run(ctx, docs, settings.SearchPattern(), settings.Workers, settings.TasksPerWorker)
		if err != nil {
			return nil, err
		}

		if err := e.history.SaveBenchmark(report); err != nil {
			e.logger.Printf("Warning: failed to record benchmark %s: %v", report.RunID, err)
		}
		return report, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start benchmark job: %w", err)
	}
	return jobID, nil
}

func validateSource(source services.DocumentSource) error {
	switch {
	case source.Directory != "" && len(source.Paths) > 0:
		return errors.NewValidationError("directory", "provide either a directory or paths, not both")
	case source.Directory == "" && len(source.Paths) == 0:
		return errors.NewValidationError("directory", "a directory or a list of paths is required")
	}
	return nil
}

// resolveDocuments discovers and converts a directory, or takes explicit paths as they are.
// Converted files of a job go to their own directory so concurrent jobs never overwrite each other.
func (e *Engine) resolveDocuments(ctx context.Context, jobID string, source services.DocumentSource) ([]model.Document, error) {
	paths := source.Paths
	if source.Directory != "" {
		e.jobManager.UpdateJobProgress(jobID, 0, 0, "Preparing documents")
		workDir := filepath.Join(e.dataDir, convertedDir, jobID)
		prepared, err := e.preparer.Prepare(ctx, source.Directory, workDir)
		if err != nil {
			return nil, err
		}
		paths = prepared
	}
	return model.NewDocuments(paths)
}
