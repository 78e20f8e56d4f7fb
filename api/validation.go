// Package api provides validation utilities for API request handling.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/model"
	"github.com/gcbaptista/go-doc-search/services"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateRunSettings applies defaults to the settings and reports every problem left
func ValidateRunSettings(settings *config.RunSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	settings.ApplyDefaults()
	for _, problem := range settings.Validate() {
		result.AddError("settings", problem)
	}

	return result
}

// ValidateDocumentSource checks that exactly one of directory and paths is given
func ValidateDocumentSource(source services.DocumentSource) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch {
	case source.Directory != "" && len(source.Paths) > 0:
		result.AddError("directory", "Provide either a directory or paths, not both")
	case source.Directory == "" && len(source.Paths) == 0:
		result.AddError("directory", "A directory or a list of paths is required")
	}

	for _, path := range source.Paths {
		if strings.TrimSpace(path) == "" {
			result.AddError("paths", "Paths cannot be empty or whitespace-only")
			break
		}
	}

	return result
}

// ValidateSearchRequest validates a search submission
func ValidateSearchRequest(req *services.SearchRequest) *ValidationResult {
	result := ValidateRunSettings(&req.RunSettings)
	result.Errors = append(result.Errors, ValidateDocumentSource(req.DocumentSource).Errors...)
	result.Valid = !result.HasErrors()
	return result
}

// ValidateBenchmarkRequest validates a benchmark submission
func ValidateBenchmarkRequest(req *services.BenchmarkRequest) *ValidationResult {
	settings := req.Settings()
	result := ValidateRunSettings(&settings)
	result.Errors = append(result.Errors, ValidateDocumentSource(req.DocumentSource).Errors...)
	result.Valid = !result.HasErrors()
	return result
}

// ValidateJobFilter parses the type and status query parameters of a job listing
func ValidateJobFilter(jobType, status string) (model.JobType, *model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	switch model.JobType(jobType) {
	case "", model.JobTypeSearch, model.JobTypeBenchmark:
	default:
		result.AddError("type", "Invalid job type '"+jobType+"' (must be 'search' or 'benchmark')")
	}

	var statusFilter *model.JobStatus
	if status != "" {
		s := model.JobStatus(status)
		switch s {
		case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
			model.JobStatusFailed, model.JobStatusCancelled:
			statusFilter = &s
		default:
			result.AddError("status", "Invalid job status '"+status+"'")
		}
	}

	return model.JobType(jobType), statusFilter, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
