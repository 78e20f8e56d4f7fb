package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrDocumentUnreadable is returned when a document cannot be opened or scanned
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrPartitionMismatch is returned when a document index is produced by two workers or by none
	ErrPartitionMismatch = errors.New("partition mismatch")

	// ErrComparisonSchemaMismatch is returned when two result tables do not cover the same documents
	ErrComparisonSchemaMismatch = errors.New("comparison schema mismatch")

	// ErrReductionMismatch is returned when per-worker reductions disagree with the gathered table
	ErrReductionMismatch = errors.New("reduction mismatch")

	// ErrGatherTimeout is returned when workers fail to report before the gather deadline
	ErrGatherTimeout = errors.New("gather timed out")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrRunNotFound is returned when a stored run is not found
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// DocumentUnreadableError represents a document that could not be read, with the underlying cause
type DocumentUnreadableError struct {
	Path string
	Err  error
}

func (e *DocumentUnreadableError) Error() string {
	return fmt.Sprintf("document '%s' unreadable: %v", e.Path, e.Err)
}

func (e *DocumentUnreadableError) Is(target error) bool {
	return target == ErrDocumentUnreadable
}

func (e *DocumentUnreadableError) Unwrap() error {
	return e.Err
}

// NewDocumentUnreadableError creates a new DocumentUnreadableError
func NewDocumentUnreadableError(path string, err error) *DocumentUnreadableError {
	return &DocumentUnreadableError{Path: path, Err: err}
}

// PartitionMismatchError describes a broken distribution: duplicated or missing document indices
type PartitionMismatchError struct {
	Duplicated []int
	Missing    []int
	Unexpected []int
}

func (e *PartitionMismatchError) Error() string {
	var parts []string
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("indices produced more than once: %v", e.Duplicated))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("indices produced by no worker: %v", e.Missing))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("indices outside the document set: %v", e.Unexpected))
	}
	if len(parts) == 0 {
		return "partition mismatch"
	}
	return "partition mismatch: " + strings.Join(parts, "; ")
}

func (e *PartitionMismatchError) Is(target error) bool {
	return target == ErrPartitionMismatch
}

// NewDuplicateIndexError creates a PartitionMismatchError for an index written twice
func NewDuplicateIndexError(index int) *PartitionMismatchError {
	return &PartitionMismatchError{Duplicated: []int{index}}
}

// ComparisonSchemaMismatchError lists the document names present in only one of two tables
type ComparisonSchemaMismatchError struct {
	MissingInBaseline  []string
	MissingInCandidate []string
}

func (e *ComparisonSchemaMismatchError) Error() string {
	return fmt.Sprintf("result tables cover different documents: %d missing in baseline %v, %d missing in candidate %v",
		len(e.MissingInBaseline), e.MissingInBaseline, len(e.MissingInCandidate), e.MissingInCandidate)
}

func (e *ComparisonSchemaMismatchError) Is(target error) bool {
	return target == ErrComparisonSchemaMismatch
}

// ReductionMismatchError reports a global reduction that disagrees with the gathered table
type ReductionMismatchError struct {
	Reduced  bool
	Gathered bool
}

func (e *ReductionMismatchError) Error() string {
	return fmt.Sprintf("per-worker reduction is %t but gathered table reduces to %t", e.Reduced, e.Gathered)
}

func (e *ReductionMismatchError) Is(target error) bool {
	return target == ErrReductionMismatch
}

// GatherTimeoutError lists the worker ranks that did not report in time
type GatherTimeoutError struct {
	Pending []int
}

func (e *GatherTimeoutError) Error() string {
	return fmt.Sprintf("workers %v did not report before the gather deadline", e.Pending)
}

func (e *GatherTimeoutError) Is(target error) bool {
	return target == ErrGatherTimeout
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// RunNotFoundError represents a missing history entry
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run with ID '%s' not found", e.RunID)
}

func (e *RunNotFoundError) Is(target error) bool {
	return target == ErrRunNotFound
}

// NewRunNotFoundError creates a new RunNotFoundError
func NewRunNotFoundError(runID string) *RunNotFoundError {
	return &RunNotFoundError{RunID: runID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
