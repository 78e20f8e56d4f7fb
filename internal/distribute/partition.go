// Package distribute assigns documents to workers and, inside a worker, to concurrently scheduled tasks.
package distribute

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-doc-search/internal/errors"
)

// Assign returns the document indices owned by worker rank: { i : i mod workers == rank }, ascending.
func Assign(n, workers, rank int) ([]int, error) {
	if err := validate(n, workers); err != nil {
		return nil, err
	}
	if rank < 0 || rank >= workers {
		return nil, errors.NewValidationError("rank", fmt.Sprintf("rank %d is outside [0, %d)", rank, workers))
	}

	indices := make([]int, 0, n/workers+1)
	for i := rank; i < n; i += workers {
		indices = append(indices, i)
	}
	return indices, nil
}

// Partition returns the assignment of every worker, indexed by rank.
func Partition(n, workers int) ([][]int, error) {
	if err := validate(n, workers); err != nil {
		return nil, err
	}

	assignments := make([][]int, workers)
	for rank := range assignments {
		indices, err := Assign(n, workers, rank)
		if err != nil {
			return nil, err
		}
		assignments[rank] = indices
	}
	return assignments, nil
}

// VerifyPartition checks that the assignments cover 0..n-1 exactly once.
func VerifyPartition(n int, assignments [][]int) error {
	seen := make([]int, n)
	var unexpected []int

	for _, indices := range assignments {
		for _, i := range indices {
			if i < 0 || i >= n {
				unexpected = append(unexpected, i)
				continue
			}
			seen[i]++
		}
	}

	mismatch := &errors.PartitionMismatchError{Unexpected: unexpected}
	for i, count := range seen {
		switch {
		case count == 0:
			mismatch.Missing = append(mismatch.Missing, i)
		case count > 1:
			mismatch.Duplicated = append(mismatch.Duplicated, i)
		}
	}

	if len(mismatch.Missing) == 0 && len(mismatch.Duplicated) == 0 && len(mismatch.Unexpected) == 0 {
		return nil
	}
	sort.Ints(mismatch.Unexpected)
	return mismatch
}

func validate(n, workers int) error {
	if n < 0 {
		return errors.NewValidationError("documents", "document count cannot be negative")
	}
	if workers < 1 {
		return errors.NewValidationError("workers", "worker count must be at least 1")
	}
	return nil
}
