package aggregate

import (
	"sort"

	"github.com/gcbaptista/go-doc-search/internal/distribute"
	"github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

// Builder accumulates entries keyed by document index with insert-once semantics.
// It has a single owner and is not safe for concurrent use: concurrent producers
// hand their results to the owner over a channel (see Collect).
type Builder struct {
	entries map[int]Entry
	anyHit  bool
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{entries: make(map[int]Entry)}
}

// Insert adds an entry. Writing the same index twice is a distribution bug.
func (b *Builder) Insert(entry Entry) error {
	if _, exists := b.entries[entry.Index]; exists {
		return errors.NewDuplicateIndexError(entry.Index)
	}
	b.entries[entry.Index] = entry
	if entry.Outcome.Found() {
		b.anyHit = true
	}
	return nil
}

// Merge inserts every entry of another partial table, e.g. a gathered worker report.
func (b *Builder) Merge(entries []Entry) error {
	var duplicated []int
	for _, e := range entries {
		if err := b.Insert(e); err != nil {
			duplicated = append(duplicated, e.Index)
		}
	}
	if len(duplicated) > 0 {
		return &errors.PartitionMismatchError{Duplicated: duplicated}
	}
	return nil
}

// Len returns the number of entries inserted so far
func (b *Builder) Len() int {
	return len(b.entries)
}

// AnyFound is the reduction over the entries inserted so far
func (b *Builder) AnyFound() bool {
	return b.anyHit
}

// Entries returns the inserted entries ordered by index
func (b *Builder) Entries() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

// Build checks that exactly the expected indices were inserted and returns the name-ordered table.
func (b *Builder) Build(expected []int) (*ResultTable, error) {
	want := make(map[int]struct{}, len(expected))
	mismatch := &errors.PartitionMismatchError{}

	for _, i := range expected {
		want[i] = struct{}{}
		if _, ok := b.entries[i]; !ok {
			mismatch.Missing = append(mismatch.Missing, i)
		}
	}
	for i := range b.entries {
		if _, ok := want[i]; !ok {
			mismatch.Unexpected = append(mismatch.Unexpected, i)
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Unexpected) > 0 {
		sort.Ints(mismatch.Missing)
		sort.Ints(mismatch.Unexpected)
		return nil, mismatch
	}

	return NewResultTable(b.Entries())
}

// Collect drains a task pool's results into a new builder. It is the only writer of
// that builder, so tasks never contend on the table. Every result is drained even
// after a failure so the pool's tasks can finish.
func Collect(results <-chan distribute.Result, docs []model.Document, onResult func(distribute.Result)) (*Builder, error) {
	builder := NewBuilder()
	var firstErr error

	for r := range results {
		if onResult != nil {
			onResult(r)
		}
		if firstErr != nil {
			continue
		}
		if r.Index < 0 || r.Index >= len(docs) {
			firstErr = &errors.PartitionMismatchError{Unexpected: []int{r.Index}}
			continue
		}
		doc := docs[r.Index]
		firstErr = builder.Insert(Entry{
			Index:   r.Index,
			Name:    doc.Name,
			Path:    doc.Path,
			Outcome: r.Outcome,
		})
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return builder, nil
}

// AllIndices returns 0..n-1
func AllIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
