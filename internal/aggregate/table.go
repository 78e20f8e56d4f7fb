// Package aggregate merges per-document outcomes into the canonical, name-ordered result table
// and computes the global "any match" reduction.
package aggregate

import (
	"sort"

	"github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

// Entry is one row of a result table
type Entry struct {
	Index   int                `json:"index"` // position in the run's document list, the join key
	Name    string             `json:"name"`
	Path    string             `json:"path"`
	Outcome model.MatchOutcome `json:"outcome"`
}

// Match is the (name, found) pair handed to reporting
type Match struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// ResultTable is the deduplicated result of a run, ordered by normalized document name.
// It is read-only once built.
type ResultTable struct {
	entries []Entry
	byName  map[string]int
}

// NewResultTable orders entries by name.
// Names must be unique; a repeated name is reported as an invalid input.
func NewResultTable(entries []Entry) (*ResultTable, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	byName := make(map[string]int, len(sorted))
	for i, e := range sorted {
		if _, dup := byName[e.Name]; dup {
			return nil, errors.NewValidationError("name", "document name '"+e.Name+"' appears more than once")
		}
		byName[e.Name] = i
	}

	return &ResultTable{entries: sorted, byName: byName}, nil
}

// Len returns the number of documents in the table
func (t *ResultTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in name order
func (t *ResultTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the document names in order
func (t *ResultTable) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry for a document name
func (t *ResultTable) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Matches returns the ordered (name, found) pairs
func (t *ResultTable) Matches() []Match {
	matches := make([]Match, len(t.entries))
	for i, e := range t.entries {
		matches[i] = Match{Name: e.Name, Found: e.Outcome.Found()}
	}
	return matches
}

// FoundNames returns the names of the matching documents in order
func (t *ResultTable) FoundNames() []string {
	var names []string
	for _, e := range t.entries {
		if e.Outcome.Found() {
			names = append(names, e.Name)
		}
	}
	return names
}

// Unreadable returns the entries whose documents could not be read
func (t *ResultTable) Unreadable() []Entry {
	var out []Entry
	for _, e := range t.entries {
		if e.Outcome.Unreadable() {
			out = append(out, e)
		}
	}
	return out
}

// FoundCount returns how many documents matched
func (t *ResultTable) FoundCount() int {
	count := 0
	for _, e := range t.entries {
		if e.Outcome.Found() {
			count++
		}
	}
	return count
}

// UnreadableCount returns how many documents could not be read
func (t *ResultTable) UnreadableCount() int {
	count := 0
	for _, e := range t.entries {
		if e.Outcome.Unreadable() {
			count++
		}
	}
	return count
}

// AnyFound is the global reduction: the logical OR of found over every entry.
func (t *ResultTable) AnyFound() bool {
	for _, e := range t.entries {
		if e.Outcome.Found() {
			return true
		}
	}
	return false
}

// Reduce combines partial reductions, e.g. one per worker.
func Reduce(partials ...bool) bool {
	for _, p := range partials {
		if p {
			return true
		}
	}
	return false
}
