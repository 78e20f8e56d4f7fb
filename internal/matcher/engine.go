// Package matcher implements the matching engine: an exact case-insensitive automaton
// and a bounded edit-distance token matcher behind one uniform per-document contract.
package matcher

import (
	"fmt"
	"io"
	"os"

	"github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

// Opener gives access to a document's text. Discovery owns file conversion;
// the engine only ever reads plain text through this interface.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(path string) (io.ReadCloser, error)

// Open calls f(path)
func (f OpenerFunc) Open(path string) (io.ReadCloser, error) {
	return f(path)
}

// FileOpener opens documents from the local filesystem
var FileOpener Opener = OpenerFunc(func(path string) (io.ReadCloser, error) {
	return os.Open(path) // #nosec G304 -- paths come from document discovery
})

// Engine dispatches a document to the exact or the approximate matcher according to the pattern's mode.
// An Engine is immutable and safe for concurrent use by many tasks; each call opens its own reader.
type Engine struct {
	pattern   model.Pattern
	threshold int
	opener    Opener
	exact     *ExactMatcher
	approx    *ApproximateMatcher
}

// Option configures an Engine
type Option func(*Engine)

// WithOpener replaces the filesystem opener
func WithOpener(opener Opener) Option {
	return func(e *Engine) {
		e.opener = opener
	}
}

// WithThreshold overrides DefaultThreshold for approximate mode
func WithThreshold(threshold int) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// NewEngine builds the matcher for pattern once so every document of the run reuses it.
func NewEngine(pattern model.Pattern, opts ...Option) (*Engine, error) {
	e := &Engine{
		pattern:   pattern,
		threshold: DefaultThreshold,
		opener:    FileOpener,
	}
	for _, opt := range opts {
		opt(e)
	}

	switch pattern.Mode {
	case model.ModeExact:
		e.exact = NewExactMatcher(pattern.Text)
	case model.ModeApproximate:
		e.approx = NewApproximateMatcher(pattern.Text, e.threshold)
	default:
		return nil, errors.NewValidationError("mode", fmt.Sprintf("unknown mode '%s'", pattern.Mode))
	}
	return e, nil
}

// Pattern returns the pattern the engine was built for
func (e *Engine) Pattern() model.Pattern {
	return e.pattern
}

// Search opens the document and matches it.
// A document that cannot be opened or read yields StatusUnreadable rather than a silent "not found".
func (e *Engine) Search(doc model.Document) model.MatchOutcome {
	return e.SearchPath(doc.Path)
}

// SearchPath is Search for a bare path
func (e *Engine) SearchPath(path string) model.MatchOutcome {
	rc, err := e.opener.Open(path)
	if err != nil {
		return model.UnreadableOutcome(errors.NewDocumentUnreadableError(path, err))
	}
	defer func() {
		_ = rc.Close() // read-only handle
	}()

	outcome, err := e.match(rc)
	if err != nil {
		return model.UnreadableOutcome(errors.NewDocumentUnreadableError(path, err))
	}
	return outcome
}

// Match runs the configured matcher over already opened text.
func (e *Engine) Match(r io.Reader) (model.MatchOutcome, error) {
	return e.match(r)
}

func (e *Engine) match(r io.Reader) (model.MatchOutcome, error) {
	if e.exact != nil {
		found, err := e.exact.MatchReader(r)
		if found {
			return model.FoundOutcome(0), nil
		}
		if err != nil {
			return model.MatchOutcome{}, err
		}
		return model.NotFoundOutcome(), nil
	}

	found, distance, err := e.approx.MatchReader(r)
	if found {
		return model.FoundOutcome(distance), nil
	}
	if err != nil {
		return model.MatchOutcome{}, err
	}
	return model.NotFoundOutcome(), nil
}

// Found is the boolean contract of the matching engine: the document matched.
// Unreadable documents report false; use Search to tell them apart.
func Found(path string, pattern model.Pattern) bool {
	engine, err := NewEngine(pattern)
	if err != nil {
		return false
	}
	return engine.SearchPath(path).Found()
}
