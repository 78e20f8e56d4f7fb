package matcher

import (
	"bufio"
	"io"
	"strings"
)

// readBufferSize is the chunk size documents are streamed in.
const readBufferSize = 32 * 1024

// ExactMatcher finds a case-insensitive literal occurrence of a pattern.
type ExactMatcher struct {
	automaton *Automaton
}

// NewExactMatcher builds the automaton for pattern.
func NewExactMatcher(pattern string) *ExactMatcher {
	return &ExactMatcher{automaton: NewAutomaton(pattern)}
}

// MatchReader streams r and stops at the first occurrence.
//
// Matching is line based: the automaton restarts at every '\n', the same as scanning
// the document line by line. Within a line the automaton state is carried across
// read-buffer boundaries, so no occurrence is lost to chunking however long the line is.
func (m *ExactMatcher) MatchReader(r io.Reader) (bool, error) {
	if m.automaton.MatchesEmpty() {
		return true, nil
	}

	reader := bufio.NewReaderSize(r, readBufferSize)
	cursor := m.automaton.NewCursor()

	for {
		ch, _, err := reader.ReadRune()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		if ch == '\n' {
			cursor.Reset()
			continue
		}
		if cursor.Step(ch) {
			return true, nil
		}
	}
}

// MatchString reports whether text contains the pattern, ignoring case.
func (m *ExactMatcher) MatchString(text string) bool {
	found, _ := m.MatchReader(strings.NewReader(text))
	return found
}
