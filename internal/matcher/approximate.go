package matcher

import (
	"io"
	"strings"

	"github.com/gcbaptista/go-doc-search/internal/tokenizer"
)

// ApproximateMatcher looks for a whitespace-delimited token within a bounded edit distance of the pattern.
type ApproximateMatcher struct {
	pattern   string // case-folded
	threshold int
}

// NewApproximateMatcher creates a matcher accepting tokens at most threshold edits away from pattern.
// A negative threshold falls back to DefaultThreshold.
func NewApproximateMatcher(pattern string, threshold int) *ApproximateMatcher {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &ApproximateMatcher{
		pattern:   strings.ToLower(pattern),
		threshold: threshold,
	}
}

// Threshold returns the maximum accepted edit distance
func (m *ApproximateMatcher) Threshold() int {
	return m.threshold
}

// MatchReader tokenizes r and stops at the first token close enough to the pattern.
// The returned distance is meaningful only when found is true.
func (m *ApproximateMatcher) MatchReader(r io.Reader) (found bool, distance int, err error) {
	err = tokenizer.Each(r, func(token string) bool {
		d := BoundedEditDistance(strings.ToLower(token), m.pattern, m.threshold)
		if d <= m.threshold {
			found = true
			distance = d
			return false
		}
		return true
	})
	if found {
		// A later read error does not undo a match already seen
		return true, distance, nil
	}
	return false, 0, err
}

// MatchString reports whether any token of text is close enough to the pattern, and its distance.
func (m *ApproximateMatcher) MatchString(text string) (bool, int) {
	found, distance, _ := m.MatchReader(strings.NewReader(text))
	return found, distance
}
