package matcher

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	aho "github.com/petar-dambovaliev/aho-corasick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactMatcher_MatchString(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"case-insensitive hit", "world", "Hello World", true},
		{"miss", "planet", "Hello World", false},
		{"upper-case pattern", "HELLO", "well hello there", true},
		{"prefix restart", "aab", "aaab", true},
		{"overlapping self prefix", "abab", "abaabab", true},
		{"second line", "fox", "The quick\nbrown fox", true},
		{"not across lines", "quickbrown", "The quick\nbrown fox", false},
		{"pattern longer than text", "foxes", "fox", false},
		{"unicode folding", "ÉCOLE", "une école", true},
		{"empty pattern", "", "anything", true},
		{"empty text", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewExactMatcher(tt.pattern)
			assert.Equal(t, tt.want, m.MatchString(tt.text))
		})
	}
}

func TestExactMatcher_LongLineAcrossBuffers(t *testing.T) {
	// Place the pattern so it straddles the read buffer boundary
	prefix := strings.Repeat("x", readBufferSize-3)
	text := prefix + "NEEDLE" + strings.Repeat("y", 100)

	m := NewExactMatcher("needle")
	found, err := m.MatchReader(strings.NewReader(text))
	require.NoError(t, err)
	assert.True(t, found)
}

type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("disk on fire")
}

func TestExactMatcher_ReadError(t *testing.T) {
	m := NewExactMatcher("absent")
	found, err := m.MatchReader(&failingReader{data: "some text"})
	assert.False(t, found)
	assert.EqualError(t, err, "disk on fire")

	// A match before the failure still counts
	found, err = NewExactMatcher("some").MatchReader(&failingReader{data: "some text"})
	assert.True(t, found)
	assert.NoError(t, err)
}

var _ io.Reader = (*failingReader)(nil)

// The automaton must agree with a plain case-folded substring test on every line,
// and with an independent Aho-Corasick implementation.
func TestExactMatcher_AgreesWithReferences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	textAlphabet := []rune("abAB \n")
	patternAlphabet := []rune("abAB")

	for i := 0; i < 3000; i++ {
		text := randomWord(rng, textAlphabet, 30)
		pattern := randomWord(rng, patternAlphabet, 4)
		if pattern == "" {
			continue
		}

		got := NewExactMatcher(pattern).MatchString(text)

		want := false
		for _, line := range strings.Split(strings.ToLower(text), "\n") {
			if strings.Contains(line, strings.ToLower(pattern)) {
				want = true
				break
			}
		}
		require.Equal(t, want, got, "pattern %q text %q", pattern, text)

		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            aho.LeftMostLongestMatch,
			DFA:                  true,
		})
		oracle := builder.Build([]string{pattern})
		require.Equal(t, len(oracle.FindAll(text)) > 0, got, "oracle disagrees for pattern %q text %q", pattern, text)
	}
}

func TestAutomaton_MultiplePatterns(t *testing.T) {
	a := NewAutomaton("he", "she", "his", "hers")
	cursor := a.NewCursor()

	var hits []int
	for i, r := range "ushers" {
		if cursor.Step(r) {
			hits = append(hits, i)
		}
	}
	// "she" and "he" end at index 3, "hers" at index 5
	assert.Equal(t, []int{3, 5}, hits)

	cursor.Reset()
	assert.False(t, cursor.Step('x'))
	assert.False(t, a.MatchesEmpty())
}
