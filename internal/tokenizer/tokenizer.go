package tokenizer

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"
)

// MaxTokenSize bounds a single whitespace-delimited token read from a stream.
// Longer tokens are skipped and scanning resumes at the next whitespace.
const MaxTokenSize = 1 << 20

// NewScanner returns a scanner yielding the whitespace-delimited tokens of r one at a time,
// so a document is never held in memory as a whole.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxTokenSize)
	scanner.Split(boundedWords())
	return scanner
}

// Each calls fn for every token of r until fn returns false or the input is exhausted.
func Each(r io.Reader, fn func(token string) bool) error {
	scanner := NewScanner(r)
	for scanner.Scan() {
		if !fn(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// boundedWords splits like bufio.ScanWords but drops a token that would fill the
// scanner's whole buffer instead of failing with bufio.ErrTooLong.
func boundedWords() bufio.SplitFunc {
	skipping := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if skipping {
			for i := 0; i < len(data); {
				if !atEOF && !utf8.FullRune(data[i:]) {
					return i, nil, nil
				}
				r, width := utf8.DecodeRune(data[i:])
				i += width
				if unicode.IsSpace(r) {
					skipping = false
					return i, nil, nil
				}
			}
			return len(data), nil, nil
		}

		advance, token, err := bufio.ScanWords(data, atEOF)
		if advance == 0 && token == nil && err == nil && len(data) >= MaxTokenSize {
			skipping = true
			return len(data), nil, nil
		}
		return advance, token, err
	}
}
