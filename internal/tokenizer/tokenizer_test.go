package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, text string) []string {
	t.Helper()
	got := make([]string, 0)
	err := Each(strings.NewReader(text), func(token string) bool {
		got = append(got, token)
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestEach(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple sentence", "The quick brown fox", []string{"The", "quick", "brown", "fox"}},
		{"punctuation kept", "Hello, world!", []string{"Hello,", "world!"}},
		{"mixed whitespace", "one two\nthree  four\r\n\tfive", []string{"one", "two", "three", "four", "five"}},
		{"unicode whitespace", "café bar", []string{"café", "bar"}},
		{"empty string", "", []string{}},
		{"only whitespace", " \n\t ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(t, tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Each(%q) yielded %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEach_StopsEarly(t *testing.T) {
	count := 0
	err := Each(strings.NewReader("a b c d e"), func(token string) bool {
		count++
		return token != "b"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected scan to stop after 2 tokens, got %d", count)
	}
}

func TestEach_SkipsOversizedToken(t *testing.T) {
	huge := strings.Repeat("x", MaxTokenSize+1)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"between words", "a " + huge + " the quick", []string{"a", "the", "quick"}},
		{"at start", huge + "\nquick", []string{"quick"}},
		{"at end", "quick " + huge, []string{"quick"}},
		{"several", huge + " one " + strings.Repeat("y", 3*MaxTokenSize) + " two", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(t, tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Each yielded %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEach_KeepsTokensBelowLimit(t *testing.T) {
	long := strings.Repeat("z", 200*1024)
	got := collect(t, "start "+long+" end")
	if len(got) != 3 || got[1] != long {
		t.Errorf("expected the 200 KiB token to be kept, got %d tokens", len(got))
	}
}
