package matcher

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/gcbaptista/go-doc-search/internal/errors"
	testutil "github.com/gcbaptista/go-doc-search/internal/testing"
	"github.com/gcbaptista/go-doc-search/model"
)

func TestEngine_Search(t *testing.T) {
	docs := testutil.CorpusDocuments(t, map[string]string{
		"alpha.txt": "The quick brown fox",
		"hello.txt": "Hello World\nsecond line",
	})
	alpha, hello := docs[0], docs[1]

	tests := []struct {
		name    string
		doc     model.Document
		pattern model.Pattern
		want    model.MatchStatus
	}{
		{"approximate hit", alpha, model.Pattern{Text: "quikc", Mode: model.ModeApproximate}, model.StatusFound},
		{"approximate miss", alpha, model.Pattern{Text: "zzzzz", Mode: model.ModeApproximate}, model.StatusNotFound},
		{"exact hit", hello, model.Pattern{Text: "world", Mode: model.ModeExact}, model.StatusFound},
		{"exact miss", hello, model.Pattern{Text: "planet", Mode: model.ModeExact}, model.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.pattern)
			require.NoError(t, err)
			outcome := engine.Search(tt.doc)
			assert.Equal(t, tt.want, outcome.Status)
			assert.Equal(t, tt.want == model.StatusFound, Found(tt.doc.Path, tt.pattern))
		})
	}
}

func TestEngine_UnreadableIsDistinct(t *testing.T) {
	engine, err := NewEngine(model.Pattern{Text: "anything", Mode: model.ModeExact})
	require.NoError(t, err)

	outcome := engine.Search(testutil.MissingDocument(t, "gone.txt"))
	assert.Equal(t, model.StatusUnreadable, outcome.Status)
	assert.False(t, outcome.Found())
	assert.Contains(t, outcome.Error, "gone.txt")

	// The boolean contract still reports false
	assert.False(t, Found(testutil.MissingDocument(t, "gone.txt").Path, engine.Pattern()))
}

func TestEngine_ReadErrorMidScan(t *testing.T) {
	opener := OpenerFunc(func(path string) (io.ReadCloser, error) {
		return io.NopCloser(&failingReader{data: "partial content"}), nil
	})

	engine, err := NewEngine(model.Pattern{Text: "missing", Mode: model.ModeApproximate}, WithOpener(opener))
	require.NoError(t, err)

	outcome := engine.SearchPath("virtual.txt")
	assert.Equal(t, model.StatusUnreadable, outcome.Status)
	assert.Contains(t, outcome.Error, "disk on fire")
}

func TestEngine_CustomOpenerAndThreshold(t *testing.T) {
	opened := 0
	opener := OpenerFunc(func(path string) (io.ReadCloser, error) {
		opened++
		if path == "denied.txt" {
			return nil, errors.New("permission denied")
		}
		return io.NopCloser(strings.NewReader("the brwn fox")), nil
	})

	strict, err := NewEngine(model.Pattern{Text: "brown", Mode: model.ModeApproximate}, WithOpener(opener), WithThreshold(0))
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotFound, strict.SearchPath("memory.txt").Status)

	loose, err := NewEngine(model.Pattern{Text: "brown", Mode: model.ModeApproximate}, WithOpener(opener))
	require.NoError(t, err)
	outcome := loose.SearchPath("memory.txt")
	assert.Equal(t, model.StatusFound, outcome.Status)
	assert.Equal(t, 1, outcome.Distance)

	denied := loose.SearchPath("denied.txt")
	assert.True(t, denied.Unreadable())
	assert.Equal(t, 3, opened)
}

func TestNewEngine_InvalidMode(t *testing.T) {
	_, err := NewEngine(model.Pattern{Text: "x", Mode: "regex"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, searcherrors.ErrInvalidInput))
}

func TestEngine_Match(t *testing.T) {
	engine, err := NewEngine(model.Pattern{Text: "WORLD", Mode: model.ModeExact})
	require.NoError(t, err)

	outcome, err := engine.Match(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.True(t, outcome.Found())
}
