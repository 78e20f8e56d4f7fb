// Package testing provides utilities and helpers for testing document search runs.
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-doc-search/model"
)

// WriteCorpus writes each name/content pair into a fresh temporary directory
// and returns the directory and the file paths sorted by name.
func WriteCorpus(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(files[name]), 0600), "Failed to write corpus file %s", name)
		paths = append(paths, path)
	}
	return dir, paths
}

// CorpusDocuments writes the corpus and returns it as a document list
func CorpusDocuments(t *testing.T, files map[string]string) []model.Document {
	t.Helper()

	_, paths := WriteCorpus(t, files)
	docs, err := model.NewDocuments(paths)
	require.NoError(t, err, "Failed to build documents")
	return docs
}

// NumberedCorpus creates n documents named doc00.txt, doc01.txt, ...
// Every document whose index satisfies hit gets the word "needle", the rest get filler text.
func NumberedCorpus(t *testing.T, n int, hit func(i int) bool) []model.Document {
	t.Helper()

	files := make(map[string]string, n)
	for i := 0; i < n; i++ {
		content := fmt.Sprintf("document %d has nothing to offer\nline two of %d\n", i, i)
		if hit != nil && hit(i) {
			content += "here lies the Needle in the haystack\n"
		}
		files[fmt.Sprintf("doc%02d.txt", i)] = content
	}
	return CorpusDocuments(t, files)
}

// MissingDocument returns a document whose path does not exist
func MissingDocument(t *testing.T, name string) model.Document {
	t.Helper()
	return model.NewDocument(filepath.Join(t.TempDir(), "missing", name))
}
