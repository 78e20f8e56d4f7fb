package model

import (
	"strings"

	"github.com/gcbaptista/go-doc-search/internal/errors"
)

// Document is a readable plain-text file handed over by discovery.
// Everything downstream refers to documents by their position in the run's document list.
type Document struct {
	Path string `json:"path"`
	Name string `json:"name"` // NormalizedName(Path), used as the result table key
}

// NormalizedName returns the substring after the last path separator, or the whole path if there is none.
// Both '/' and '\' count as separators so Windows-style paths normalize the same way.
func NormalizedName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// NewDocument creates a Document for the given path.
func NewDocument(path string) Document {
	return Document{Path: path, Name: NormalizedName(path)}
}

// NewDocuments builds the ordered document list for a run.
// Two paths normalizing to the same name would collide in the result table, so they are rejected.
func NewDocuments(paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			return nil, errors.NewValidationError("paths", "document path cannot be empty")
		}
		doc := NewDocument(path)
		if doc.Name == "" {
			return nil, errors.NewValidationError("paths", "document path '"+path+"' has no file name")
		}
		if other, dup := seen[doc.Name]; dup {
			return nil, errors.NewValidationError("paths",
				"documents '"+other+"' and '"+path+"' share the name '"+doc.Name+"'")
		}
		seen[doc.Name] = path
		docs = append(docs, doc)
	}
	return docs, nil
}
