// Package model defines the data structures for staged patch application.
package model

import (
	"sort"
	"strings"
)

// Path represents a file system path.
type Path string

// TextSuffix routes a file into the text mapping of a SourceTree. The match is
// exact and case-sensitive.
const TextSuffix = ".java"

// IsText reports whether a tree path holds text source rather than a resource.
func IsText(path string) bool {
	return strings.HasSuffix(path, TextSuffix)
}

// SourceTree is the in-memory tree the pipeline mutates. A path lives in at
// most one of the two mappings.
type SourceTree struct {
	Text      map[string]string
	Resources map[string][]byte
}

// NewSourceTree returns an empty tree.
func NewSourceTree() *SourceTree {
	return &SourceTree{
		Text:      map[string]string{},
		Resources: map[string][]byte{},
	}
}

// PutText stores text content at path, evicting any resource at that path.
func (t *SourceTree) PutText(path, content string) {
	delete(t.Resources, path)
	t.Text[path] = content
}

// PutResource stores binary content at path, evicting any text at that path.
func (t *SourceTree) PutResource(path string, content []byte) {
	delete(t.Text, path)
	t.Resources[path] = content
}

// Put classifies path and stores content in the matching mapping.
func (t *SourceTree) Put(path string, content []byte) {
	if IsText(path) {
		t.PutText(path, string(content))
		return
	}

	t.PutResource(path, content)
}

// GetText returns the text entry at path.
func (t *SourceTree) GetText(path string) (string, bool) {
	content, ok := t.Text[path]
	return content, ok
}

// Get returns the bytes stored at path from either mapping.
func (t *SourceTree) Get(path string) ([]byte, bool) {
	if content, ok := t.Text[path]; ok {
		return []byte(content), true
	}

	content, ok := t.Resources[path]

	return content, ok
}

// Has reports whether path exists in either mapping.
func (t *SourceTree) Has(path string) bool {
	_, ok := t.Get(path)
	return ok
}

// Len returns the number of entries in the tree.
func (t *SourceTree) Len() int {
	return len(t.Text) + len(t.Resources)
}

// Paths returns every path of the tree in lexical order.
func (t *SourceTree) Paths() []string {
	paths := make([]string, 0, t.Len())
	for path := range t.Text {
		paths = append(paths, path)
	}

	for path := range t.Resources {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}
