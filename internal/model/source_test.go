package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"pkg/Foo.java", true},
		{"pkg/Foo.JAVA", false},
		{"pkg/Foo.txt", false},
		{"pkg/Foo.java.bak", false},
		{"META-INF/MANIFEST.MF", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsText(tt.path))
		})
	}
}

func TestSourceTree_Put(t *testing.T) {
	tree := NewSourceTree()

	tree.Put("pkg/Foo.java", []byte("class Foo {}\n"))
	tree.Put("pkg/Foo.JAVA", []byte("upper"))
	tree.Put("pkg/notes.txt", []byte("notes"))

	assert.Equal(t, map[string]string{"pkg/Foo.java": "class Foo {}\n"}, tree.Text)
	assert.Equal(t, map[string][]byte{
		"pkg/Foo.JAVA":  []byte("upper"),
		"pkg/notes.txt": []byte("notes"),
	}, tree.Resources)
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, []string{"pkg/Foo.JAVA", "pkg/Foo.java", "pkg/notes.txt"}, tree.Paths())
}

func TestSourceTree_PathLivesInOneMapping(t *testing.T) {
	tree := NewSourceTree()

	tree.PutResource("x", []byte("resource"))
	tree.PutText("x", "text")

	_, inResources := tree.Resources["x"]
	assert.False(t, inResources)

	content, ok := tree.GetText("x")
	assert.True(t, ok)
	assert.Equal(t, "text", content)

	tree.PutResource("x", []byte("again"))

	_, inText := tree.Text["x"]
	assert.False(t, inText)

	got, ok := tree.Get("x")
	assert.True(t, ok)
	assert.Equal(t, []byte("again"), got)
	assert.Equal(t, 1, tree.Len())
}

func TestSourceTree_LastWriteWins(t *testing.T) {
	tree := NewSourceTree()

	tree.Put("pkg/Foo.java", []byte("first"))
	tree.Put("pkg/Foo.java", []byte("second"))

	content, _ := tree.GetText("pkg/Foo.java")
	assert.Equal(t, "second", content)
	assert.False(t, tree.Has("pkg/Bar.java"))
}
