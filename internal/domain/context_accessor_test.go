package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"drops three segments", "a/b/c/d/e", "d/e"},
		{"backslashes normalized", `a\b\c\pkg\Foo.java`, "pkg/Foo.java"},
		{"relative prefixes count as segments", "../src-base/minecraft/net/Foo.java", "net/Foo.java"},
		{"exactly three separators", "a/b/c/Foo.java", "Foo.java"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strip(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("too few segments", func(t *testing.T) {
		_, err := Strip("a/b/c")
		require.ErrorIs(t, err, ErrMalformedTarget)
	})
}

func TestDisplayTarget(t *testing.T) {
	assert.Equal(t, "pkg/Foo.java", DisplayTarget("a/b/c/pkg/Foo.java"))
	assert.Equal(t, "short/path", DisplayTarget("short/path"))
}

func TestContextAccessor_Read(t *testing.T) {
	tree := m.NewSourceTree()
	tree.PutText("pkg/Foo.java", "class Foo {\r\n}\r\n")
	tree.PutResource("pkg/data.bin", []byte("binary"))

	accessor := NewContextAccessor(tree)

	t.Run("text entry", func(t *testing.T) {
		lines, err := accessor.Read("x/y/z/pkg/Foo.java")
		require.NoError(t, err)
		assert.Equal(t, []string{"class Foo {", "}"}, lines)
	})

	t.Run("resources are not visible", func(t *testing.T) {
		_, err := accessor.Read("x/y/z/pkg/data.bin")
		require.ErrorIs(t, err, patch.ErrTargetNotFound)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := accessor.Read("x/y/z/pkg/Missing.java")
		require.ErrorIs(t, err, patch.ErrTargetNotFound)
	})

	t.Run("malformed target", func(t *testing.T) {
		_, err := accessor.Read("Foo.java")
		require.ErrorIs(t, err, ErrMalformedTarget)
	})
}

func TestContextAccessor_Write(t *testing.T) {
	tree := m.NewSourceTree()
	accessor := NewContextAccessor(tree)

	require.NoError(t, accessor.Write("x/y/z/pkg/Foo.java", []string{"class Foo {", "}"}))

	content, ok := tree.GetText("pkg/Foo.java")
	require.True(t, ok)
	assert.Equal(t, "class Foo {\n}\n", content)

	require.NoError(t, accessor.Write("x/y/z/pkg/Foo.java", nil))

	content, _ = tree.GetText("pkg/Foo.java")
	assert.Empty(t, content)

	require.ErrorIs(t, accessor.Write("Foo.java", []string{"x"}), ErrMalformedTarget)
}
