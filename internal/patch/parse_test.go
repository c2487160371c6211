package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFilePatch = `diff -ru old/src/main/pkg/A.java new/src/main/pkg/A.java
--- old/src/main/pkg/A.java	2026-01-01 00:00:00.000000000 +0000
+++ new/src/main/pkg/A.java	2026-01-02 00:00:00.000000000 +0000
@@ -1,3 +1,4 @@
 class A {
+    int x;
     void f() {}
 }
@@ -10 +11 @@
-old
+new
--- a/b/c/pkg/B.java
+++ a/b/c/pkg/B.java
@@ -1,2 +1,2 @@
-first
+second
 last
\ No newline at end of file
`

func TestParse_MultiFile(t *testing.T) {
	patches, err := Parse(twoFilePatch)
	require.NoError(t, err)
	require.Len(t, patches, 2)

	first := patches[0]
	assert.Equal(t, "old/src/main/pkg/A.java", first.OldPath)
	assert.Equal(t, "new/src/main/pkg/A.java", first.Target())
	require.Len(t, first.Hunks, 2)

	hunk := first.Hunks[0]
	assert.Equal(t, 1, hunk.ID)
	assert.Equal(t, 1, hunk.OldStart)
	assert.Equal(t, 3, hunk.OldLines)
	assert.Equal(t, 1, hunk.NewStart)
	assert.Equal(t, 4, hunk.NewLines)
	assert.Equal(t, "@@ -1,3 +1,4 @@", hunk.Header)
	assert.Equal(t, []string{"class A {", "    void f() {}", "}"}, hunk.Old())
	assert.Equal(t, []string{"class A {", "    int x;", "    void f() {}", "}"}, hunk.New())

	second := first.Hunks[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 10, second.OldStart)
	assert.Equal(t, 1, second.OldLines, "missing count defaults to one")
	assert.Equal(t, 11, second.NewStart)
	assert.Equal(t, 1, second.NewLines)

	other := patches[1]
	assert.Equal(t, "a/b/c/pkg/B.java", other.Target())
	require.Len(t, other.Hunks, 1)
	assert.Equal(t, 1, other.Hunks[0].ID, "hunk ids restart per file")
	assert.Equal(t, []string{"-first", "+second", " last"}, other.Hunks[0].Body)
}

func TestParse_HunkLines(t *testing.T) {
	patches, err := Parse(twoFilePatch)
	require.NoError(t, err)

	lines := patches[1].Hunks[0].Lines()
	assert.Equal(t, []string{"@@ -1,2 +1,2 @@", "-first", "+second", " last"}, lines)
}

func TestParse_EmptyContextLine(t *testing.T) {
	text := "--- a/x/y/F.java\n+++ a/x/y/F.java\n@@ -1,3 +1,3 @@\n a\n\n-b\n+c\n"

	patches, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, []string{" a", " ", "-b", "+c"}, patches[0].Hunks[0].Body)
}

func TestParse_Creation(t *testing.T) {
	text := "--- /dev/null\n+++ a/b/c/pkg/New.java\n@@ -0,0 +1,2 @@\n+class New {\n+}\n"

	patches, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, patches, 1)

	assert.True(t, patches[0].IsCreation())
	assert.Equal(t, "a/b/c/pkg/New.java", patches[0].Target())
	assert.Empty(t, patches[0].Hunks[0].Old())
}

func TestParse_Deletion(t *testing.T) {
	text := "--- a/b/c/pkg/Old.java\n+++ /dev/null\n@@ -1 +0,0 @@\n-class Old {}\n"

	patches, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, "a/b/c/pkg/Old.java", patches[0].Target())
	assert.False(t, patches[0].IsCreation())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"hunk without header", "@@ -1 +1 @@\n-a\n+b\n"},
		{"bad range", "--- a/x\n+++ a/x\n@@ -x +1 @@\n-a\n+b\n"},
		{"short hunk", "--- a/x\n+++ a/x\n@@ -1,3 +1,3 @@\n a\n"},
		{"unexpected line", "--- a/x\n+++ a/x\n@@ -1,2 +1,2 @@\n a\n*b\n"},
		{"missing closing marker", "--- a/x\n+++ a/x\n@@ -1 +1\n-a\n+b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.ErrorIs(t, err, ErrMalformedPatch)
		})
	}
}

func TestParse_IgnoresPreamble(t *testing.T) {
	patches, err := Parse("From: someone\nSubject: fix\n\njust text\n")
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"unix", "a\nb\n", []string{"a", "b"}},
		{"windows", "a\r\nb\r\n", []string{"a", "b"}},
		{"old mac", "a\rb", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.text))
		})
	}
}
