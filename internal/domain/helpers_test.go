package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}

const classA = "class A {\n    int a;\n}\n"

const patchA = `--- a/b/c/pkg/A.java
+++ a/b/c/pkg/A.java
@@ -1,3 +1,3 @@
 class A {
-    int a;
+    int alpha;
 }
`

const classB = `class B {
    void one() {}
    void two() {}
    void three() {}
    void four() {}
    void five() {}
    void six() {}
    void seven() {}
}
`

// patchB has three hunks; the second one cannot match classB.
const patchB = `--- a/b/c/pkg/B.java
+++ a/b/c/pkg/B.java
@@ -1,2 +1,2 @@
 class B {
-    void one() {}
+    void uno() {}
@@ -4,2 +4,2 @@
-    void tres() {}
+    void three() {}
     void four() {}
@@ -8,2 +8,2 @@
-    void seven() {}
+    void siete() {}
 }
`

const patchedB = `class B {
    void uno() {}
    void two() {}
    void three() {}
    void four() {}
    void five() {}
    void six() {}
    void siete() {}
}
`

const rejectB = `++++ REJECTED PATCH 2
@@ -4,2 +4,2 @@
-    void tres() {}
+    void three() {}
     void four() {}
++++ END PATCH
`
