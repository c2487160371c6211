package domain

import (
	"errors"
	"fmt"
	"strings"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

// stripSegments is the number of leading path segments removed from patch
// header paths before they are looked up in the tree.
const stripSegments = 3

// ErrMalformedTarget is returned for a header path with fewer segments than
// the strip count. It is not a patch failure and aborts the run.
var ErrMalformedTarget = errors.New("malformed patch target")

// ContextAccessor gives the patch engine direct access to the text entries of
// a SourceTree. There is no buffering: every write lands in the tree at once.
type ContextAccessor struct {
	tree *m.SourceTree
}

var _ patch.Provider = (*ContextAccessor)(nil)

// NewContextAccessor wraps tree.
func NewContextAccessor(tree *m.SourceTree) *ContextAccessor {
	return &ContextAccessor{tree: tree}
}

// Strip normalizes separators and drops the first three segments of target.
func Strip(target string) (string, error) {
	target = strings.ReplaceAll(target, "\\", "/")

	index := 0

	for range stripSegments {
		next := strings.IndexByte(target[index:], '/')
		if next < 0 {
			return "", fmt.Errorf("%w: %q has fewer than %d segments", ErrMalformedTarget, target, stripSegments)
		}

		index += next + 1
	}

	return target[index:], nil
}

// DisplayTarget strips target for log output, falling back to the raw path.
func DisplayTarget(target string) string {
	stripped, err := Strip(target)
	if err != nil {
		return target
	}

	return stripped
}

// Read returns the lines of the text entry addressed by target.
func (a *ContextAccessor) Read(target string) ([]string, error) {
	key, err := Strip(target)
	if err != nil {
		return nil, err
	}

	content, ok := a.tree.GetText(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", patch.ErrTargetNotFound, key)
	}

	return patch.SplitLines(content), nil
}

// Write stores lines as the text entry addressed by target, joined with "\n"
// and terminated by a newline.
func (a *ContextAccessor) Write(target string, lines []string) error {
	key, err := Strip(target)
	if err != nil {
		return err
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	a.tree.PutText(key, content)

	return nil
}
