// Package patch parses unified diffs and applies them to line-based content.
package patch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DevNull is the header path used for created and deleted files.
const DevNull = "/dev/null"

// ErrMalformedPatch is returned when a patch text cannot be parsed.
var ErrMalformedPatch = errors.New("malformed patch")

// Hunk is one contiguous change block of a file patch.
type Hunk struct {
	ID       int
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	// Header is the literal "@@ ... @@" line.
	Header string
	// Body holds the hunk lines including their ' ', '-' or '+' prefix.
	Body []string
}

// Lines returns the literal hunk text: header followed by the body.
func (h Hunk) Lines() []string {
	lines := make([]string, 0, len(h.Body)+1)
	lines = append(lines, h.Header)

	return append(lines, h.Body...)
}

// Old returns the lines the hunk expects to find, without prefixes.
func (h Hunk) Old() []string {
	return h.side('-')
}

// New returns the lines the hunk leaves behind, without prefixes.
func (h Hunk) New() []string {
	return h.side('+')
}

func (h Hunk) side(keep byte) []string {
	lines := make([]string, 0, len(h.Body))

	for _, line := range h.Body {
		if line[0] == ' ' || line[0] == keep {
			lines = append(lines, line[1:])
		}
	}

	return lines
}

// merge produces the replacement for matched, the file lines the hunk's old
// side matched after dropping outer context. Context lines keep the file's
// text; added lines come from the hunk.
func (h Hunk) merge(matched []string, dropLead, dropTrail int) []string {
	body := h.Body[dropLead : len(h.Body)-dropTrail]
	merged := make([]string, 0, len(body))
	k := 0

	for _, line := range body {
		switch line[0] {
		case ' ':
			merged = append(merged, matched[k])
			k++
		case '-':
			k++
		case '+':
			merged = append(merged, line[1:])
		}
	}

	return merged
}

// leadingContext counts the context lines before the first change.
func (h Hunk) leadingContext() int {
	count := 0

	for _, line := range h.Body {
		if line[0] != ' ' {
			break
		}

		count++
	}

	return count
}

// trailingContext counts the context lines after the last change.
func (h Hunk) trailingContext() int {
	count := 0

	for i := len(h.Body) - 1; i >= 0; i-- {
		if h.Body[i][0] != ' ' {
			break
		}

		count++
	}

	return count
}

// FilePatch groups the hunks that target one file.
type FilePatch struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// Target returns the header path the patch applies to.
func (fp FilePatch) Target() string {
	if fp.NewPath == "" || fp.NewPath == DevNull {
		return fp.OldPath
	}

	return fp.NewPath
}

// IsCreation reports whether the patch only adds lines to an empty file.
func (fp FilePatch) IsCreation() bool {
	if fp.OldPath == DevNull {
		return true
	}

	for _, hunk := range fp.Hunks {
		if hunk.OldLines != 0 || hunk.OldStart != 0 {
			return false
		}
	}

	return len(fp.Hunks) > 0
}

// Parse reads every file patch contained in a unified diff.
func Parse(text string) ([]FilePatch, error) {
	lines := SplitLines(text)

	var (
		patches []FilePatch
		current *FilePatch
	)

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ "):
			if current != nil {
				patches = append(patches, *current)
			}

			current = &FilePatch{
				OldPath: headerPath(line[4:]),
				NewPath: headerPath(lines[i+1][4:]),
			}
			i++

		case strings.HasPrefix(line, "@@"):
			if current == nil {
				return nil, fmt.Errorf("%w: hunk at line %d has no file header", ErrMalformedPatch, i+1)
			}

			hunk, consumed, err := parseHunk(lines[i:], len(current.Hunks)+1)
			if err != nil {
				return nil, fmt.Errorf("%w at line %d", err, i+1)
			}

			current.Hunks = append(current.Hunks, hunk)
			i += consumed - 1
		}
	}

	if current != nil {
		patches = append(patches, *current)
	}

	return patches, nil
}

func parseHunk(lines []string, id int) (Hunk, int, error) {
	hunk := Hunk{ID: id, Header: lines[0]}

	if err := parseHunkHeader(lines[0], &hunk); err != nil {
		return Hunk{}, 0, err
	}

	oldLeft, newLeft := hunk.OldLines, hunk.NewLines
	consumed := 1

	for oldLeft > 0 || newLeft > 0 {
		if consumed >= len(lines) {
			return Hunk{}, 0, fmt.Errorf("%w: hunk %d ends early", ErrMalformedPatch, id)
		}

		line := lines[consumed]
		consumed++

		if line == "" {
			line = " "
		}

		switch line[0] {
		case ' ':
			oldLeft--
			newLeft--
		case '-':
			oldLeft--
		case '+':
			newLeft--
		case '\\':
			continue
		default:
			return Hunk{}, 0, fmt.Errorf("%w: unexpected line %q in hunk %d", ErrMalformedPatch, line, id)
		}

		if oldLeft < 0 || newLeft < 0 {
			return Hunk{}, 0, fmt.Errorf("%w: hunk %d is longer than its header", ErrMalformedPatch, id)
		}

		hunk.Body = append(hunk.Body, line)
	}

	// A trailing "\ No newline at end of file" belongs to this hunk.
	for consumed < len(lines) && strings.HasPrefix(lines[consumed], "\\") {
		consumed++
	}

	return hunk, consumed, nil
}

// parseHunkHeader reads "@@ -a,b +c,d @@".
func parseHunkHeader(header string, hunk *Hunk) error {
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "@@" || !strings.HasPrefix(fields[3], "@@") {
		return fmt.Errorf("%w: bad hunk header %q", ErrMalformedPatch, header)
	}

	var err error

	hunk.OldStart, hunk.OldLines, err = parseRange(fields[1], '-')
	if err != nil {
		return fmt.Errorf("%w: bad hunk header %q", ErrMalformedPatch, header)
	}

	hunk.NewStart, hunk.NewLines, err = parseRange(fields[2], '+')
	if err != nil {
		return fmt.Errorf("%w: bad hunk header %q", ErrMalformedPatch, header)
	}

	return nil
}

func parseRange(field string, sign byte) (int, int, error) {
	if len(field) < 2 || field[0] != sign {
		return 0, 0, ErrMalformedPatch
	}

	start, count, found := strings.Cut(field[1:], ",")

	first, err := strconv.Atoi(start)
	if err != nil {
		return 0, 0, err
	}

	if !found {
		return first, 1, nil
	}

	length, err := strconv.Atoi(count)
	if err != nil {
		return 0, 0, err
	}

	return first, length, nil
}

// headerPath drops the timestamp git and diff append after a tab.
func headerPath(raw string) string {
	if i := strings.IndexByte(raw, '\t'); i >= 0 {
		raw = raw[:i]
	}

	return strings.TrimSpace(raw)
}

// SplitLines splits on \r\n, \r or \n. A trailing terminator does not yield an
// empty last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	return strings.Split(text, "\n")
}
