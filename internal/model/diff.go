package model

// DiffKind classifies a path when two trees are compared.
type DiffKind int

const (
	// Added paths exist only in the second tree.
	Added DiffKind = iota
	// Removed paths exist only in the first tree.
	Removed
	// Changed paths exist in both trees with different content.
	Changed
)

func (k DiffKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}

	return "unknown"
}

// FileDiff describes one differing path. Unified is set for changed text
// entries only.
type FileDiff struct {
	Path    string
	Kind    DiffKind
	Unified string
}

// StageListing summarizes what a configured stage would consume.
type StageListing struct {
	Name     string
	Patches  int
	Injects  int
	Bytes    int64
	Snapshot Path
	Missing  []Path
}
