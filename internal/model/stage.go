package model

// Stage is one ordered phase of the pipeline. Every part is optional: an empty
// PatchSource skips patching, an empty SnapshotTarget skips the snapshot and
// an empty Inject list skips injection.
type Stage struct {
	Name           string `mapstructure:"name" yaml:"name"`
	PatchSource    Path   `mapstructure:"patches" yaml:"patches,omitempty"`
	SnapshotTarget Path   `mapstructure:"snapshot" yaml:"snapshot,omitempty"`
	Inject         []Path `mapstructure:"inject" yaml:"inject,omitempty"`
}

// HasPatches reports whether the stage declares a patch source.
func (s Stage) HasPatches() bool {
	return s.PatchSource != ""
}

// HasSnapshot reports whether the stage declares a snapshot target.
func (s Stage) HasSnapshot() bool {
	return s.SnapshotTarget != ""
}

// HasInjections reports whether the stage declares injection sources.
func (s Stage) HasInjections() bool {
	return len(s.Inject) > 0
}

// PatchFile is a discovered patch file. Archive entries carry their Text;
// files on disk carry an Origin and are read when records are loaded.
type PatchFile struct {
	// Name identifies the file: a filesystem path or an archive entry name.
	Name   string
	Origin Path
	Text   string
}

// InjectFile is a file to merge into the tree at a relative path.
type InjectFile struct {
	Origin   Path
	Relative string
}
