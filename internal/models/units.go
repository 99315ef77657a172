package models

// UnitKind discriminates how a commit unit is executed.
type UnitKind int

const (
	// UnitDirectory commits a whole directory in one stage/commit pair.
	// Every file in the unit shares a single change kind.
	UnitDirectory UnitKind = iota
	// UnitIndividual commits each file on its own, carrying a per-file
	// change kind parallel to Files.
	UnitIndividual
)

// CommitUnit is one planned commit produced by the grouping engine and
// consumed exactly once by the commit runner. Directory units keep their
// uniform kind in Change; individual units keep index-aligned kinds in
// FileChanges. A "mixed" directory never reaches the runner: mixed buckets
// are always emitted as UnitIndividual.
type CommitUnit struct {
	Kind UnitKind
	// Path is the directory being committed for UnitDirectory units and
	// the "." sentinel for UnitIndividual units, which are never
	// attributed to their original directory.
	Path        string
	Change      ChangeKind   // valid only when Kind == UnitDirectory
	Files       []string     // never empty
	FileChanges []ChangeKind // parallel to Files, only when Kind == UnitIndividual
}

// NewDirectoryUnit builds a uniform-directory commit unit.
func NewDirectoryUnit(path string, change ChangeKind, files []string) CommitUnit {
	return CommitUnit{
		Kind:   UnitDirectory,
		Path:   path,
		Change: change,
		Files:  files,
	}
}

// NewIndividualUnit builds a per-file commit unit anchored at the "."
// sentinel.
func NewIndividualUnit(files []string, changes []ChangeKind) CommitUnit {
	return CommitUnit{
		Kind:        UnitIndividual,
		Path:        ".",
		Files:       files,
		FileChanges: changes,
	}
}

// FileCount returns how many files the unit covers. An untracked directory
// entry counts as one regardless of its real contents.
func (u CommitUnit) FileCount() int {
	return len(u.Files)
}
