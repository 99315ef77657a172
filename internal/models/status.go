// Package models defines the data objects shared across lazycommit packages.
package models

import "strings"

// StatusCode is the two-character XY code from git status --porcelain=v1.
// Codes outside the recognized set are kept verbatim so diagnostics can show
// exactly what git reported.
type StatusCode string

// Recognized porcelain status codes.
const (
	StatusAddedStaged      StatusCode = "A "
	StatusModifiedStaged   StatusCode = "M "
	StatusDeletedStaged    StatusCode = "D "
	StatusAddedUnstaged    StatusCode = " A"
	StatusModifiedUnstaged StatusCode = " M"
	StatusDeletedUnstaged  StatusCode = " D"
	StatusUntracked        StatusCode = "??"
	StatusRenamed          StatusCode = "R "
	StatusCopied           StatusCode = "C "
	StatusUnmerged         StatusCode = "U "
	StatusIgnored          StatusCode = "! "
)

// Known reports whether the code is one of the recognized porcelain codes.
func (c StatusCode) Known() bool {
	switch c {
	case StatusAddedStaged, StatusModifiedStaged, StatusDeletedStaged,
		StatusAddedUnstaged, StatusModifiedUnstaged, StatusDeletedUnstaged,
		StatusUntracked, StatusRenamed, StatusCopied,
		StatusUnmerged, StatusIgnored:
		return true
	}
	return false
}

// ChangeKind is the reduced change category used for grouping and commit
// messages.
type ChangeKind int

// Change kinds, in the order the commit message tokens list them.
const (
	ChangeAdd ChangeKind = iota
	ChangeModify
	ChangeDelete
	ChangeRename
	ChangeCopy
)

// String returns the commit message token for the kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeModify:
		return "mod"
	case ChangeDelete:
		return "del"
	case ChangeRename:
		return "rename"
	case ChangeCopy:
		return "copy"
	}
	return "mod"
}

// Kind maps a status code to its change kind. Unmerged, ignored and
// unrecognized codes deliberately fall back to ChangeModify instead of
// failing: the grouping engine must stay total over anything git emits.
func (c StatusCode) Kind() ChangeKind {
	switch c {
	case StatusAddedStaged, StatusAddedUnstaged, StatusUntracked:
		return ChangeAdd
	case StatusModifiedStaged, StatusModifiedUnstaged:
		return ChangeModify
	case StatusDeletedStaged, StatusDeletedUnstaged:
		return ChangeDelete
	case StatusRenamed:
		return ChangeRename
	case StatusCopied:
		return ChangeCopy
	}
	return ChangeModify
}

// ChangeRecord is one normalized entry from the status scan.
type ChangeRecord struct {
	Path   string     // repo-relative, forward-slash separated
	Status StatusCode // raw two-character code
	Kind   ChangeKind
}

// ParseStatusLine normalizes one porcelain v1 line into a ChangeRecord.
// The second return value is false for lines that carry no usable entry:
// shorter than three characters, or with an empty path after trimming.
// Unrecognized status codes never fail parsing.
func ParseStatusLine(line string) (ChangeRecord, bool) {
	if len(line) < 3 {
		return ChangeRecord{}, false
	}

	code := StatusCode(line[0:2])
	path := strings.TrimSpace(line[3:])
	if path == "" {
		return ChangeRecord{}, false
	}

	return ChangeRecord{
		Path:   path,
		Status: code,
		Kind:   code.Kind(),
	}, true
}
