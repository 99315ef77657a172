// Package grouping partitions normalized change records into commit units.
package grouping

import (
	"context"
	"path"
	"slices"
	"strings"

	log "github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// Lister provides the tracked-file listing used for the directory
// completeness probe. Implemented by the git service; faked in tests.
type Lister interface {
	ListFiles(ctx context.Context, dir string) ([]string, error)
}

// Engine turns a flat list of change records into commit units. It is
// stateless between calls; grouping the same records twice against the same
// listings yields structurally equal results.
type Engine struct {
	lister Lister
}

// NewEngine constructs an Engine backed by the given lister.
func NewEngine(lister Lister) *Engine {
	return &Engine{lister: lister}
}

// bucket accumulates the records sharing one parent directory.
type bucket struct {
	change models.ChangeKind
	mixed  bool
	files  []string
}

// Group partitions records into commit units.
//
// Untracked directories (paths ending in "/" with status "??") become their
// own single-entry add units, emitted ahead of everything else: git reports
// such a directory as one opaque entry and it is never decomposed.
//
// Remaining records are bucketed by parent directory. A bucket whose records
// all share one change kind, and whose changed-file count matches the
// tracked-file count under that directory, is emitted as one uniform
// directory unit. Mixed buckets, partially-changed directories, and buckets
// whose listing probe fails all degrade to a single individual-files unit
// carrying per-file kinds. A probe failure only ever degrades its own
// bucket.
//
// Buckets are emitted in first-seen directory order so the plan is
// reproducible.
func (e *Engine) Group(ctx context.Context, repoPath string, records []models.ChangeRecord) []models.CommitUnit {
	buckets := make(map[string]*bucket)
	var order []string
	var untrackedDirs []models.CommitUnit

	for _, record := range records {
		if strings.HasSuffix(record.Path, "/") && record.Status == models.StatusUntracked {
			untrackedDirs = append(untrackedDirs, models.NewDirectoryUnit(
				record.Path, models.ChangeAdd, []string{record.Path}))
			continue
		}

		parent := parentDir(record.Path)
		b, seen := buckets[parent]
		if !seen {
			b = &bucket{change: record.Kind}
			buckets[parent] = b
			order = append(order, parent)
		} else if !b.mixed && b.change != record.Kind {
			// Once mixed, stays mixed.
			b.mixed = true
		}
		b.files = append(b.files, record.Path)
	}

	result := untrackedDirs

	for _, dir := range order {
		b := buckets[dir]

		if !b.mixed {
			tracked, err := e.lister.ListFiles(ctx, dir)
			switch {
			case err != nil:
				log.Printf("warning: listing %s in %s failed, committing files individually: %v", dir, repoPath, err)
			case len(b.files) == len(tracked):
				// Whole directory uniformly changed.
				result = append(result, models.NewDirectoryUnit(dir, b.change, b.files))
				continue
			}
		}

		// Re-walk the original records so per-file kinds stay
		// index-aligned with the original order.
		var files []string
		var changes []models.ChangeKind
		for _, record := range records {
			if slices.Contains(b.files, record.Path) {
				files = append(files, record.Path)
				changes = append(changes, record.Kind)
			}
		}
		result = append(result, models.NewIndividualUnit(files, changes))
	}

	return result
}

// parentDir returns the bucket key for a path, normalizing files at the
// repository root to the "." sentinel.
func parentDir(p string) string {
	dir := path.Dir(p)
	if dir == "" {
		return "."
	}
	return dir
}
