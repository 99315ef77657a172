// Package git wraps the git commands lazycommit depends on.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// Service runs git commands against a single repository working tree.
// All calls are blocking and sequential; the service holds no state beyond
// the repository path, so every pass re-derives everything from live git
// output.
type Service struct {
	repoPath string
}

// NewService constructs a Service rooted at repoPath.
func NewService(repoPath string) *Service {
	return &Service{repoPath: repoPath}
}

// RepoPath returns the working tree the service operates on.
func (s *Service) RepoPath() string {
	return s.repoPath
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// ResolveToplevel resolves the repository root containing path.
func ResolveToplevel(ctx context.Context, path string) (string, error) {
	// #nosec G204 -- fixed git arguments, nothing user-controlled is interpolated
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	if path != "" {
		cmd.Dir = path
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			return "", fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
		}
		return "", fmt.Errorf("running git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// run executes a git command inside the repository and returns its stdout.
// Non-zero exits come back as *CommandError carrying the captured stderr;
// launch failures come back as *CommandError wrapping the exec error.
func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, s.repoPath)

	// #nosec G204 -- arguments for git come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	if s.repoPath != "" {
		cmd.Dir = s.repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			s.debugf("error: %s: %s", command, stderr)
			return "", &CommandError{Command: command, Stderr: stderr, Err: err}
		}
		s.debugf("error: %s: %v", command, err)
		return "", &CommandError{Command: command, Err: err}
	}

	s.debugf("ok: %s", command)
	return string(output), nil
}

// ChangedFiles scans the working tree and returns one normalized record per
// usable status line, in git's output order.
func (s *Service) ChangedFiles(ctx context.Context) ([]models.ChangeRecord, error) {
	out, err := s.run(ctx, "status", "--porcelain=v1")
	if err != nil {
		return nil, err
	}

	var records []models.ChangeRecord
	for line := range strings.SplitSeq(out, "\n") {
		record, ok := models.ParseStatusLine(line)
		if !ok {
			continue
		}
		s.debugf("change: %q %s", string(record.Status), record.Path)
		records = append(records, record)
	}
	return records, nil
}

// ListFiles returns the tracked files under dir, "." meaning the repo root.
// An error is distinct from an empty listing.
func (s *Service) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	out, err := s.run(ctx, "ls-files", dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for line := range strings.SplitSeq(out, "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// StageFile stages a single path.
func (s *Service) StageFile(ctx context.Context, path string) error {
	_, err := s.run(ctx, "add", path)
	return err
}

// StageDirectory stages everything under dir, including deletions.
func (s *Service) StageDirectory(ctx context.Context, dir string) error {
	if dir == "" {
		dir = "."
	}
	_, err := s.run(ctx, "add", "--all", dir)
	return err
}

// Commit records the staged changes with the given message.
func (s *Service) Commit(ctx context.Context, message string) error {
	_, err := s.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes the current branch to origin.
func (s *Service) Push(ctx context.Context) error {
	_, err := s.run(ctx, "push", "origin", "HEAD")
	return err
}

// CurrentBranch returns the checked-out branch name, or an error when HEAD
// is detached.
func (s *Service) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("not currently on a branch (detached HEAD)")
	}
	return branch, nil
}
