package git

import (
	"errors"
	"fmt"
)

// ErrNotGitRepo indicates the path could not be resolved to a git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// CommandError reports a git invocation that exited non-zero. It keeps the
// attempted command line and the captured stderr so failures are actionable
// in logs without re-running anything.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
