package status

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const gitTimeout = 2 * time.Second

// BranchFunc returns the current branch of the repository at dir.
type BranchFunc func(ctx context.Context, dir string) (string, error)

// GitBranch asks git for the checked-out branch. Detached heads and
// non-repositories yield an empty name.
func GitBranch(ctx context.Context, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "branch", "--show-current")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
