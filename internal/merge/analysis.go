package merge

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/christianjann/gittasks/internal/git"
)

// Analysis classifies the local branch tip against an incoming commit
type Analysis int

const (
	// UpToDate means the incoming commit is already contained in the branch
	UpToDate Analysis = iota
	// FastForwardable means the branch tip is an ancestor of the incoming commit
	FastForwardable
	// Normal means the histories diverged and need a three-way merge
	Normal
	// Unborn means the branch has no commits yet
	Unborn
)

func (a Analysis) String() string {
	switch a {
	case UpToDate:
		return "UpToDate"
	case FastForwardable:
		return "FastForwardable"
	case Normal:
		return "Normal"
	case Unborn:
		return "Unborn"
	default:
		return fmt.Sprintf("Analysis(%d)", int(a))
	}
}

// Analyze compares the tip of branch with incoming. It also returns the local
// tip, which is zero for an unborn branch.
func Analyze(repo *git.Repo, branch string, incoming plumbing.Hash) (Analysis, plumbing.Hash, error) {
	local, ok, err := repo.BranchTip(branch)
	if err != nil {
		return Normal, plumbing.ZeroHash, err
	}
	if !ok {
		return Unborn, plumbing.ZeroHash, nil
	}
	if incoming.IsZero() || local == incoming {
		return UpToDate, local, nil
	}

	contained, err := repo.IsAncestor(incoming, local)
	if err != nil {
		return Normal, local, err
	}
	if contained {
		return UpToDate, local, nil
	}

	ff, err := repo.IsAncestor(local, incoming)
	if err != nil {
		return Normal, local, err
	}
	if ff {
		return FastForwardable, local, nil
	}
	return Normal, local, nil
}
