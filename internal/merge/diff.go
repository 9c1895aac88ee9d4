package merge

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/runtime"
)

// logResolutions writes one line per settled path and, at debug level, the
// content each discarded version would have contributed
func logResolutions(ctx *runtime.Context, resolutions []Resolution) {
	splog := ctx.Splog
	for _, r := range resolutions {
		switch r.Side {
		case Ancestor:
			splog.Warn("Neither side has %s, restoring the common ancestor version", r.Path)
		case Removed:
			splog.Warn("No version of %s left, removing it from the index", r.Path)
		default:
			splog.Info("Conflict in %s resolved with %s version", r.Path, r.Side)
		}
	}

	if !splog.DebugEnabled() {
		return
	}
	for _, r := range resolutions {
		for _, lost := range r.Discarded {
			text, err := discardedDiff(ctx.Repo, r.Path, r.Source, lost)
			if err != nil {
				splog.Debug("Could not diff discarded version of %s: %v", r.Path, err)
				continue
			}
			if text != "" {
				splog.Debug("Discarded changes to %s:\n%s", r.Path, text)
			}
		}
	}
}

// discardedDiff renders a unified diff from the kept version to a discarded one
func discardedDiff(repo *git.Repo, path string, kept, lost *git.ConflictSide) (string, error) {
	keptLines, err := sideLines(repo, kept)
	if err != nil {
		return "", err
	}
	lostLines, err := sideLines(repo, lost)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        keptLines,
		B:        lostLines,
		FromFile: "kept/" + path,
		ToFile:   "discarded/" + path,
		Context:  3,
	})
}

func sideLines(repo *git.Repo, side *git.ConflictSide) ([]string, error) {
	if side == nil {
		return nil, nil
	}
	data, err := repo.ReadBlob(side.ID)
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(string(data)), nil
}
