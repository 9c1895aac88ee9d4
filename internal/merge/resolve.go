package merge

import (
	"fmt"
	"sort"

	"github.com/christianjann/gittasks/internal/git"
)

// Side names the version a conflicted path was resolved to
type Side int

const (
	// Ours is the local version
	Ours Side = iota
	// Theirs is the incoming version
	Theirs
	// Ancestor is the common ancestor version
	Ancestor
	// Removed means no version exists and the path leaves the index
	Removed
)

func (s Side) String() string {
	switch s {
	case Ours:
		return "ours"
	case Theirs:
		return "theirs"
	case Ancestor:
		return "ancestor"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Resolution records how one conflicted path is settled
type Resolution struct {
	Path string
	Side Side
	// Source is the chosen version, nil when Side is Removed
	Source *git.ConflictSide
	// Discarded holds the versions that lost, used for diagnostics
	Discarded []*git.ConflictSide
}

// pass selects the entries it can settle and the side it settles them to
type pass struct {
	side   Side
	choose func(e git.ConflictEntry) *git.ConflictSide
}

// passes run in precedence order; each only sees paths earlier passes left over
var passes = []pass{
	{Ours, func(e git.ConflictEntry) *git.ConflictSide { return e.Ours }},
	{Theirs, func(e git.ConflictEntry) *git.ConflictSide { return e.Theirs }},
	{Ancestor, func(e git.ConflictEntry) *git.ConflictSide { return e.Ancestor }},
}

// Resolve settles every conflict entry: ours when present, else theirs,
// else the ancestor. Entries without any side are marked Removed. The input
// is not modified; the result is sorted by path.
func Resolve(entries []git.ConflictEntry) []Resolution {
	settled := make(map[string]bool, len(entries))
	resolutions := make([]Resolution, 0, len(entries))

	for _, p := range passes {
		for _, e := range entries {
			if settled[e.Path] {
				continue
			}
			chosen := p.choose(e)
			if chosen == nil {
				continue
			}
			settled[e.Path] = true
			resolutions = append(resolutions, Resolution{
				Path:      e.Path,
				Side:      p.side,
				Source:    chosen,
				Discarded: discarded(e, chosen),
			})
		}
	}

	for _, e := range entries {
		if !settled[e.Path] {
			settled[e.Path] = true
			resolutions = append(resolutions, Resolution{Path: e.Path, Side: Removed})
		}
	}

	sort.Slice(resolutions, func(i, j int) bool { return resolutions[i].Path < resolutions[j].Path })
	return resolutions
}

func discarded(e git.ConflictEntry, chosen *git.ConflictSide) []*git.ConflictSide {
	var out []*git.ConflictSide
	// the ancestor is only a baseline, it is never "lost"
	for _, side := range []*git.ConflictSide{e.Ours, e.Theirs} {
		if side != nil && side != chosen {
			out = append(out, side)
		}
	}
	return out
}
