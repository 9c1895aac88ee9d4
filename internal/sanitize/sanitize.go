// Package sanitize detects and heals a repository left mid-operation.
//
// Healing is a fixed, ordered list of steps. Each step checks for one kind
// of inconsistency and heals it; a failing step is logged and recorded, and
// the remaining steps still run. Running the sanitizer on a clean
// repository changes nothing.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/christianjann/gittasks/internal/git"
	"github.com/christianjann/gittasks/internal/runtime"
)

// State is an in-progress or inconsistent condition of a repository
type State int

// Repository states, derived from marker files and the index on every call
const (
	Clean State = iota
	MergeInProgress
	RebaseInProgress
	CherryPickInProgress
	RevertInProgress
	IndexConflicted
	WorkingTreeDirty
)

func (s State) String() string {
	switch s {
	case Clean:
		return "Clean"
	case MergeInProgress:
		return "MergeInProgress"
	case RebaseInProgress:
		return "RebaseInProgress"
	case CherryPickInProgress:
		return "CherryPickInProgress"
	case RevertInProgress:
		return "RevertInProgress"
	case IndexConflicted:
		return "IndexConflicted"
	case WorkingTreeDirty:
		return "WorkingTreeDirty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// step pairs a check with its heal action
type step struct {
	state State
	check func(ctx *runtime.Context) (bool, error)
	heal  func(ctx *runtime.Context) error
}

func markerStep(state State, markers []string) step {
	return step{
		state: state,
		check: func(ctx *runtime.Context) (bool, error) {
			return ctx.Repo.HasAnyMarker(markers), nil
		},
		heal: func(ctx *runtime.Context) error {
			return ctx.Repo.RemoveMarkers(markers)
		},
	}
}

// steps run in this order; index conflicts are reset before the dirty check
var steps = []step{
	markerStep(MergeInProgress, git.MergeMarkers),
	markerStep(RebaseInProgress, git.RebaseMarkers),
	markerStep(CherryPickInProgress, git.CherryPickMarkers),
	markerStep(RevertInProgress, git.RevertMarkers),
	{
		state: IndexConflicted,
		check: func(ctx *runtime.Context) (bool, error) {
			return ctx.Repo.HasConflicts(ctx.Context)
		},
		heal: resetToHead,
	},
	{
		state: WorkingTreeDirty,
		check: func(ctx *runtime.Context) (bool, error) {
			return ctx.Repo.HasTrackedChanges(ctx.Context)
		},
		heal: resetToHead,
	},
}

func resetToHead(ctx *runtime.Context) error {
	_, born, err := ctx.Repo.HeadHash()
	if err != nil {
		return err
	}
	if !born {
		// nothing to reset to yet
		return nil
	}
	return ctx.Repo.HardReset(ctx.Context, "HEAD")
}

// Report describes one sanitizer pass
type Report struct {
	// Found lists the states detected, in step order
	Found []State
	// Healed lists the states whose heal step succeeded
	Healed []State
	// Failures maps a state to the error its check or heal returned
	Failures map[State]error
}

// Clean reports whether the pass found nothing to heal
func (r *Report) Clean() bool {
	return len(r.Found) == 0 && len(r.Failures) == 0
}

func (r *Report) String() string {
	if r.Clean() {
		return "repository clean"
	}
	parts := make([]string, 0, len(r.Found))
	for _, s := range r.Found {
		if err, failed := r.Failures[s]; failed {
			parts = append(parts, fmt.Sprintf("%s (failed: %v)", s, err))
		} else {
			parts = append(parts, s.String()+" (healed)")
		}
	}
	return strings.Join(parts, ", ")
}

// Run executes every healing step in order. Failures of individual steps are
// logged and recorded in the report; they never stop the pass. The returned
// error is non-nil only when HEAD itself cannot be read.
func Run(ctx *runtime.Context) (*Report, error) {
	splog := ctx.Splog
	report := &Report{Failures: map[State]error{}}

	if _, _, err := ctx.Repo.HeadHash(); err != nil {
		return report, err
	}

	for _, s := range steps {
		found, err := s.check(ctx)
		if err != nil {
			splog.Warn("Could not check for %s: %v", s.state, err)
			report.Failures[s.state] = err
			continue
		}
		if !found {
			continue
		}

		report.Found = append(report.Found, s.state)
		splog.Debug("Healing %s", s.state)
		if err := s.heal(ctx); err != nil {
			splog.Warn("Could not heal %s: %v", s.state, err)
			report.Failures[s.state] = err
			continue
		}
		report.Healed = append(report.Healed, s.state)
	}

	if !report.Clean() {
		splog.Info("Repository cleanup: %s", report)
	}
	return report, nil
}

// Inspect returns every state currently present without changing anything.
// A repository with nothing to heal yields []State{Clean}.
func Inspect(ctx *runtime.Context) ([]State, error) {
	var states []State
	seen := map[State]bool{}
	for _, s := range steps {
		found, err := s.check(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check for %s: %w", s.state, err)
		}
		if found && !seen[s.state] {
			seen[s.state] = true
			states = append(states, s.state)
		}
	}
	if len(states) == 0 {
		return []State{Clean}, nil
	}
	return states, nil
}
