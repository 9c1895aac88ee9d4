package git

import (
	"errors"
	"os"
	"path/filepath"
)

// Marker files and directories git leaves behind while an operation is in progress
var (
	MergeMarkers      = []string{"MERGE_HEAD", "MERGE_MSG", "MERGE_MODE"}
	RebaseMarkers     = []string{"REBASE_HEAD", "rebase-merge", "rebase-apply"}
	CherryPickMarkers = []string{"CHERRY_PICK_HEAD", "sequencer"}
	RevertMarkers     = []string{"REVERT_HEAD", "sequencer"}
)

// HasMarker reports whether the named marker exists in the git directory
func (r *Repo) HasMarker(name string) bool {
	_, err := os.Stat(filepath.Join(r.gitDir, name))
	return err == nil
}

// HasAnyMarker reports whether any of the named markers exist
func (r *Repo) HasAnyMarker(names []string) bool {
	for _, name := range names {
		if r.HasMarker(name) {
			return true
		}
	}
	return false
}

// RemoveMarkers deletes the named markers. Missing markers are ignored.
func (r *Repo) RemoveMarkers(names []string) error {
	var errs []error
	for _, name := range names {
		if err := os.RemoveAll(filepath.Join(r.gitDir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
