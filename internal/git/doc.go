// Package git is the version control engine behind gittasks.
//
// It combines go-git and the git command line:
//   - go-git for object reads (commits, trees, blobs), history walks, refs
//     and network transport (clone, fetch, push) with pluggable auth
//   - the git CLI, through CommandRunner, for index and working tree
//     mutations go-git does not support (three-way merge, stash, hard reset)
//
// This package should be the only place where git commands are executed.
package git
