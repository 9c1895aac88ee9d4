// Package autosync keeps a working copy synchronized in the background.
//
// Edits are recorded as commit messages in a queue. After a quiet period
// the queue is drained into one consolidated commit, followed by a pull and
// a push. Network steps are retried with exponential backoff; progress is
// reported as a State.
package autosync
