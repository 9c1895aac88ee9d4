package autosync

import "fmt"

// State is the background synchronization status shown to the user
type State int

const (
	// Ok means the last round trip succeeded
	Ok State = iota
	// Pull means a pull is running
	Pull
	// Push means a push is running
	Push
	// Offline means the last network step failed
	Offline
)

func (s State) String() string {
	switch s {
	case Ok:
		return "Ok"
	case Pull:
		return "Pull"
	case Push:
		return "Push"
	case Offline:
		return "Offline"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
