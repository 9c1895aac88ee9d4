package autosync

import (
	"fmt"
	"strings"
)

// DefaultMessage is used when a commit is made with no recorded message
const DefaultMessage = "gittasks changes"

// ConsolidateMessages folds queued messages into one commit message. A single
// message is kept verbatim; several become a counted subject and a list body.
func ConsolidateMessages(messages []string) string {
	switch len(messages) {
	case 0:
		return DefaultMessage
	case 1:
		return messages[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d operations)\n\n", DefaultMessage, len(messages))
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(m)
	}
	return b.String()
}
