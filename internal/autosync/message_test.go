package autosync_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christianjann/gittasks/internal/autosync"
)

func TestConsolidateMessages(t *testing.T) {
	require.Equal(t, "gittasks changes", autosync.ConsolidateMessages(nil))
	require.Equal(t, "Update todo.md", autosync.ConsolidateMessages([]string{"Update todo.md"}))
	require.Equal(t,
		"gittasks changes (3 operations)\n\n- change 1\n- change 2\n- change 3",
		autosync.ConsolidateMessages([]string{"change 1", "change 2", "change 3"}),
	)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "Ok", autosync.Ok.String())
	require.Equal(t, "Pull", autosync.Pull.String())
	require.Equal(t, "Push", autosync.Push.String())
	require.Equal(t, "Offline", autosync.Offline.String())
}
