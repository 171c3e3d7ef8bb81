//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/scopecrawl/scopecrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alive reports whether a process with pid exists. Signal 0 checks the pid without
// delivering anything.
func alive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_StopsLauncher(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, alive(pid), "launcher should run while the fetcher is open")

	require.NoError(t, fetcher.Close())
	time.Sleep(100 * time.Millisecond)

	assert.False(t, alive(pid), "launcher should exit after Close")
}

func TestBrowserManager_Recycle_StopsOldLauncher(t *testing.T) {
	t.Parallel()

	bm, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bm.Close() })

	first := bm.LauncherPID()
	bm.Acquire()
	bm.Release()

	// The next Acquire restarts the browser because the page budget is spent.
	bm.Acquire()
	bm.Release()
	time.Sleep(100 * time.Millisecond)

	assert.NotEqual(t, first, bm.LauncherPID())
	assert.False(t, alive(first), "replaced launcher should exit")
}
