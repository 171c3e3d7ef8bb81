//go:build integration

package rod_test

import (
	"testing"
	"time"

	gorod "github.com/go-rod/rod"
	"github.com/scopecrawl/scopecrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_RecyclesBrowserAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
	require.NoError(t, err)
	defer manager.Close()

	first := manager.Acquire()
	require.NotNil(t, first)
	manager.Release()
	manager.Acquire()
	manager.Release()
	manager.Acquire()
	manager.Release()

	second := manager.Acquire()
	defer manager.Release()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, manager.Restarts())
}

func TestBrowserManager_DoesNotRecycleBeforeMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
	require.NoError(t, err)
	defer manager.Close()

	first := manager.Acquire()
	require.NotNil(t, first)
	manager.Release()
	manager.Acquire()
	manager.Release()

	same := manager.Acquire()
	defer manager.Release()
	assert.Same(t, first, same)
	assert.Zero(t, manager.Restarts())
}

func TestBrowserManager_RecyclesOnceInFlightPagesDrain(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	defer manager.Close()

	first := manager.Acquire()
	require.NotNil(t, first)

	// A second page overlaps the first and spends the budget.
	overlap := manager.Acquire()
	assert.Same(t, first, overlap)
	manager.Release()

	acquired := make(chan *gorod.Browser, 1)
	go func() {
		acquired <- manager.Acquire()
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire returned while a page was still in flight")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Zero(t, manager.Restarts())

	manager.Release()

	select {
	case recycled := <-acquired:
		defer manager.Release()
		require.NotNil(t, recycled)
		assert.NotSame(t, first, recycled)
		assert.Equal(t, 1, manager.Restarts())
	case <-time.After(30 * time.Second):
		t.Fatal("Acquire did not return after the in-flight page was released")
	}
}

func TestBrowserManager_CloseReleasesWaitingAcquire(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)

	manager.Acquire()
	manager.Acquire()
	manager.Release()

	acquired := make(chan *gorod.Browser, 1)
	go func() {
		acquired <- manager.Acquire()
	}()

	require.NoError(t, manager.Close())

	select {
	case browser := <-acquired:
		assert.Nil(t, browser)
	case <-time.After(5 * time.Second):
		t.Fatal("Acquire stayed blocked after Close")
	}
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}
