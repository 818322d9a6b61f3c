package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(nil)
	started := make(chan struct{})
	release := make(chan struct{})

	err := m.StartAsync("loop", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	<-started

	require.Error(t, m.StartAsync("loop", func(ctx context.Context) error { return nil }))

	close(release)
	m.Wait("loop")
	require.False(t, m.Running("loop"))

	// Once the first run has finished, the name is free again.
	require.NoError(t, m.StartAsync("loop", func(ctx context.Context) error { return nil }))
	m.Wait("loop")
}

func TestStopCancelsJobContext(t *testing.T) {
	m := NewManager(nil)
	started := make(chan struct{})

	require.NoError(t, m.StartAsync("loop", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	require.NoError(t, m.Stop("loop"))
	m.Wait("loop")
	require.False(t, m.Running("loop"))

	require.Error(t, m.Stop("loop"))
}

func TestReporterSeesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var events []string
	m := NewManager(func(msg string) {
		mu.Lock()
		events = append(events, msg)
		mu.Unlock()
	})

	require.NoError(t, m.StartAsync("ok", func(ctx context.Context) error { return nil }))
	m.Wait("ok")
	require.NoError(t, m.StartAsync("bad", func(ctx context.Context) error { return errors.New("boom") }))
	m.Wait("bad")

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(events)
		mu.Unlock()
		if n >= 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reporter events did not arrive")
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, events, "running:ok")
	require.Contains(t, events, "done:ok")
	require.Contains(t, events, "running:bad")
	require.Contains(t, events, "error:bad:boom")
}

func TestStopAllCancelsEverything(t *testing.T) {
	m := NewManager(nil)
	var started sync.WaitGroup

	for _, name := range []string{"a", "b", "c"} {
		started.Add(1)
		require.NoError(t, m.StartAsync(name, func(ctx context.Context) error {
			started.Done()
			<-ctx.Done()
			return nil
		}))
	}
	started.Wait()

	m.StopAll()
	for _, name := range []string{"a", "b", "c"} {
		m.Wait(name)
		require.False(t, m.Running(name))
	}
}
