// Package jobmgr runs named, cancellable background jobs with in-memory
// tracking. Jobs run in their own goroutine and remove themselves on
// completion; Stop cancels a job's context without waiting for it to drain.
package jobmgr

import (
	"context"
	"fmt"
	"sync"
)

// StatusReporter receives lifecycle events, e.g. "running:tick-loop".
type StatusReporter func(string)

type job struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager starts, stops and tracks jobs. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	Reporter StatusReporter
}

// NewManager creates a Manager. The reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		Reporter: reporter,
	}
}

func (m *Manager) report(msg string) {
	if m.Reporter != nil {
		m.Reporter(msg)
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// A second job with the same name is rejected while the first is running.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job %q is already running", name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{name: name, cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.mu.Unlock()

	m.report("running:" + name)

	go func() {
		defer close(j.done)
		err := runner(ctx)

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()

		if err != nil && ctx.Err() == nil {
			m.report("error:" + name + ":" + err.Error())
			return
		}
		m.report("done:" + name)
	}()

	return nil
}

// Stop cancels the named job. It does not wait for the job to exit; use
// Wait when shutdown must block on completion.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q is not running", name)
	}
	j.cancel()
	return nil
}

// Wait blocks until the named job finishes. Returns immediately when the job
// is not running.
func (m *Manager) Wait(name string) {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if ok {
		<-j.done
	}
}

// Running reports whether the named job is active.
func (m *Manager) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for _, j := range m.jobs {
		j.cancel()
	}
	m.mu.Unlock()
}
