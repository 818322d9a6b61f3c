package mind

import (
	"context"
	"sync"
)

// stubProvider answers by role, so each judgment call site can be scripted
// independently.
type stubProvider struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		replies: map[string]string{},
		errs:    map[string]error{},
	}
}

func (s *stubProvider) Invoke(_ context.Context, role string, _ any, _ float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, role)
	if err, ok := s.errs[role]; ok {
		return "", err
	}
	return s.replies[role], nil
}

func (s *stubProvider) callCount(role string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == role {
			n++
		}
	}
	return n
}

// memStore is an in-memory mind.Store for orchestrator tests.
type memStore struct {
	snapshot map[string]string
	turns    []Turn
	graphs   map[string]*Graph
	pool     *Graph // returned by RandomNonDefaultGraph
}

func newMemStore() *memStore {
	return &memStore{
		snapshot: map[string]string{},
		graphs:   map[string]*Graph{},
	}
}

func (m *memStore) Snapshot() (map[string]string, error) { return m.snapshot, nil }

func (m *memStore) MergeSnapshot(updates map[string]string) error {
	for k, v := range updates {
		m.snapshot[k] = v
	}
	return nil
}

func (m *memStore) AppendTurn(t Turn) error {
	m.turns = append(m.turns, t)
	return nil
}

func (m *memStore) RecentTurns(n int) ([]Turn, error) {
	if n > len(m.turns) {
		n = len(m.turns)
	}
	return m.turns[len(m.turns)-n:], nil
}

func (m *memStore) SaveGraph(g *Graph) error {
	m.graphs[g.ID] = g
	return nil
}

func (m *memStore) LatestGraph() (*Graph, error) { return nil, nil }

func (m *memStore) RandomNonDefaultGraph() (*Graph, error) { return m.pool, nil }
