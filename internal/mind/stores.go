package mind

// The persistence collaborator, seen through narrow interfaces so the
// orchestrator can run against in-memory fakes in tests. internal/storage
// provides the file-backed implementation.

// SnapshotStore persists the understanding snapshot.
type SnapshotStore interface {
	Snapshot() (map[string]string, error)
	MergeSnapshot(updates map[string]string) error
}

// TurnStore is the append-only persistent turn log.
type TurnStore interface {
	AppendTurn(t Turn) error
	RecentTurns(n int) ([]Turn, error)
}

// GraphStore persists discussion graphs and serves the fast-forward pool.
type GraphStore interface {
	SaveGraph(g *Graph) error
	LatestGraph() (*Graph, error)
	// RandomNonDefaultGraph picks uniformly among stored graphs whose id is
	// not the default first-meeting graph. Returns nil, nil when the pool is
	// empty.
	RandomNonDefaultGraph() (*Graph, error)
}

// Store bundles everything the orchestrator persists through.
type Store interface {
	SnapshotStore
	TurnStore
	GraphStore
}
