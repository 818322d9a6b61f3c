// Package storage persists the companion's snapshot, turn log and graph pool
// in a single JSON datastore file. The core depends on the narrow interfaces
// in internal/mind, not on this package.
package storage

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/keshon/datastore"

	"companion/internal/mind"
)

const (
	keySnapshot = "snapshot"
	keyTurns    = "turns"
	keyGraphs   = "graphs"

	turnLogLimit = 500
)

// Storage implements mind.Store on top of a file-backed datastore.
type Storage struct {
	ds *datastore.DataStore
}

// New opens (or creates) the datastore file at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// decode round-trips a datastore value into out. The datastore hands back
// map[string]any after a reload, so typed reads go through JSON.
func decode(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal stored value: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal stored value: %w", err)
	}
	return nil
}

// Snapshot returns the stored understanding snapshot, empty when none.
func (s *Storage) Snapshot() (map[string]string, error) {
	value, ok := s.ds.Get(keySnapshot)
	if !ok {
		return map[string]string{}, nil
	}
	snap := map[string]string{}
	if err := decode(value, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// MergeSnapshot overwrites the given attributes, keeping the rest.
func (s *Storage) MergeSnapshot(updates map[string]string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	for k, v := range updates {
		snap[k] = v
	}
	s.ds.Add(keySnapshot, snap)
	return nil
}

// AppendTurn appends to the persistent turn log, trimming old entries.
func (s *Storage) AppendTurn(t mind.Turn) error {
	turns, err := s.allTurns()
	if err != nil {
		return err
	}
	turns = append(turns, t)
	if len(turns) > turnLogLimit {
		turns = turns[len(turns)-turnLogLimit:]
	}
	s.ds.Add(keyTurns, turns)
	return nil
}

// RecentTurns returns the most recent n turns, oldest first.
func (s *Storage) RecentTurns(n int) ([]mind.Turn, error) {
	turns, err := s.allTurns()
	if err != nil {
		return nil, err
	}
	if n <= 0 || len(turns) == 0 {
		return nil, nil
	}
	if n > len(turns) {
		n = len(turns)
	}
	return turns[len(turns)-n:], nil
}

func (s *Storage) allTurns() ([]mind.Turn, error) {
	value, ok := s.ds.Get(keyTurns)
	if !ok {
		return nil, nil
	}
	var turns []mind.Turn
	if err := decode(value, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// SaveGraph stores g in the pool, keyed by its id.
func (s *Storage) SaveGraph(g *mind.Graph) error {
	if g == nil || g.ID == "" {
		return fmt.Errorf("graph must have an id")
	}
	graphs, err := s.allGraphs()
	if err != nil {
		return err
	}
	graphs[g.ID] = g
	s.ds.Add(keyGraphs, graphs)
	return nil
}

// LatestGraph returns the most recently generated graph, nil when the pool
// is empty. Generation stamps sort lexicographically.
func (s *Storage) LatestGraph() (*mind.Graph, error) {
	graphs, err := s.allGraphs()
	if err != nil {
		return nil, err
	}
	var latest *mind.Graph
	for _, g := range graphs {
		if latest == nil || g.GeneratedAt > latest.GeneratedAt {
			latest = g
		}
	}
	return latest, nil
}

// RandomNonDefaultGraph picks uniformly among stored graphs that are not the
// default first-meeting graph. Returns nil, nil when there is none.
func (s *Storage) RandomNonDefaultGraph() (*mind.Graph, error) {
	graphs, err := s.allGraphs()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(graphs))
	for id := range graphs {
		if strings.HasPrefix(strings.ToLower(id), "default") {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)
	return graphs[ids[rand.Intn(len(ids))]], nil
}

func (s *Storage) allGraphs() (map[string]*mind.Graph, error) {
	value, ok := s.ds.Get(keyGraphs)
	if !ok {
		return map[string]*mind.Graph{}, nil
	}
	graphs := map[string]*mind.Graph{}
	if err := decode(value, &graphs); err != nil {
		return nil, err
	}
	return graphs, nil
}
