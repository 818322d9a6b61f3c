package mind

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// GraphBuilder synthesizes a brand-new discussion graph from conversation
// context when the advisor signals a rebuild.
type GraphBuilder struct {
	provider ai.Provider
	graphs   GraphStore
}

// NewGraphBuilder creates a GraphBuilder. graphs may be nil; built graphs are
// then not persisted.
func NewGraphBuilder(provider ai.Provider, graphs GraphStore) *GraphBuilder {
	return &GraphBuilder{provider: provider, graphs: graphs}
}

// Build generates a new graph and saves it to the pool. Returns an error when
// the capability fails or the result is not a usable graph.
func (b *GraphBuilder) Build(ctx context.Context, userText string, snapshot Snapshot, recent []Turn) (*Graph, error) {
	payload := map[string]any{
		"user_text":    userText,
		"snapshot":     snapshot,
		"talk_history": toLines(recent),
	}

	raw, err := b.provider.Invoke(ctx, ai.RoleGraphGenerate, payload, 0.4)
	if err != nil {
		return nil, fmt.Errorf("generate graph: %w", err)
	}
	if raw == "" {
		return nil, fmt.Errorf("generate graph: empty result")
	}

	jsonStr := ai.ExtractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("generate graph: no JSON boundary in result")
	}

	var g Graph
	if err := json.Unmarshal([]byte(jsonStr), &g); err != nil {
		return nil, fmt.Errorf("generate graph: %w", err)
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("generate graph: result has no nodes")
	}

	// Node ids in the map must match the node bodies.
	for id, node := range g.Nodes {
		if node == nil {
			g.Nodes[id] = &GraphNode{ID: id, Children: []string{}}
			continue
		}
		if node.ID == "" {
			node.ID = id
		}
		if node.Children == nil {
			node.Children = []string{}
		}
	}
	if g.RootID == "" {
		g.RootID = firstNodeID(g.Nodes)
	}
	if g.ID == "" {
		g.ID = "graph-" + uuid.NewString()
	}
	g.GeneratedAt = time.Now().Format("2006-01-02_15-04-05")

	if b.graphs != nil {
		if err := b.graphs.SaveGraph(&g); err != nil {
			log.Warn().Err(err).Str("graph", g.ID).Msg("could not persist generated graph")
		}
	}

	return &g, nil
}

func firstNodeID(nodes map[string]*GraphNode) string {
	for id := range nodes {
		return id
	}
	return "ROOT"
}
