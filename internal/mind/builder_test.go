package mind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"companion/internal/ai"
)

func TestGraphBuilderNormalizesResult(t *testing.T) {
	p := newStubProvider()
	p.replies[ai.RoleGraphGenerate] = "```json\n" +
		`{"nodes": {"A": {"title": "anchor", "children": ["B"]}, "B": null}}` +
		"\n```"
	b := NewGraphBuilder(p, nil)

	g, err := b.Build(context.Background(), "topic", NewSnapshot(), nil)
	require.NoError(t, err)

	require.NotEmpty(t, g.ID)
	require.NotEmpty(t, g.GeneratedAt)
	require.Contains(t, []string{"A", "B"}, g.RootID)
	require.Equal(t, "A", g.Nodes["A"].ID)
	require.NotNil(t, g.Nodes["B"])
	require.Equal(t, "B", g.Nodes["B"].ID)
	require.NotNil(t, g.Nodes["B"].Children)
}

func TestGraphBuilderRejectsUnusableResults(t *testing.T) {
	p := newStubProvider()
	b := NewGraphBuilder(p, nil)

	for _, raw := range []string{"", "no graph here", `{"nodes": {}}`, `{"root_id": "A"}`} {
		p.replies[ai.RoleGraphGenerate] = raw
		_, err := b.Build(context.Background(), "topic", NewSnapshot(), nil)
		require.Error(t, err, "raw %q", raw)
	}
}
