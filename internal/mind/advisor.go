package mind

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// MoveDecision is the advisor's verdict on the current graph position.
// The zero value is the inert default: stay put, no rebuild.
type MoveDecision struct {
	Move    bool   `json:"move"`
	NextID  string `json:"next_node_id"`
	Rebuild bool   `json:"rebuild"`
	Reason  string `json:"reason,omitempty"`
}

// MoveAdvisor asks the judgment capability whether to advance the graph, to
// which child, or whether the whole graph should be rebuilt.
type MoveAdvisor struct {
	provider ai.Provider
}

// NewMoveAdvisor creates a MoveAdvisor.
func NewMoveAdvisor(provider ai.Provider) *MoveAdvisor {
	return &MoveAdvisor{provider: provider}
}

// DecideMove resolves the previous node and the children into full node
// objects (the judgment works on content, not ids) and returns the verdict.
// Any failure returns the inert default: never advance or rebuild on
// uncertainty.
func (a *MoveAdvisor) DecideMove(ctx context.Context, current NodeView, userText, replyText string, snapshot Snapshot, recent []Turn, full *Graph) MoveDecision {
	var previous *GraphNode
	if current.PreviousID != "" {
		if node, ok := full.Nodes[current.PreviousID]; ok {
			previous = node.clone()
		} else {
			previous = &GraphNode{ID: current.PreviousID}
		}
	}

	nextNodes := make([]*GraphNode, 0, len(current.Children))
	for _, id := range current.Children {
		if node, ok := full.Nodes[id]; ok {
			nextNodes = append(nextNodes, node.clone())
		} else {
			nextNodes = append(nextNodes, &GraphNode{ID: id})
		}
	}

	payload := map[string]any{
		"current_node":  current,
		"previous_node": previous,
		"next_nodes":    nextNodes,
		"user_text":     userText,
		"reply_text":    replyText,
		"snapshot":      snapshot,
		"talk_history":  toLines(recent),
		"full_graph":    full,
	}

	raw, err := a.provider.Invoke(ctx, ai.RoleGraphMove, payload, 0.3)
	if err != nil || raw == "" {
		return MoveDecision{}
	}

	var out struct {
		Move    bool   `json:"move"`
		NextID  any    `json:"next_node_id"`
		Rebuild bool   `json:"rebuild"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &out); err != nil {
		log.Debug().Err(err).Msg("move advisor returned unparseable result")
		return MoveDecision{}
	}

	d := MoveDecision{Move: out.Move, Rebuild: out.Rebuild, Reason: out.Reason}
	if s, ok := out.NextID.(string); ok {
		d.NextID = s
	}
	if d.Move && d.NextID == "" {
		d.Move = false
	}
	return d
}
