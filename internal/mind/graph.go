package mind

// DefaultGraphID marks the fixed first-meeting graph. The graph pool treats
// ids with this prefix as default and excludes them from random picks.
const DefaultGraphID = "default-first-meet-v1"

// GraphNode is one viewpoint in the discussion graph.
type GraphNode struct {
	ID            string   `json:"id"`
	Title         string   `json:"title,omitempty"`
	UserViewpoint string   `json:"user_viewpoint,omitempty"`
	OurViewpoint  string   `json:"our_viewpoint,omitempty"`
	PotentialNeed []string `json:"potential_need,omitempty"`
	Children      []string `json:"children"`
	IsEnd         bool     `json:"is_end,omitempty"`
}

func (n *GraphNode) clone() *GraphNode {
	if n == nil {
		return nil
	}
	c := *n
	c.PotentialNeed = append([]string(nil), n.PotentialNeed...)
	c.Children = append([]string(nil), n.Children...)
	return &c
}

// Graph is a directed discussion structure with one current pointer.
type Graph struct {
	ID          string                `json:"graph_id"`
	RootID      string                `json:"root_id"`
	Nodes       map[string]*GraphNode `json:"nodes"`
	CurrentID   string                `json:"current_id,omitempty"`
	GeneratedAt string                `json:"generated_at,omitempty"`
}

// NodeView is a defensive copy of the current node, annotated with the
// previous node id so downstream judgment sees lineage without being able to
// mutate graph state.
type NodeView struct {
	GraphNode
	PreviousID string `json:"previous_node_id,omitempty"`
}

// Navigator owns the in-memory graph and its current/previous pointers.
// Not safe for concurrent use on its own; the orchestrator serializes
// access.
type Navigator struct {
	graph      *Graph
	currentID  string
	previousID string
}

// NewNavigator starts on the fixed first-meeting graph.
func NewNavigator() *Navigator {
	n := &Navigator{}
	n.Load(DefaultFirstMeetGraph())
	return n
}

// Load replaces the whole structure. The current pointer resolves from the
// graph's explicit pointer, else the root, else a fresh singleton stub; the
// previous pointer always resets.
func (n *Navigator) Load(g *Graph) {
	if g == nil {
		g = &Graph{}
	}
	if g.Nodes == nil {
		g.Nodes = make(map[string]*GraphNode)
	}

	current := g.CurrentID
	if current == "" {
		current = g.RootID
	}
	if current == "" {
		current = "ROOT"
	}
	if g.RootID == "" {
		g.RootID = current
	}

	n.graph = g
	n.previousID = ""
	n.currentID = current
	n.materialize(current)
}

// materialize is the deliberate get-or-create leniency: an unknown id becomes
// a minimal stub node so traversal can never dead-end.
func (n *Navigator) materialize(id string) *GraphNode {
	if node, ok := n.graph.Nodes[id]; ok {
		return node
	}
	stub := &GraphNode{ID: id, Children: []string{}}
	n.graph.Nodes[id] = stub
	return stub
}

// CurrentNode returns a copy of the current node annotated with lineage.
func (n *Navigator) CurrentNode() NodeView {
	node := n.materialize(n.currentID).clone()
	if node.ID == "" {
		node.ID = n.currentID
	}
	if node.Children == nil {
		node.Children = []string{}
	}
	return NodeView{GraphNode: *node, PreviousID: n.previousID}
}

// Advance moves the current pointer to nodeID, materializing a stub when the
// id is unknown. Empty ids are ignored.
func (n *Navigator) Advance(nodeID string) {
	if nodeID == "" {
		return
	}
	n.previousID = n.currentID
	n.currentID = nodeID
	n.materialize(nodeID)
}

// ApplyMove advances per the advisor's decision. Rebuild is handled one level
// up by the orchestrator; a no-move decision is a no-op.
func (n *Navigator) ApplyMove(d MoveDecision) {
	if !d.Move || d.NextID == "" {
		return
	}
	n.Advance(d.NextID)
}

// Export returns a deep copy of the full structure with the current and root
// pointers guaranteed present. Callers cannot mutate navigator state through
// the returned value.
func (n *Navigator) Export() *Graph {
	out := &Graph{
		ID:          n.graph.ID,
		RootID:      n.graph.RootID,
		CurrentID:   n.currentID,
		GeneratedAt: n.graph.GeneratedAt,
		Nodes:       make(map[string]*GraphNode, len(n.graph.Nodes)),
	}
	for id, node := range n.graph.Nodes {
		out.Nodes[id] = node.clone()
	}
	if out.RootID == "" {
		out.RootID = n.currentID
	}
	return out
}

// PreviousID returns the previous node id, empty before the first advance.
func (n *Navigator) PreviousID() string {
	return n.previousID
}

// DefaultFirstMeetGraph builds the small fixed graph every session starts
// on: feel out the user's state, then settle a main thread for the session.
func DefaultFirstMeetGraph() *Graph {
	return &Graph{
		ID:     DefaultGraphID,
		RootID: "N0",
		Nodes: map[string]*GraphNode{
			"N0": {
				ID:            "N0",
				Title:         "Just met, feel out the mood",
				UserViewpoint: "The user just opened the app and may only be saying hello; their state is unclear.",
				OurViewpoint:  "Get a rough read on how they are doing before deciding between light company and real work.",
				PotentialNeed: []string{"someone listening", "warm up before going deeper"},
				Children:      []string{"N1"},
			},
			"N1": {
				ID:            "N1",
				Title:         "Settle a main thread together",
				UserViewpoint: "The user has shown a clearer direction: venting, debating a viewpoint, or solving a problem.",
				OurViewpoint:  "Pin down what this session is about so a dedicated discussion graph can take over.",
				PotentialNeed: []string{"settle the main thread", "move to a dedicated topic"},
				Children:      []string{},
				IsEnd:         true,
			},
		},
	}
}
