// Package runner executes a program symbolically along its control flow,
// forward from a start line or backward from an end line.
package runner

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/emicklei/dot"

	"github.com/ezrec/asmsim/flow"
	"github.com/ezrec/asmsim/sim"
)

// Node is the state of the paths that reach a line together.
type Node struct {
	ID     int
	LineNo int        // Program line about to execute, or the exit line.
	State  *sim.State // State before the line.
	In     []*Edge
	Out    []*Edge

	Complete  bool // The state covers whole paths of the program.
	Truncated bool // The step budget ran out before the node was expanded.
}

// Edge is one execution of a line.
type Edge struct {
	From, To *Node // To is nil while pending, and for pruned paths.
	LineNo   int   // Program line executed.
	IsBranch bool
	Update   *sim.StateUpdate
	Before   *sim.State // State before the line.
	After    *sim.State // State after the line.
	Pruned   bool       // No path takes the edge.
}

// Graph is the execution of a program.
type Graph struct {
	Backward bool // Built by Backward.

	flow  *flow.Flow
	tools *sim.Tools
	nodes []*Node
	edges []*Edge
}

func newGraph(fl *flow.Flow, tools *sim.Tools, backward bool) *Graph {
	return &Graph{
		Backward: backward,
		flow:     fl,
		tools:    tools,
	}
}

// Flow returns the static flow the graph follows.
func (g *Graph) Flow() *flow.Flow {
	return g.flow
}

// Tools returns the run context of the graph.
func (g *Graph) Tools() *sim.Tools {
	return g.tools
}

// Nodes returns every node in creation order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Root returns the node the run started from.
func (g *Graph) Root() *Node {
	if len(g.nodes) == 0 {
		return nil
	}
	return g.nodes[0]
}

func (g *Graph) logf(format string, args ...any) {
	if g.tools.Verbose() {
		log.Printf("runner: "+format, args...)
	}
}

// StatesBefore returns the states reaching a line.
func (g *Graph) StatesBefore(lineno int) (states []*sim.State) {
	for _, node := range g.nodes {
		if node.LineNo == lineno {
			states = append(states, node.State)
		}
	}
	return
}

// StatesAfter returns the states left by each execution of a line.
func (g *Graph) StatesAfter(lineno int) (states []*sim.State) {
	for _, edge := range g.edges {
		if edge.LineNo == lineno && !edge.Pruned {
			states = append(states, edge.After)
		}
	}
	return
}

// Leaves returns the nodes no execution continues from.
func (g *Graph) Leaves() (leaves []*Node) {
	for _, node := range g.nodes {
		if !slices.ContainsFunc(node.Out, func(edge *Edge) bool { return edge.To != nil }) {
			leaves = append(leaves, node)
		}
	}
	return
}

// EndState merges the states of the complete nodes: for a forward run the
// states at the program ends, for a backward run the states at the
// program entry.
func (g *Graph) EndState() (state *sim.State, err error) {
	var states []*sim.State
	for _, node := range g.nodes {
		if node.Complete {
			states = append(states, node.State)
		}
	}
	if len(states) == 0 {
		err = ErrNoEndState
		return
	}
	return sim.MergeAll(states...)
}

func (g *Graph) addNode(lineno int, state *sim.State, in []*Edge) *Node {
	node := &Node{
		ID:     len(g.nodes),
		LineNo: lineno,
		State:  state,
		In:     in,
	}
	for _, edge := range in {
		edge.To = node
	}
	state.LineNo = lineno
	g.nodes = append(g.nodes, node)
	return node
}

func (g *Graph) addEdge(edge *Edge) {
	edge.From.Out = append(edge.From.Out, edge)
	g.edges = append(g.edges, edge)
}

func (g *Graph) lineName(lineno int) string {
	if lineno == g.flow.NLines() {
		return "exit"
	}
	return fmt.Sprintf("%d: %v", lineno, g.flow.LineString(lineno))
}

func (g *Graph) String() string {
	var sb strings.Builder
	for _, node := range g.nodes {
		fmt.Fprintf(&sb, "Node %d at line %v", node.ID, g.lineName(node.LineNo))
		switch {
		case node.Complete:
			sb.WriteString(" [complete]")
		case node.Truncated:
			sb.WriteString(" [truncated]")
		}
		sb.WriteString("\n")
		sb.WriteString(node.State.String())
		for _, edge := range node.Out {
			kind := "continue"
			if edge.IsBranch {
				kind = "branch"
			}
			switch {
			case edge.Pruned:
				fmt.Fprintf(&sb, "-> line %d %v: pruned\n", edge.LineNo, kind)
			case edge.To != nil:
				fmt.Fprintf(&sb, "-> line %d %v: node %d\n", edge.LineNo, kind, edge.To.ID)
			}
		}
	}
	return sb.String()
}

// Dot renders the graph as a Graphviz digraph. Edges point in the
// direction of the run.
func (g *Graph) Dot() string {
	dg := dot.NewGraph(dot.Directed)
	dg.Attr("label", g.tools.RunID.String())

	nodes := make([]dot.Node, len(g.nodes))
	for n, node := range g.nodes {
		label := fmt.Sprintf("#%d %v", node.ID, g.lineName(node.LineNo))
		dn := dg.Node(fmt.Sprintf("N%d", node.ID)).Box().Label(label)
		switch {
		case node.Complete:
			dn.Attr("peripheries", "2")
		case node.Truncated:
			dn.Attr("style", "dotted")
		}
		nodes[n] = dn
	}

	for _, edge := range g.edges {
		if edge.To == nil {
			continue
		}
		tag := "R"
		if edge.IsBranch {
			tag = "B"
		}
		e := dg.Edge(nodes[edge.From.ID], nodes[edge.To.ID], fmt.Sprintf("%d%v", edge.LineNo, tag))
		if edge.IsBranch {
			e.Dashed()
		}
	}

	return dg.String()
}
