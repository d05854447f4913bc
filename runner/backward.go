package runner

import (
	"github.com/ezrec/asmsim/flow"
	"github.com/ezrec/asmsim/semantics"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/tv"
)

// Backward runs a program back from the point before the end line;
// passing fl.NLines() starts at the program exit. Each node holds the
// state before its line as a function of the state at that line. Paths
// reaching the program entry are complete.
//
// A line with several predecessors forks the state over placeholder
// conditions. States arriving at a line share a fresh tail version, so
// merging them binds the placeholders to the real branch conditions.
func Backward(fl *flow.Flow, end, maxSteps int, tools *sim.Tools) (g *Graph, err error) {
	end = fl.Entry(end)
	if end < 0 || end > fl.NLines() {
		err = ErrLineRange
		return
	}

	g = newGraph(fl, tools, true)
	entry := fl.Entry(0)
	final := func(node *Node) bool {
		if node.LineNo == entry {
			node.Complete = true
		}
		return len(fl.Prev(node.LineNo)) == 0
	}
	err = g.run(end, sim.NewState(tools), maxSteps, final, g.backward)
	return
}

// backward executes each predecessor of the line of a node in reverse.
func (g *Graph) backward(p *pending, node *Node) (err error) {
	prevs := g.flow.Prev(node.LineNo)

	forks := []*sim.State{node.State.Copy()}
	if len(prevs) > 1 {
		forks, err = node.State.ForkBackward(len(prevs))
		if err != nil {
			return ErrRuntime{LineNo: g.sourceLine(node.LineNo), Err: err}
		}
	}

	for n, prev := range prevs {
		if err = g.undo(p, node, prev, forks[n]); err != nil {
			return
		}
	}
	return
}

// undo executes the line of an incoming edge in reverse on state, which
// is the state after that line.
func (g *Graph) undo(p *pending, node *Node, prev flow.Edge, state *sim.State) (err error) {
	line := g.flow.Line(prev.LineNo)
	tools := g.tools

	// A conditional move reaches the next line by both of its updates.
	states := []*sim.State{state}
	if line.Mnemonic.IsCmov() && !prev.IsBranch {
		states, err = state.ForkBackward(2)
		if err != nil {
			return ErrRuntime{LineNo: line.LineNo, Err: err}
		}
	}

	key := p.key(prev.LineNo, tools)
	for n, after := range states {
		step := semantics.NewStep(line, tools, key, after.TailKey(), after.TailKey())
		if err = semantics.Apply(step); err != nil {
			return ErrRuntime{LineNo: line.LineNo, Err: err}
		}

		u, ok := step.Regular, step.HasRegular
		isBranch := prev.IsBranch || n == 1
		if isBranch {
			u, ok = step.Branch, step.HasBranch
		}
		if !ok {
			continue
		}

		before := after.Copy()
		if err = before.UpdateBackward(u); err != nil {
			return ErrRuntime{LineNo: line.LineNo, Err: err}
		}

		edge := &Edge{
			From:     node,
			LineNo:   prev.LineNo,
			IsBranch: isBranch,
			Update:   u,
			Before:   before,
			After:    after,
		}
		g.addEdge(edge)

		if before.IsConsistent() == tv.ZERO {
			edge.Pruned = true
			g.logf("line %d: path pruned", prev.LineNo)
			continue
		}

		p.add(prev.LineNo, arrival{edge: edge, state: before})
	}
	return
}
