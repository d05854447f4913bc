package runner

import (
	"github.com/ezrec/asmsim/flow"
	"github.com/ezrec/asmsim/semantics"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/tv"
)

// Forward runs a program from the start line until every path ends or
// maxSteps lines have been executed. A maxSteps of zero or less uses the
// limit of the run configuration.
//
// States that reach a line by different paths are merged once no other
// waiting state can still get there. Branches fork the state, and paths
// the solver proves impossible are dropped.
func Forward(fl *flow.Flow, start, maxSteps int, tools *sim.Tools) (g *Graph, err error) {
	start = fl.Entry(start)
	if start < 0 || start > fl.NLines() {
		err = ErrLineRange
		return
	}

	g = newGraph(fl, tools, false)
	exit := fl.NLines()
	final := func(node *Node) bool {
		if node.LineNo == exit {
			node.Complete = true
			return true
		}
		return false
	}
	err = g.run(start, sim.NewState(tools), maxSteps, final, g.forward)
	return
}

// forward executes the line of a node.
func (g *Graph) forward(p *pending, node *Node) (err error) {
	line := g.flow.Line(node.LineNo)
	state := node.State
	tools := g.tools

	step := semantics.NewStep(line, tools, state.HeadKey(), tools.FreshKey(), tools.FreshKey())
	step.Resolve = state.ResolveBV
	if err = semantics.Apply(step); err != nil {
		return ErrRuntime{LineNo: line.LineNo, Err: err}
	}

	if !step.HasRegular && !step.HasBranch {
		node.Complete = true
		g.logf("path ends at line %d", node.LineNo)
		return
	}

	regular, branch := g.flow.Next(node.LineNo)
	if branch < 0 {
		// A conditional move continues at the next line either way.
		branch = regular
	}
	if step.HasRegular {
		if err = g.follow(p, node, step.Regular, regular, false); err != nil {
			return
		}
	}
	if step.HasBranch {
		if err = g.follow(p, node, step.Branch, branch, true); err != nil {
			return
		}
	}
	return
}

// follow applies an update to the state of a node and queues the result
// at the target line.
func (g *Graph) follow(p *pending, node *Node, u *sim.StateUpdate, target int, isBranch bool) (err error) {
	after := node.State.Copy()
	if err = after.UpdateForward(u); err != nil {
		return ErrRuntime{LineNo: g.sourceLine(node.LineNo), Err: err}
	}

	edge := &Edge{
		From:     node,
		LineNo:   node.LineNo,
		IsBranch: isBranch,
		Update:   u,
		Before:   node.State,
		After:    after,
	}
	g.addEdge(edge)

	if target < 0 || after.IsConsistent() == tv.ZERO {
		edge.Pruned = true
		g.logf("line %d: path pruned", node.LineNo)
		return
	}

	p.add(target, arrival{edge: edge, state: after})
	return
}
