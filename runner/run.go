package runner

import (
	"errors"
	"slices"

	"github.com/ezrec/asmsim/sim"
)

// arrival is a state waiting at a line, with the edge it came by.
type arrival struct {
	edge  *Edge
	state *sim.State
}

// pending holds the states waiting at each line.
type pending struct {
	order    []int
	arrivals map[int][]arrival
	keys     map[int]sim.Key
}

func newPending() *pending {
	return &pending{
		arrivals: make(map[int][]arrival),
		keys:     make(map[int]sim.Key),
	}
}

func (p *pending) empty() bool {
	return len(p.order) == 0
}

func (p *pending) add(lineno int, a arrival) {
	if _, ok := p.arrivals[lineno]; !ok {
		p.order = append(p.order, lineno)
	}
	p.arrivals[lineno] = append(p.arrivals[lineno], a)
}

// key returns the version shared by every state that will wait at a line
// until it is next taken.
func (p *pending) key(lineno int, tools *sim.Tools) sim.Key {
	key, ok := p.keys[lineno]
	if !ok {
		key = tools.FreshKey()
		p.keys[lineno] = key
	}
	return key
}

func (p *pending) take(lineno int) (list []arrival) {
	list = p.arrivals[lineno]
	delete(p.arrivals, lineno)
	delete(p.keys, lineno)
	p.order = slices.DeleteFunc(p.order, func(n int) bool { return n == lineno })
	return
}

// waits returns true when a state at lineno may still be joined by a
// state now waiting at other: other can reach lineno in the direction of
// the run, without lineno reaching back to other.
func (g *Graph) waits(lineno, other int) bool {
	from, to := other, lineno
	if g.Backward {
		from, to = to, from
	}
	return g.flow.HasCodePath(from, to) && !g.flow.HasCodePath(to, from)
}

// ready picks the next line to process: the first waiting line no other
// waiting line can still reach. Lines inside a loop may all reach each
// other; then the oldest is taken.
func (g *Graph) ready(p *pending) int {
	for _, lineno := range p.order {
		if !slices.ContainsFunc(p.order, func(other int) bool {
			return other != lineno && g.waits(lineno, other)
		}) {
			return lineno
		}
	}
	return p.order[0]
}

// join merges the states waiting at a line into a new node.
func (g *Graph) join(lineno int, list []arrival) (node *Node, err error) {
	var in []*Edge
	var states []*sim.State
	for _, a := range list {
		if a.edge != nil {
			in = append(in, a.edge)
		}
		states = append(states, a.state)
	}

	state, err := sim.MergeAll(states...)
	if err != nil {
		return
	}
	if len(states) > 1 {
		g.logf("merged %d states at line %d", len(states), lineno)
	}

	node = g.addNode(lineno, state, in)
	return
}

// expander continues the run from a node.
type expander func(p *pending, node *Node) error

// run drives a worklist from a root state at a line. final reports lines
// where paths end without executing anything.
func (g *Graph) run(lineno int, root *sim.State, maxSteps int, final func(node *Node) bool, expand expander) (err error) {
	if maxSteps <= 0 {
		maxSteps = g.tools.Config().MaxSteps
	}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				panic(r)
			}
			var already ErrRuntime
			if !errors.As(perr, &already) {
				perr = ErrRuntime{LineNo: g.sourceLine(lineno), Err: perr}
			}
			err = perr
		}
	}()

	p := newPending()
	p.add(lineno, arrival{state: root})

	for steps := 0; !p.empty(); {
		lineno = g.ready(p)

		var node *Node
		node, err = g.join(lineno, p.take(lineno))
		if err != nil {
			err = ErrRuntime{LineNo: g.sourceLine(lineno), Err: err}
			return
		}

		if final(node) {
			continue
		}
		if steps >= maxSteps {
			node.Truncated = true
			g.logf("step limit at line %d", lineno)
			continue
		}
		steps++

		err = expand(p, node)
		if err != nil {
			return
		}
	}

	return
}

// sourceLine returns the source line number of a program line.
func (g *Graph) sourceLine(lineno int) int {
	if line := g.flow.Line(lineno); line != nil {
		return line.LineNo
	}
	return -1
}
