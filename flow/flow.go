// Package flow builds the static control flow graph of an assembly
// program.
package flow

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/emicklei/dot"

	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/semantics"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/x86"
)

// MAX_LINES is the number of program lines analyzed.
const MAX_LINES = 200

// Edge is an incoming control flow edge.
type Edge struct {
	LineNo   int  // Line the control comes from.
	IsBranch bool // Taken by a jump rather than by falling through.
}

// Flow is the static control flow of a program. Lines are numbered from 0
// to NLines()-1; line NLines() is the exit of the program.
type Flow struct {
	Verbose bool // If set, logs graph rewrites.

	lines   []asm.Line
	regular []int // Fall through successor, or -1.
	branch  []int // Jump successor, or -1.
	prev    [][]Edge
	entry   map[int]int // Lines removed by Compact.
}

// New builds the flow of a program. Jumps to missing labels are errors.
// Predecessor edges keep the order they were linked in; a jump links its
// branch edge before its fall through edge.
func New(prog *asm.Program) (flow *Flow, err error) {
	lines := prog.Lines
	if len(lines) > MAX_LINES {
		lines = lines[:MAX_LINES]
	}

	n := len(lines)
	flow = &Flow{
		lines:   slices.Clone(lines),
		regular: make([]int, n),
		branch:  make([]int, n),
		prev:    make([][]Edge, n+1),
		entry:   make(map[int]int),
	}

	for lineno := range flow.lines {
		line := &flow.lines[lineno]
		flow.regular[lineno] = -1
		flow.branch[lineno] = -1

		mn := line.Mnemonic
		if mn.IsJump() {
			var target int
			target, err = flow.target(prog, line)
			if err != nil {
				flow = nil
				return
			}
			flow.link(lineno, target, true)
		}
		if !mn.IsTerminal() && mn != x86.MN_JMP {
			flow.link(lineno, lineno+1, false)
		}
	}

	return
}

// Parse assembles program text and builds its flow.
func Parse(text string) (flow *Flow, err error) {
	prog, err := asm.ParseString(text)
	if err != nil {
		return
	}
	return New(prog)
}

// target returns the line a jump goes to.
func (flow *Flow) target(prog *asm.Program, line *asm.Line) (target int, err error) {
	target = line.Target
	if target < 0 {
		var label string
		for _, op := range line.Operands {
			if op.Kind == asm.KIND_LABEL {
				label = op.Label
			}
		}
		var ok bool
		target, ok = prog.Labels[label]
		if !ok {
			err = &asm.ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: asm.ErrLabelMissing(label)}
			return
		}
	}
	if target > len(flow.lines) {
		err = &asm.ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: ErrTargetRange}
	}
	return
}

func (flow *Flow) link(from, to int, isBranch bool) {
	if isBranch {
		flow.branch[from] = to
	} else {
		flow.regular[from] = to
	}
	edge := Edge{LineNo: from, IsBranch: isBranch}
	if !slices.Contains(flow.prev[to], edge) {
		flow.prev[to] = append(flow.prev[to], edge)
	}
}

func (flow *Flow) unlink(from, to int, isBranch bool) {
	flow.prev[to] = slices.DeleteFunc(flow.prev[to], func(edge Edge) bool {
		return edge.LineNo == from && edge.IsBranch == isBranch
	})
}

// NLines returns the number of analyzed lines.
func (flow *Flow) NLines() int {
	return len(flow.lines)
}

// HasLine returns true when lineno is a program line.
func (flow *Flow) HasLine(lineno int) bool {
	return lineno >= 0 && lineno < len(flow.lines)
}

// Line returns a program line, or nil.
func (flow *Flow) Line(lineno int) *asm.Line {
	if !flow.HasLine(lineno) {
		return nil
	}
	return &flow.lines[lineno]
}

// LineString returns the text of a program line.
func (flow *Flow) LineString(lineno int) string {
	line := flow.Line(lineno)
	if line == nil {
		return ""
	}
	return line.String()
}

// Next returns the successors of a line. Either is -1 when absent.
func (flow *Flow) Next(lineno int) (regular, branch int) {
	if !flow.HasLine(lineno) {
		return -1, -1
	}
	return flow.regular[lineno], flow.branch[lineno]
}

// Prev returns the incoming edges of a line, including the exit line.
func (flow *Flow) Prev(lineno int) []Edge {
	if lineno < 0 || lineno >= len(flow.prev) {
		return nil
	}
	return flow.prev[lineno]
}

// IsBranchPoint returns true for a line with two successors.
func (flow *Flow) IsBranchPoint(lineno int) bool {
	regular, branch := flow.Next(lineno)
	return regular >= 0 && branch >= 0
}

// IsMergePoint returns true for a line reached by more than one edge.
func (flow *Flow) IsMergePoint(lineno int) bool {
	return len(flow.Prev(lineno)) > 1
}

// IsLoopBranchPoint returns true for a branch point where exactly one
// successor leads back to it. branchExits is true when the branch leaves
// the loop.
func (flow *Flow) IsLoopBranchPoint(lineno int) (isLoop bool, branchExits bool) {
	if !flow.IsBranchPoint(lineno) {
		return
	}
	regular, branch := flow.Next(lineno)
	loopRegular := flow.HasCodePath(regular, lineno)
	loopBranch := flow.HasCodePath(branch, lineno)
	switch {
	case loopBranch && !loopRegular:
		isLoop = true
	case loopRegular && !loopBranch:
		isLoop, branchExits = true, true
	}
	return
}

// IsLoopMergePoint returns true for a merge point that a predecessor
// reaches by going around a loop. loopLine is the last such predecessor.
func (flow *Flow) IsLoopMergePoint(lineno int) (isLoop bool, loopLine int) {
	if !flow.IsMergePoint(lineno) {
		return
	}
	for _, edge := range flow.Prev(lineno) {
		if flow.HasCodePath(lineno, edge.LineNo) {
			isLoop, loopLine = true, edge.LineNo
		}
	}
	return
}

// reach marks every line reachable from lineno, itself included. The exit
// line is marked when reached.
func (flow *Flow) reach(lineno int) []bool {
	seen := make([]bool, len(flow.lines)+1)
	work := []int{lineno}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n < 0 || n > len(flow.lines) || seen[n] {
			continue
		}
		seen[n] = true
		regular, branch := flow.Next(n)
		work = append(work, regular, branch)
	}
	return seen
}

// HasCodePath returns true when control can go from one line to another.
// Every line has a path to itself.
func (flow *Flow) HasCodePath(from, to int) bool {
	if from < 0 || to < 0 || to > len(flow.lines) {
		return false
	}
	return flow.reach(from)[to]
}

// FutureLineNumbers returns the program lines reachable from lineno, in
// increasing order.
func (flow *Flow) FutureLineNumbers(lineno int) (lines []int) {
	if !flow.HasLine(lineno) {
		return
	}
	for n, ok := range flow.reach(lineno)[:len(flow.lines)] {
		if ok {
			lines = append(lines, n)
		}
	}
	return
}

// StateConfig returns the locations used by the lines from begin to end,
// inclusive.
func (flow *Flow) StateConfig(begin, end int) (sc sim.StateConfig, err error) {
	if !flow.HasLine(begin) || !flow.HasLine(end) || begin > end {
		err = ErrLineRange
		return
	}
	sc = semantics.Usage(flow.lines[begin : end+1])
	return
}

// Compact removes empty and label only lines from the paths of the
// program: their incoming edges go to the next line with an instruction,
// and they lose their own successor. Entry still maps them to the line
// where execution continues.
func (flow *Flow) Compact() {
	targets := make(map[int]int)
	for lineno := range flow.lines {
		if flow.lines[lineno].IsEmpty() {
			targets[lineno] = flow.skip(lineno)
		}
	}

	for lineno := range flow.lines {
		to, ok := targets[lineno]
		if !ok {
			continue
		}
		for _, edge := range slices.Clone(flow.prev[lineno]) {
			from := edge.LineNo
			if _, elided := targets[from]; elided {
				continue
			}
			flow.unlink(from, lineno, edge.IsBranch)
			flow.link(from, to, edge.IsBranch)
			if flow.Verbose {
				log.Printf("flow: edge %d->%d now %d->%d", from, lineno, from, to)
			}
		}
	}

	for lineno, to := range targets {
		if next := flow.regular[lineno]; next >= 0 {
			flow.unlink(lineno, next, false)
		}
		flow.prev[lineno] = nil
		flow.regular[lineno] = -1
		flow.entry[lineno] = to
	}
}

// skip follows fall through edges over empty lines.
func (flow *Flow) skip(lineno int) int {
	seen := make(map[int]bool)
	for flow.HasLine(lineno) && flow.lines[lineno].IsEmpty() && !seen[lineno] {
		seen[lineno] = true
		next := flow.regular[lineno]
		if next < 0 {
			break
		}
		lineno = next
	}
	return lineno
}

// Entry returns the line where execution starting at lineno really
// begins: lineno itself, or for a line removed by Compact the next line
// with an instruction.
func (flow *Flow) Entry(lineno int) int {
	if to, ok := flow.entry[lineno]; ok {
		return to
	}
	return lineno
}

func (flow *Flow) String() string {
	var sb strings.Builder
	for n := range flow.lines {
		fmt.Fprintf(&sb, "Line %d: %v [Prev:", n, flow.LineString(n))
		for _, edge := range flow.prev[n] {
			fmt.Fprintf(&sb, "%d%v,", edge.LineNo, edgeTag(edge.IsBranch))
		}
		sb.WriteString("][Next:")
		regular, branch := flow.Next(n)
		if regular >= 0 {
			fmt.Fprintf(&sb, "%dR,", regular)
		}
		if branch >= 0 {
			fmt.Fprintf(&sb, "%dB", branch)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func edgeTag(isBranch bool) string {
	if isBranch {
		return "B"
	}
	return "R"
}

// Dot renders the flow as a Graphviz digraph. Branch edges are dashed.
func (flow *Flow) Dot() string {
	g := dot.NewGraph(dot.Directed)
	nodes := make([]dot.Node, len(flow.lines)+1)
	for n := range flow.lines {
		nodes[n] = g.Node(fmt.Sprintf("L%d", n)).Box().Label(fmt.Sprintf("%d: %v", n, flow.LineString(n)))
	}
	exit := len(flow.lines)
	nodes[exit] = g.Node("exit").Attr("shape", "doublecircle")

	for to := range flow.prev {
		for _, edge := range flow.prev[to] {
			e := g.Edge(nodes[edge.LineNo], nodes[to], edgeTag(edge.IsBranch))
			if edge.IsBranch {
				e.Dashed()
			}
		}
	}
	return g.String()
}
