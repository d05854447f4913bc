package flow

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/x86"
)

type next struct {
	regular, branch int
}

func nexts(flow *Flow) (list []next) {
	for n := range flow.NLines() + 1 {
		regular, branch := flow.Next(n)
		list = append(list, next{regular, branch})
	}
	return
}

const diamond = `
	jz label1
	mov rax, 10
	jmp label2
label1:
	mov rax, 20
label2:
	mov rbx, rax
	jz label3
label3:
`

func TestFlow_Edges(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(`mov rax, 10
	jz skip
	mov rbx, 1
	jmp done
skip:
	mov rbx, 2
done:
	ret
	mov rcx, 3`)
	assert.NoError(err)
	assert.Equal(9, flow.NLines())

	assert.Equal([]next{
		{1, -1}, {2, 4}, {3, -1}, {-1, 6}, {5, -1}, {6, -1}, {7, -1}, {-1, -1}, {9, -1}, {-1, -1},
	}, nexts(flow))

	assert.Empty(flow.Prev(0))
	assert.Equal([]Edge{{1, true}}, flow.Prev(4))
	assert.Equal([]Edge{{3, true}, {5, false}}, flow.Prev(6))
	assert.Equal([]Edge{{6, false}}, flow.Prev(7))
	assert.Empty(flow.Prev(8))
	assert.Equal([]Edge{{8, false}}, flow.Prev(9))

	assert.True(flow.IsBranchPoint(1))
	assert.False(flow.IsBranchPoint(3))
	assert.False(flow.IsMergePoint(4))
	assert.True(flow.IsMergePoint(6))
	assert.False(flow.IsMergePoint(7))
}

func TestFlow_Compact(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(diamond)
	assert.NoError(err)

	// Leading blank line of the raw string.
	assert.Equal(10, flow.NLines())
	assert.True(flow.Line(0).IsEmpty())

	flow.Compact()

	assert.Equal([]next{
		{-1, -1}, {2, 5}, {3, -1}, {-1, 7}, {-1, -1}, {7, -1}, {-1, -1}, {8, -1}, {10, 10}, {-1, -1}, {-1, -1},
	}, nexts(flow))

	assert.Empty(flow.Prev(0))
	assert.Empty(flow.Prev(1))
	assert.Empty(flow.Prev(4))
	assert.Equal([]Edge{{1, true}}, flow.Prev(5))
	assert.Equal([]Edge{{3, true}, {5, false}}, flow.Prev(7))
	// The branch edge of a line is linked before its fall through edge.
	assert.Equal([]Edge{{8, true}, {8, false}}, flow.Prev(10))

	assert.Equal(1, flow.Entry(0))
	assert.Equal(7, flow.Entry(6))
	assert.Equal(10, flow.Entry(9))
	assert.Equal(2, flow.Entry(2))
}

func TestFlow_Loop(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(`mov rax, 10
label1:
	mov rbx, 1
	dec rax
	jnz label1
	mov rcx, 1`)
	assert.NoError(err)

	isLoop, exits := flow.IsLoopBranchPoint(4)
	assert.True(isLoop)
	assert.False(exits)

	isLoop, _ = flow.IsLoopBranchPoint(0)
	assert.False(isLoop)

	isLoop, loopLine := flow.IsLoopMergePoint(1)
	assert.True(isLoop)
	assert.Equal(4, loopLine)

	assert.True(flow.HasCodePath(3, 1))
	assert.True(flow.HasCodePath(0, 6))
	assert.False(flow.HasCodePath(5, 1))
	assert.True(flow.HasCodePath(2, 2))
	assert.Equal([]int{1, 2, 3, 4, 5}, flow.FutureLineNumbers(3))
	assert.Equal([]int{5}, flow.FutureLineNumbers(5))
	assert.Nil(flow.FutureLineNumbers(6))

	// Loop leaving by the branch.
	flow, err = Parse(`top:
	dec rax
	jz out
	jmp top
out:
	nop`)
	assert.NoError(err)
	isLoop, exits = flow.IsLoopBranchPoint(2)
	assert.True(isLoop)
	assert.True(exits)
}

func TestFlow_String(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(`top: dec rax
	jnz top`)
	assert.NoError(err)

	lines := strings.Split(flow.String(), "\n")
	assert.Len(lines, 3)
	assert.True(strings.HasPrefix(lines[0], "Line 0: top: "))
	assert.True(strings.HasSuffix(lines[0], "[Prev:1B,][Next:1R,]"))
	assert.True(strings.HasSuffix(lines[1], "[Prev:0R,][Next:2R,0B]"))
	assert.Equal("", lines[2])

	assert.Equal("", flow.LineString(2))
	assert.Nil(flow.Line(-1))
}

func TestFlow_Errors(t *testing.T) {
	assert := assert.New(t)

	// A line parsed on its own keeps its label unresolved.
	line, err := asm.ParseLine("jmp nowhere")
	assert.NoError(err)
	line.LineNo = 1

	_, err = New(&asm.Program{Lines: []asm.Line{line}, Labels: map[string]int{}})
	var missing asm.ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(asm.ErrLabelMissing("nowhere"), missing)

	flow, err := New(&asm.Program{Lines: []asm.Line{line}, Labels: map[string]int{"nowhere": 0}})
	assert.NoError(err)
	assert.Equal([]Edge{{0, true}}, flow.Prev(0))

	_, err = Parse("jne missing")
	assert.Error(err)

	_, err = flow.StateConfig(0, 3)
	assert.ErrorIs(err, ErrLineRange)
}

func TestFlow_MaxLines(t *testing.T) {
	assert := assert.New(t)

	text := strings.Repeat("inc rax\n", MAX_LINES+10)
	flow, err := Parse(text)
	assert.NoError(err)
	assert.Equal(MAX_LINES, flow.NLines())
	assert.Equal([]Edge{{MAX_LINES - 1, false}}, flow.Prev(MAX_LINES))

	_, err = Parse(strings.Repeat("nop\n", MAX_LINES) + "jmp past\nnop\npast: nop\n")
	assert.NoError(err)

	prog, err := asm.ParseString(strings.Repeat("jmp past\n", MAX_LINES) + "nop\npast: nop\n")
	assert.NoError(err)
	_, err = New(prog)
	assert.ErrorIs(err, ErrTargetRange)
}

func TestFlow_StateConfig(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(`mov rax, 1
	add rbx, rax
	jc out
	mov [rsi], cl
out:`)
	assert.NoError(err)

	sc, err := flow.StateConfig(0, 1)
	assert.NoError(err)
	assert.True(sc.Register(x86.REG_RAX))
	assert.True(sc.Register(x86.REG_RBX))
	assert.True(sc.Flag(x86.FLAG_CF))
	assert.False(sc.Register(x86.REG_RCX))
	assert.False(sc.Mem)

	sc, err = flow.StateConfig(2, 4)
	assert.NoError(err)
	assert.True(sc.Flag(x86.FLAG_CF))
	assert.True(sc.Register(x86.REG_RSI))
	assert.True(sc.Register(x86.REG_RCX))
	assert.True(sc.Mem)
	assert.False(sc.Register(x86.REG_RAX))
}

func TestFlow_Dot(t *testing.T) {
	assert := assert.New(t)

	flow, err := Parse(diamond)
	assert.NoError(err)

	text := flow.Dot()
	assert.True(strings.HasPrefix(text, "digraph"))
	assert.Contains(text, "exit")
	assert.Contains(text, "dashed")
	assert.Contains(text, "mov rbx, rax")
}
