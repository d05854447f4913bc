package expr

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// Handle is the index of a node in an Arena. The zero Handle is invalid.
type Handle uint32

type node struct {
	op    Op
	sort  Sort
	args  []Handle
	hi    int // Extract high bit, or extension width.
	lo    int // Extract low bit.
	value uint256.Int
	name  string
	undef bool
}

func (n *node) hash() uint64 {
	buf := make([]byte, 0, 64+4*len(n.args)+len(n.name))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n.op))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n.sort.Kind))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n.sort.Width))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n.hi))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(n.lo))
	if n.undef {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, arg := range n.args {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(arg))
	}
	if n.op == OP_CONST || n.op == OP_MEM_CONST {
		b32 := n.value.Bytes32()
		buf = append(buf, b32[:]...)
	}
	buf = append(buf, n.name...)
	return xxhash.Sum64(buf)
}

func (n *node) equal(o *node) bool {
	return n.op == o.op &&
		n.sort == o.sort &&
		n.hi == o.hi &&
		n.lo == o.lo &&
		n.undef == o.undef &&
		n.name == o.name &&
		n.value.Eq(&o.value) &&
		slices.Equal(n.args, o.args)
}

// Arena owns all expressions of one analysis run.
type Arena struct {
	ID uuid.UUID // Unique identity of the arena.

	nodes []node
	table map[uint64][]Handle
	vars  map[string]Handle
}

// NewArena creates an empty arena.
func NewArena() (a *Arena) {
	a = &Arena{
		ID:    uuid.New(),
		nodes: make([]node, 1, 1024),
		table: make(map[uint64][]Handle, 1024),
		vars:  make(map[string]Handle),
	}
	return
}

// Len returns the number of distinct expressions in the arena.
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}

func (a *Arena) intern(n node) Handle {
	key := n.hash()
	for _, h := range a.table[key] {
		if a.nodes[h].equal(&n) {
			return h
		}
	}

	a.nodes = append(a.nodes, n)
	h := Handle(len(a.nodes) - 1)
	a.table[key] = append(a.table[key], h)

	if n.op == OP_VAR {
		a.vars[n.name] = h
	}

	return h
}

func (a *Arena) node(h Handle) *node {
	if h == 0 || int(h) >= len(a.nodes) {
		panic(fmt.Errorf("%w: %d", ErrHandleInvalid, h))
	}
	return &a.nodes[h]
}

// Sort returns the sort of an expression.
func (a *Arena) Sort(h Handle) Sort {
	return a.node(h).sort
}

// Op returns the operator of an expression.
func (a *Arena) Op(h Handle) Op {
	return a.node(h).op
}

// Args returns the operands of an expression. The slice must not be modified.
func (a *Arena) Args(h Handle) []Handle {
	return a.node(h).args
}

// Bounds returns the extract bounds (hi, lo), or for an extension the
// number of added bits in hi.
func (a *Arena) Bounds(h Handle) (hi, lo int) {
	n := a.node(h)
	return n.hi, n.lo
}

// Name returns the name of a variable, or "" for other expressions.
func (a *Arena) Name(h Handle) string {
	return a.node(h).name
}

// IsUndef returns true for variables standing for architecturally undefined values.
func (a *Arena) IsUndef(h Handle) bool {
	return a.node(h).undef
}

// IsConst returns true for constant expressions, including constant memory.
func (a *Arena) IsConst(h Handle) bool {
	op := a.node(h).op
	return op == OP_CONST || op == OP_MEM_CONST
}

// Value returns the value of a constant expression. Bool constants are 0 or 1.
func (a *Arena) Value(h Handle) (value uint256.Int, ok bool) {
	n := a.node(h)
	if n.op != OP_CONST && n.op != OP_MEM_CONST {
		return
	}
	return n.value, true
}

// Lookup finds a variable by name.
func (a *Arena) Lookup(name string) (h Handle, ok bool) {
	h, ok = a.vars[name]
	return
}

// check panics unless h is a handle of this arena with the wanted sort kind.
func (a *Arena) check(op Op, want Kind, h Handle) *node {
	n := a.node(h)
	if n.sort.Kind != want {
		panic(&ErrSort{Op: op, Want: Sort{Kind: want, Width: n.sort.Width}, Got: n.sort})
	}
	return n
}

// sameWidth panics unless x and y are bit-vectors of equal width.
func (a *Arena) sameWidth(op Op, x, y Handle) int {
	nx := a.check(op, KIND_BV, x)
	ny := a.check(op, KIND_BV, y)
	if nx.sort.Width != ny.sort.Width {
		panic(&ErrSort{Op: op, Want: nx.sort, Got: ny.sort})
	}
	return nx.sort.Width
}
