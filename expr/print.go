package expr

import (
	"fmt"
	"strings"
)

// MAX_PRINT bounds the length of a printed expression.
const MAX_PRINT = 4096

type printer struct {
	a *Arena
	strings.Builder
}

func (p *printer) full() bool {
	return p.Len() >= MAX_PRINT
}

func (p *printer) print(h Handle) {
	if p.full() {
		return
	}

	n := p.a.node(h)
	switch n.op {
	case OP_CONST:
		if n.sort.Kind == KIND_BOOL {
			if n.value.IsZero() {
				p.WriteString("false")
			} else {
				p.WriteString("true")
			}
			return
		}
		p.WriteString(constString(n))
		return
	case OP_MEM_CONST:
		fmt.Fprintf(p, "(memconst #x%02x)", n.value.Uint64())
		return
	case OP_VAR:
		p.WriteString(n.name)
		return
	}

	p.WriteByte('(')
	switch n.op {
	case OP_EXTRACT:
		fmt.Fprintf(p, "(_ extract %d %d)", n.hi, n.lo)
	case OP_ZEXT, OP_SEXT:
		fmt.Fprintf(p, "(_ %v %d)", n.op, n.hi)
	default:
		p.WriteString(n.op.String())
	}
	for _, arg := range n.args {
		p.WriteByte(' ')
		p.print(arg)
	}
	p.WriteByte(')')

	if p.full() {
		p.WriteString("...")
	}
}

func constString(n *node) string {
	w := n.sort.Width
	if w%4 == 0 {
		s := n.value.Hex()[2:]
		if pad := w/4 - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		return "#x" + s
	}
	var sb strings.Builder
	sb.WriteString("#b")
	for i := w - 1; i >= 0; i-- {
		var bit = n.value
		bit.Rsh(&bit, uint(i))
		sb.WriteByte(byte('0' + bit.Uint64()&1))
	}
	return sb.String()
}

// String prints an expression in SMT-LIB syntax. Output is truncated when
// it exceeds MAX_PRINT bytes.
func (a *Arena) String(h Handle) string {
	p := &printer{a: a}
	p.print(h)
	return p.String()
}
