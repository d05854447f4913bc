package expr

import (
	"fmt"
)

// Kind is the kind of an expression sort.
type Kind int

const (
	KIND_BOOL = Kind(0) // Boolean.
	KIND_BV   = Kind(1) // Fixed width bit-vector.
	KIND_MEM  = Kind(2) // Array from 64-bit address to 8-bit byte.
)

// MAX_WIDTH is the widest supported bit-vector.
const MAX_WIDTH = 256

// Sort of an expression.
type Sort struct {
	Kind  Kind
	Width int // Bit width, for KIND_BV only.
}

var (
	SortBool = Sort{Kind: KIND_BOOL}
	SortMem  = Sort{Kind: KIND_MEM}
)

// SortBV returns the bit-vector sort of the given width.
func SortBV(width int) Sort {
	if width < 1 || width > MAX_WIDTH {
		panic(fmt.Errorf("%w: %d", ErrWidthInvalid, width))
	}
	return Sort{Kind: KIND_BV, Width: width}
}

func (s Sort) String() string {
	switch s.Kind {
	case KIND_BOOL:
		return "Bool"
	case KIND_BV:
		return fmt.Sprintf("BV%d", s.Width)
	case KIND_MEM:
		return "Mem"
	}
	return fmt.Sprintf("Sort(%d)", int(s.Kind))
}

// Op is an expression operator.
type Op int

const (
	OP_INVALID = Op(iota)

	// Leaves
	OP_CONST     // Bool or BV constant.
	OP_VAR       // Named free variable.
	OP_MEM_CONST // Memory with every byte equal.

	// Boolean
	OP_NOT
	OP_AND
	OP_OR
	OP_XOR
	OP_EQ // Equality of two BV or two Bool.
	OP_ULT
	OP_ULE
	OP_SLT
	OP_SLE

	// Any sort
	OP_ITE

	// Bit-vector
	OP_BVNOT
	OP_BVAND
	OP_BVOR
	OP_BVXOR
	OP_NEG
	OP_ADD
	OP_SUB
	OP_MUL
	OP_UDIV
	OP_UREM
	OP_SDIV
	OP_SREM
	OP_SHL
	OP_LSHR
	OP_ASHR
	OP_EXTRACT
	OP_CONCAT
	OP_ZEXT
	OP_SEXT

	// Memory
	OP_SELECT
	OP_STORE

	op_count
)

var opNames = [...]string{
	OP_INVALID:   "invalid",
	OP_CONST:     "const",
	OP_VAR:       "var",
	OP_MEM_CONST: "memconst",
	OP_NOT:       "not",
	OP_AND:       "and",
	OP_OR:        "or",
	OP_XOR:       "xor",
	OP_EQ:        "=",
	OP_ULT:       "bvult",
	OP_ULE:       "bvule",
	OP_SLT:       "bvslt",
	OP_SLE:       "bvsle",
	OP_ITE:       "ite",
	OP_BVNOT:     "bvnot",
	OP_BVAND:     "bvand",
	OP_BVOR:      "bvor",
	OP_BVXOR:     "bvxor",
	OP_NEG:       "bvneg",
	OP_ADD:       "bvadd",
	OP_SUB:       "bvsub",
	OP_MUL:       "bvmul",
	OP_UDIV:      "bvudiv",
	OP_UREM:      "bvurem",
	OP_SDIV:      "bvsdiv",
	OP_SREM:      "bvsrem",
	OP_SHL:       "bvshl",
	OP_LSHR:      "bvlshr",
	OP_ASHR:      "bvashr",
	OP_EXTRACT:   "extract",
	OP_CONCAT:    "concat",
	OP_ZEXT:      "zero_extend",
	OP_SEXT:      "sign_extend",
	OP_SELECT:    "select",
	OP_STORE:     "store",
}

func (op Op) String() string {
	if op < 0 || op >= op_count {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}
