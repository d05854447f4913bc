// Package expr implements a hash-consed expression arena for bit-vector,
// boolean and byte-addressed memory terms.
//
// Every analysis run owns one Arena. Expressions are small handle values
// (BV, Bool, Mem) that refer back to their arena; structurally equal
// expressions always share a handle, and operators on constant operands are
// folded as the expression is built. Handles of one arena are never valid in
// another: Arena.Import is the only way to carry an expression across.
package expr
