package expr

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
)

var f = translate.From

var (
	ErrHandleInvalid = errors.New(f("expression handle invalid"))
	ErrWidthInvalid  = errors.New(f("bit-vector width invalid"))
)

// ErrSort is raised (as a panic) when an operator is applied to operands of
// the wrong sort. It is a programming error in the caller.
type ErrSort struct {
	Op   Op
	Want Sort
	Got  Sort
}

func (err *ErrSort) Error() string {
	return f("%v: sort %v, expected %v", err.Op, err.Got, err.Want)
}

// ErrArena is raised (as a panic) when a handle from one arena is used with
// another arena without Import.
type ErrArena struct {
	Want string
	Got  string
}

func (err *ErrArena) Error() string {
	return f("expression from arena %v used in arena %v", err.Got, err.Want)
}
