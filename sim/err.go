package sim

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
	"github.com/ezrec/asmsim/x86"
)

var f = translate.From

var (
	ErrMergeKeys   = errors.New(f("states do not share a tail key"))
	ErrMergeTools  = errors.New(f("states belong to different runs"))
	ErrForkCount   = errors.New(f("fork needs at least two paths"))
	ErrKeyUnknown  = errors.New(f("update does not continue the state"))
	ErrConfigParse = errors.New(f("state configuration invalid"))
)

// ErrWidth is raised (as a panic) when a value of the wrong width is
// written to a register.
type ErrWidth struct {
	Reg   x86.Register
	Width int
}

func (err *ErrWidth) Error() string {
	return f("%v: %d-bit value written to %d-bit register", err.Reg, err.Width, err.Reg.Width())
}
