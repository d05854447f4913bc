package runner

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
)

var f = translate.From

var (
	ErrNoEndState = errors.New(f("no path reached the end"))
	ErrLineRange  = errors.New(f("line out of range"))
	ErrHalted     = errors.New(f("instruction ends the path"))
)

// ErrRuntime aborts a run at a source line.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err ErrRuntime) Error() string {
	return f("line %d: %v", err.LineNo, err.Err)
}

func (err ErrRuntime) Unwrap() error {
	return err.Err
}
