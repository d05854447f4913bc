package flow

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
)

var f = translate.From

var (
	ErrLineRange   = errors.New(f("line out of range"))
	ErrTargetRange = errors.New(f("jump target beyond the analyzed lines"))
)
