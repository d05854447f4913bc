package tv

import (
	"github.com/ezrec/asmsim/translate"
)

var f = translate.From

type ErrParseChar byte

func (err ErrParseChar) Error() string {
	return f("'%c' is not a bit value", byte(err))
}
