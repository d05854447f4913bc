package tv

import (
	"strings"
)

// Array is a multi-bit value. Index 0 is the least significant bit.
type Array []Tv

// NewArray returns an array of nBits all set to v.
func NewArray(nBits int, v Tv) (arr Array) {
	arr = make(Array, nBits)
	for n := range arr {
		arr[n] = v
	}
	return
}

// FromUint64 returns the lowest nBits of value as a resolved array.
func FromUint64(value uint64, nBits int) (arr Array) {
	arr = make(Array, nBits)
	for n := range arr {
		if n < 64 && (value>>n)&1 == 1 {
			arr[n] = ONE
		} else {
			arr[n] = ZERO
		}
	}
	return
}

// IsResolved returns true if every bit is ONE or ZERO.
func (arr Array) IsResolved() bool {
	for _, v := range arr {
		if !v.IsResolved() {
			return false
		}
	}
	return true
}

// ToUint64 converts a fully resolved array to an integer.
// ok is false when a bit is unresolved or a bit above 63 is set.
func (arr Array) ToUint64() (value uint64, ok bool) {
	for n, v := range arr {
		switch v {
		case ONE:
			if n >= 64 {
				return 0, false
			}
			value |= 1 << n
		case ZERO:
		default:
			return 0, false
		}
	}
	ok = true
	return
}

// String formats the array most significant bit first, one character per bit,
// with a '.' between bytes.
func (arr Array) String() string {
	var sb strings.Builder
	for n := len(arr) - 1; n >= 0; n-- {
		sb.WriteByte(arr[n].Char())
		if n > 0 && n%8 == 0 {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// ParseArray parses the output of Array.String. Byte separators ('.') and
// digit separators ('_') are ignored.
func ParseArray(text string) (arr Array, err error) {
	bits := make([]byte, 0, len(text))
	for n := 0; n < len(text); n++ {
		c := text[n]
		if c == '.' || c == '_' {
			continue
		}
		bits = append(bits, c)
	}

	arr = make(Array, len(bits))
	for n, c := range bits {
		var v Tv
		v, err = ParseChar(c)
		if err != nil {
			arr = nil
			return
		}
		arr[len(bits)-1-n] = v
	}
	return
}

// Hex formats the array as hexadecimal digits, most significant first.
// A nibble with an unresolved bit is shown as 'U', '?' or 'X', whichever
// is weakest within the nibble.
func (arr Array) Hex() string {
	nibbles := (len(arr) + 3) / 4
	var sb strings.Builder
	for nib := nibbles - 1; nib >= 0; nib-- {
		value := 0
		unresolved := ONE
		for b := 3; b >= 0; b-- {
			n := nib*4 + b
			if n >= len(arr) {
				continue
			}
			switch v := arr[n]; v {
			case ONE:
				value |= 1 << b
			case ZERO:
			default:
				if unresolved == ONE {
					unresolved = v
				} else {
					unresolved = weakest(unresolved, v)
				}
			}
		}
		if unresolved != ONE {
			sb.WriteByte(unresolved.Char())
		} else {
			sb.WriteByte("0123456789abcdef"[value])
		}
	}
	return sb.String()
}

// Equal returns true if both arrays have the same length and bits.
func (arr Array) Equal(other Array) bool {
	if len(arr) != len(other) {
		return false
	}
	for n := range arr {
		if arr[n] != other[n] {
			return false
		}
	}
	return true
}
