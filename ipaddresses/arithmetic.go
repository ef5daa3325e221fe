package ipaddresses

import (
	"bytes"

	"github.com/pkg/errors"
)

// Compare compares two addresses of the given family as unsigned big-endian numbers.
// It returns a negative number if a < b, zero if they are equal and a positive number if a > b.
// Both slices must hold at least family.Bytes() bytes; anything past that is ignored.
func Compare(a, b []byte, family Family) int {
	n := family.Bytes()
	return bytes.Compare(a[:n], b[:n])
}

// Step increments (direction > 0) or decrements (direction < 0) addr by one in place.
// Overflow wraps around: the all-ones address steps up to all-zeros and vice versa.
func Step(addr []byte, family Family, direction int) error {
	n := family.Bytes()
	if n == 0 {
		return errors.Wrapf(ErrInvalidArgument, "address family %d", int(family))
	}
	if direction == 0 {
		return errors.Wrap(ErrInvalidArgument, "step direction must not be zero")
	}
	if len(addr) < n {
		return errors.Wrapf(ErrInvalidArgument, "%d byte address for %s", len(addr), family)
	}

	find, replace := byte(0xff), byte(0x00)
	if direction < 0 {
		find, replace = 0x00, 0xff
	}

	for i := n - 1; i >= 0; i-- {
		if addr[i] != find {
			if direction > 0 {
				addr[i]++
			} else {
				addr[i]--
			}
			return nil
		}
		addr[i] = replace
	}

	return nil
}
