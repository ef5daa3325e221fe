package geodb

import (
	"net/netip"

	"github.com/pkg/errors"

	"xtgeoip/ipaddresses"
)

var (
	ErrTableLength     = errors.New("table length is not a multiple of the interval size")
	ErrInvalidInterval = errors.New("interval start is greater than its end")
	ErrOverlap         = errors.New("overlapping intervals")
	ErrReadFailed      = errors.New("error reading table")
)

// Interval is one (start, end) pair of a compiled table.
type Interval struct {
	Start netip.Addr
	End   netip.Addr
	Code  string
}

// ReadTable decodes the intervals of a compiled table of the given family.
func ReadTable(data []byte, family ipaddresses.Family) ([]Interval, error) {
	if !family.Valid() {
		return nil, errors.Errorf("invalid address family %d", int(family))
	}

	width := family.Bytes()
	if len(data)%(2*width) != 0 {
		return nil, errors.Wrapf(ErrTableLength, "%d bytes", len(data))
	}

	intervals := make([]Interval, 0, len(data)/(2*width))
	for off := 0; off < len(data); off += 2 * width {
		start, _ := netip.AddrFromSlice(data[off : off+width])
		end, _ := netip.AddrFromSlice(data[off+width : off+2*width])
		intervals = append(intervals, Interval{Start: start, End: end})
	}

	return intervals, nil
}
