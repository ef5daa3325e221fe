package ipaddresses

import (
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const errInvalidCIDRFmt = "invalid CIDR notation: %q"

// AddressRange is a network block parsed from CIDR notation together with the
// inclusive interval of addresses it covers.
type AddressRange struct {
	Family       Family
	PrefixLength int

	base  [IPv6Bytes]byte
	mask  [IPv6Bytes]byte
	start [IPv6Bytes]byte
	end   [IPv6Bytes]byte
}

// Base returns the address as written in the CIDR text.
func (r AddressRange) Base() []byte { return r.base[:r.Family.Bytes()] }

// Mask returns the network mask derived from the prefix length.
func (r AddressRange) Mask() []byte { return r.mask[:r.Family.Bytes()] }

// Start returns the first address of the block (base AND mask).
func (r AddressRange) Start() []byte { return r.start[:r.Family.Bytes()] }

// End returns the last address of the block (start OR NOT mask).
func (r AddressRange) End() []byte { return r.end[:r.Family.Bytes()] }

// ParseCIDR parses "<address>/<prefix-length>" into an AddressRange.
//
// The family is taken from the position of the first '.', which must appear in
// the first four characters for IPv4. Everything else is treated as IPv6.
func ParseCIDR(cidr string) (r AddressRange, err error) {
	if len(cidr) < 4 {
		err = errors.Wrapf(ErrMalformedAddress, errInvalidCIDRFmt, cidr)
		return
	}

	if cidr[1] == '.' || cidr[2] == '.' || cidr[3] == '.' {
		r.Family = IPv4
	} else {
		r.Family = IPv6
	}

	addrText, prefixText, ok := strings.Cut(cidr, "/")
	if !ok || strings.Contains(prefixText, "/") || !isDecimal(prefixText) {
		err = errors.Wrapf(ErrMalformedPrefix, errInvalidCIDRFmt, cidr)
		return
	}

	prefix, perr := strconv.ParseUint(prefixText, 10, 64)
	if perr != nil || prefix > uint64(r.Family.Bits()) {
		// Only overflow can fail here since prefixText is all digits.
		err = errors.Wrapf(ErrPrefixOutOfRange, errInvalidCIDRFmt, cidr)
		return
	}
	r.PrefixLength = int(prefix)

	addr, perr := netip.ParseAddr(addrText)
	if perr != nil || addr.Zone() != "" || (r.Family == IPv4) != addr.Is4() {
		err = errors.Wrapf(ErrMalformedAddress, errInvalidCIDRFmt, cidr)
		return
	}

	if r.Family == IPv4 {
		b := addr.As4()
		copy(r.base[:], b[:])
	} else {
		r.base = addr.As16()
	}

	n := r.Family.Bytes()
	full, rem := r.PrefixLength/8, r.PrefixLength%8
	for i := 0; i < full; i++ {
		r.mask[i] = 0xff
	}
	if rem != 0 {
		r.mask[full] = 0xff << uint(8-rem)
	}

	for i := 0; i < n; i++ {
		r.start[i] = r.base[i] & r.mask[i]
		r.end[i] = r.start[i] | ^r.mask[i]
	}

	return
}

// UnparseCIDR renders the base address of r in canonical form followed by the prefix length.
func UnparseCIDR(r AddressRange) (string, error) {
	var addr netip.Addr
	switch r.Family {
	case IPv4:
		var b [IPv4Bytes]byte
		copy(b[:], r.base[:IPv4Bytes])
		addr = netip.AddrFrom4(b)
	case IPv6:
		addr = netip.AddrFrom16(r.base)
	default:
		return "", errors.Wrapf(ErrRenderFailed, "address family %d", int(r.Family))
	}

	return addr.String() + "/" + strconv.Itoa(r.PrefixLength), nil
}

// String implements fmt.Stringer. Invalid ranges render as "invalid CIDR".
func (r AddressRange) String() string {
	s, err := UnparseCIDR(r)
	if err != nil {
		return "invalid CIDR"
	}
	return s
}

// Contiguous reports whether a and b are adjacent, non-overlapping intervals of
// the same family, in either order. Ranges sharing a start address are never
// contiguous.
func Contiguous(a, b AddressRange) bool {
	if a.Family != b.Family || !a.Family.Valid() {
		return false
	}

	first, second := a, b
	switch c := Compare(a.start[:], b.start[:], a.Family); {
	case c > 0:
		first, second = b, a
	case c == 0:
		return false
	}

	next := first.end
	if err := Step(next[:], first.Family, 1); err != nil {
		return false
	}

	// A first range ending at the top of the address space wraps to zero here,
	// which can never equal a later start address.
	return Compare(next[:], second.start[:], first.Family) == 0
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
