package ipaddresses

import (
	"net/netip"

	"github.com/pkg/errors"
)

const errInvalidIPAddrFmt = "invalid IP address: %q"

// ParseAddress converts a textual address into its big-endian byte form. An
// IPv4 address is only accepted for IPv4 and an IPv6 address only for IPv6.
func ParseAddress(ipAddr string, family Family) (ip []byte, err error) {
	addr, perr := netip.ParseAddr(ipAddr)
	if perr != nil || addr.Zone() != "" {
		err = errors.Wrapf(ErrMalformedAddress, errInvalidIPAddrFmt, ipAddr)
		return
	}

	switch {
	case family == IPv4 && addr.Is4():
		b := addr.As4()
		ip = b[:]
	case family == IPv6 && !addr.Is4():
		b := addr.As16()
		ip = b[:]
	default:
		err = errors.Wrapf(ErrMalformedAddress, errInvalidIPAddrFmt+" is not %s", ipAddr, family)
	}

	return
}

// FormatAddress renders a big-endian address of the given family in canonical text form.
func FormatAddress(ip []byte, family Family) string {
	switch family {
	case IPv4:
		var b [IPv4Bytes]byte
		copy(b[:], ip)
		return netip.AddrFrom4(b).String()
	case IPv6:
		var b [IPv6Bytes]byte
		copy(b[:], ip)
		return netip.AddrFrom16(b).String()
	}
	return ""
}

// InAddressSpace checks if an IP address is part of the address space defined by a CIDR notation.
// Addresses of a different family than the CIDR are never part of it.
func InAddressSpace(ipAddr string, cidr string) (result bool, err error) {
	r, err := ParseCIDR(cidr)
	if err != nil {
		return
	}

	ip, err := ParseAddress(ipAddr, r.Family)
	if err != nil {
		if _, other := ParseAddress(ipAddr, otherFamily(r.Family)); other == nil {
			err = nil
		}
		return
	}

	result = Compare(ip, r.Start(), r.Family) >= 0 && Compare(ip, r.End(), r.Family) <= 0
	return
}

func otherFamily(f Family) Family {
	if f == IPv4 {
		return IPv6
	}
	return IPv4
}
