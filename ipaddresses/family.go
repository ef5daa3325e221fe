package ipaddresses

// Byte widths of the supported address families.
const (
	IPv4Bytes = 4
	IPv6Bytes = 16
)

// Family is an IP address family.
type Family int

// Supported families. The zero value is not a valid family.
const (
	IPv4 Family = 4
	IPv6 Family = 6
)

// Valid reports whether f is IPv4 or IPv6.
func (f Family) Valid() bool {
	return f == IPv4 || f == IPv6
}

// Bytes returns the address width of the family, or 0 for an invalid family.
func (f Family) Bytes() int {
	switch f {
	case IPv4:
		return IPv4Bytes
	case IPv6:
		return IPv6Bytes
	}
	return 0
}

// Bits returns the address width of the family in bits.
func (f Family) Bits() int {
	return f.Bytes() * 8
}

// Suffix is the file name suffix used for compiled tables of the family.
func (f Family) Suffix() string {
	switch f {
	case IPv4:
		return ".iv4"
	case IPv6:
		return ".iv6"
	}
	return ""
}

func (f Family) String() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	}
	return "unknown"
}
