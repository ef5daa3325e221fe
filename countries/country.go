// Package countries holds the registry of countries a range feed is classified into.
package countries

import "math"

// Geoname IDs reserved for the virtual countries. They sit above any ID found
// in a real country feed, so appending them keeps the registry sorted.
const (
	ProxyGeonameID     uint64 = math.MaxUint64 - 3
	SatelliteGeonameID uint64 = math.MaxUint64 - 2
	OtherGeonameID     uint64 = math.MaxUint64 - 1
)

// Codes of the virtual countries.
const (
	ProxyCode     = "A1"
	SatelliteCode = "A2"
	OtherCode     = "O1"
)

// Country is a single entry of the registry.
type Country struct {
	GeonameID uint64
	Code      string
	Key       CodeKey
	Forbidden bool
}

// IsReserved reports whether id belongs to one of the virtual countries.
func IsReserved(id uint64) bool {
	return id == ProxyGeonameID || id == SatelliteGeonameID || id == OtherGeonameID
}

// CodeKey is the packed form of a two letter country code.
type CodeKey uint16

// PackCode packs a two character code into a CodeKey. Letters are upper-cased
// first. The result is 0 for anything that is not exactly two bytes long.
// Distinct codes map to distinct keys and keys sort in the same order as the
// upper-cased codes.
func PackCode(code string) CodeKey {
	if len(code) != 2 || code[0] == 0 || code[1] == 0 {
		return 0
	}
	return CodeKey(toUpper(code[0]))<<8 | CodeKey(toUpper(code[1]))
}

// String returns the code a key was packed from.
func (k CodeKey) String() string {
	if k == 0 {
		return ""
	}
	return string([]byte{byte(k >> 8), byte(k)})
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
