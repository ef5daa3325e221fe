package ipaddresses

// Blocks from the IANA IPv4 and IPv6 Special-Purpose Address Registries.
// Lookups against compiled geo tables are expected to miss these.
var specialPurposeBlocks = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.31.196.0/24",
	"192.52.193.0/24",
	"192.88.99.0/24",
	"192.168.0.0/16",
	"192.175.48.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"255.255.255.255/32",
	"::1/128",
	"::/128",
	"::ffff:0:0/96",
	"64:ff9b::/96",
	"64:ff9b:1::/48",
	"100::/64",
	"2001::/23",
	"2001:db8::/32",
	"2002::/16",
	"2620:4f:8000::/48",
	"fc00::/7",
	"fe80::/10",
}

// IsSpecialPurposeAddress reports whether ipAddr falls in one of the IANA special-purpose blocks.
func IsSpecialPurposeAddress(ipAddr string) (special bool, err error) {
	if _, err4 := ParseAddress(ipAddr, IPv4); err4 != nil {
		if _, err = ParseAddress(ipAddr, IPv6); err != nil {
			return
		}
	}

	for _, block := range specialPurposeBlocks {
		if special, err = InAddressSpace(ipAddr, block); err != nil || special {
			return
		}
	}

	return
}
