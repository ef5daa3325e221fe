package testutils

import "strings"

// Headers of the GeoLite2 country CSV feeds.
const (
	LocationsHeader = "geoname_id,locale_code,continent_code,continent_name,country_iso_code,country_name,is_in_european_union"
	BlocksHeader    = "network,geoname_id,registered_country_geoname_id,represented_country_geoname_id,is_anonymous_proxy,is_satellite_provider"
)

// LocationsFeed builds a country feed from rows following LocationsHeader.
func LocationsFeed(rows ...string) string {
	return feed(LocationsHeader, rows)
}

// BlocksFeed builds a range feed from rows following BlocksHeader.
func BlocksFeed(rows ...string) string {
	return feed(BlocksHeader, rows)
}

// Location renders a country feed row.
func Location(geonameID, continent, code, name string) string {
	return strings.Join([]string{geonameID, "en", continent, "", code, name, "0"}, ",")
}

// Block renders a range feed row.
func Block(network, geonameID, registeredID, proxy, satellite string) string {
	return strings.Join([]string{network, geonameID, registeredID, "", proxy, satellite}, ",")
}

func feed(header string, rows []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}
