package countries

// Resolver maps geoname IDs from a range feed onto registry countries.
//
// Range feeds list long runs of networks belonging to the same country, so the
// most recent answer is remembered and reused for a repeated ID.
type Resolver struct {
	registry *Registry

	cached     bool
	generation uint64
	id         uint64
	pos        int
}

// Resolve finds the country for a range feed row. Anonymous proxies and
// satellite providers resolve to their virtual countries regardless of id, and
// an id of 0 resolves to the unknown country.
func (res *Resolver) Resolve(id uint64, proxy, sat bool) (Country, bool) {
	switch {
	case proxy:
		id = ProxyGeonameID
	case sat:
		id = SatelliteGeonameID
	case id == 0:
		id = OtherGeonameID
	}

	r := res.registry
	if !res.cached || res.generation != r.generation || res.id != id {
		res.cached = true
		res.generation = r.generation
		res.id = id
		res.pos = r.search(id)
	}

	if res.pos < 0 {
		return Country{}, false
	}
	return r.countries[res.pos], true
}
