package countries

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xtgeoip/csvfeed"
)

// MaxCountries bounds the number of lines read from a country feed.
const MaxCountries = math.MaxUint16

const codeIndexSize = 1 << 16

// Columns a country feed must provide.
var requiredColumns = []string{
	"geoname_id",
	"continent_code",
	"country_iso_code",
}

const (
	geonameIDCol = iota
	continentCodeCol
	countryCodeCol
)

// Registry holds countries sorted by geoname ID together with an index from
// packed country code to country.
type Registry struct {
	// MaxLineLength limits the length of a feed line; 0 means csvfeed.DefaultMaxLineLength.
	MaxLineLength int

	logger    zerolog.Logger
	fs        csvfeed.FileSystem
	countries []Country
	// index holds position+1 in countries, 0 when the code is unknown.
	index []int32
	// generation changes whenever countries is rebuilt or extended.
	generation uint64
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger, fs csvfeed.FileSystem) *Registry {
	return &Registry{
		logger: logger,
		fs:     fs,
		index:  make([]int32, codeIndexSize),
	}
}

// Len returns the number of countries in the registry.
func (r *Registry) Len() int {
	return len(r.countries)
}

// Countries returns a copy of the registry contents in geoname ID order.
func (r *Registry) Countries() []Country {
	return append([]Country(nil), r.countries...)
}

// Lookup finds a country by its packed code.
func (r *Registry) Lookup(key CodeKey) (Country, bool) {
	pos := r.index[key]
	if pos == 0 {
		return Country{}, false
	}
	return r.countries[pos-1], true
}

// LoadFile replaces the registry contents with the countries of a feed file.
func (r *Registry) LoadFile(name string) (int, error) {
	f, err := r.fs.Open(name)
	if err != nil {
		return 0, errors.Wrapf(ErrOpenFailed, "%s: %v", name, err)
	}
	defer f.Close()

	return r.Load(f)
}

// Load replaces the registry contents with the countries read from a feed.
//
// Rows must be sorted by strictly increasing geoname ID; anything else aborts
// the load. Rows without a usable code and rows repeating a code already seen
// are skipped. On error the registry is left empty and the error carries the
// offending line number.
func (r *Registry) Load(feed io.Reader) (n int, err error) {
	r.reset()
	defer func() {
		if err != nil {
			r.reset()
			n = 0
		}
	}()

	reader := csvfeed.NewReader(feed, r.MaxLineLength)
	cols, err := reader.ReadHeader(requiredColumns)
	if err == io.EOF {
		return 0, csvfeed.AtLine(reader.Line()+1, ErrNoUsableData)
	}
	if err != nil {
		return 0, err
	}

	idCol := cols.Positions[geonameIDCol]
	continentCol := cols.Positions[continentCodeCol]
	countryCol := cols.Positions[countryCodeCol]

	var lastID uint64
	for {
		fields, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		line := reader.Line()
		if line >= MaxCountries {
			return 0, csvfeed.AtLine(line, ErrFileTooLong)
		}

		id := ParseGeonameID(fields[idCol])
		if id <= lastID {
			return 0, csvfeed.AtLine(line, ErrUnsortedGeonameID)
		}
		if IsReserved(id) {
			return 0, csvfeed.AtLine(line, ErrReservedGeonameID)
		}
		lastID = id

		code := fields[countryCol]
		if code == "" {
			code = fields[continentCol]
		}

		key := PackCode(code)
		if key == 0 {
			r.logger.Debug().Int("line", line).Str("code", code).Msg("Skipping country with invalid code")
			continue
		}
		if r.index[key] != 0 {
			r.logger.Debug().Int("line", line).Str("code", code).Msg("Skipping duplicate country code")
			continue
		}

		r.add(Country{GeonameID: id, Code: key.String(), Key: key})
	}

	if len(r.countries) == 0 {
		return 0, csvfeed.AtLine(reader.Line()+1, ErrNoUsableData)
	}

	return len(r.countries), nil
}

// AddVirtualCountries appends the proxy, satellite provider and unknown
// countries. It must be called after Load and returns the number added, which
// is 0 when they are already present.
func (r *Registry) AddVirtualCountries() int {
	if c, ok := r.Lookup(PackCode(ProxyCode)); ok && c.GeonameID == ProxyGeonameID {
		return 0
	}

	r.add(Country{GeonameID: ProxyGeonameID, Code: ProxyCode, Key: PackCode(ProxyCode)})
	r.add(Country{GeonameID: SatelliteGeonameID, Code: SatelliteCode, Key: PackCode(SatelliteCode)})
	r.add(Country{GeonameID: OtherGeonameID, Code: OtherCode, Key: PackCode(OtherCode)})
	return 3
}

// Filter sets the forbidden flag of the countries with the given keys.
//
// With forbid set only the listed countries are forbidden. Otherwise the list
// is an allow list: every country is forbidden first and the listed ones are
// allowed again. Keys not in the registry are ignored. It returns the number of
// listed countries whose flag was changed.
func (r *Registry) Filter(keys []CodeKey, forbid bool) (changed int) {
	if len(r.countries) == 0 {
		return
	}

	if !forbid {
		for i := range r.countries {
			r.countries[i].Forbidden = true
		}
	}

	for _, key := range keys {
		pos := r.index[key]
		if pos == 0 {
			continue
		}

		c := &r.countries[pos-1]
		if c.Forbidden != forbid {
			c.Forbidden = forbid
			changed++
		}
	}

	return
}

// NewResolver returns a Resolver over the registry. Resolvers are not safe for
// concurrent use; give each compilation its own.
func (r *Registry) NewResolver() *Resolver {
	return &Resolver{registry: r}
}

func (r *Registry) add(c Country) {
	r.countries = append(r.countries, c)
	r.index[c.Key] = int32(len(r.countries))
	r.generation++
}

func (r *Registry) reset() {
	r.countries = nil
	for i := range r.index {
		r.index[i] = 0
	}
	r.generation++
}

// search returns the position of id in the registry, or -1.
func (r *Registry) search(id uint64) int {
	i := sort.Search(len(r.countries), func(i int) bool {
		return r.countries[i].GeonameID >= id
	})
	if i < len(r.countries) && r.countries[i].GeonameID == id {
		return i
	}
	return -1
}

// ParseCodeList turns a comma separated list of country codes into keys,
// dropping anything that is not a two letter code.
func ParseCodeList(list string) []CodeKey {
	var keys []CodeKey
	for _, code := range csvfeed.Tokenize(list, MaxCountries) {
		if key := PackCode(strings.TrimSpace(code)); key != 0 {
			keys = append(keys, key)
		}
	}
	return keys
}

// ParseGeonameID reads the decimal digits at the start of s. Anything that does
// not start with a digit yields 0.
func ParseGeonameID(s string) uint64 {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	id, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxUint64
		}
		return 0
	}
	return id
}
