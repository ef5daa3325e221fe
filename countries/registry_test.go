package countries

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"xtgeoip/csvfeed"
	"xtgeoip/testutils"
)

const (
	germanyID = "2921044"
	franceID  = "3017382"
	usID      = "6252001"
)

func newTestRegistry(t *testing.T) *Registry {
	return NewRegistry(testutils.NewTestLogger(t), testutils.NewMemFileSystem())
}

func loadFeed(t *testing.T, r *Registry, rows ...string) (int, error) {
	return r.Load(strings.NewReader(testutils.LocationsFeed(rows...)))
}

func mustLoad(t *testing.T, rows ...string) *Registry {
	r := newTestRegistry(t)
	_, err := loadFeed(t, r, rows...)
	assert.Nil(t, err)
	return r
}

func TestLoadGood(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := newTestRegistry(t)

	// Act
	n, err := loadFeed(t, r,
		testutils.Location(germanyID, "EU", "DE", "Germany"),
		testutils.Location(franceID, "EU", "fr", "France"),
		testutils.Location(usID, "NA", "US", "United States"),
	)

	// Assert
	assert.Nil(err)
	assert.Equal(3, n)
	assert.Equal(3, r.Len())

	de, ok := r.Lookup(PackCode("de"))
	assert.True(ok)
	assert.Equal(uint64(2921044), de.GeonameID)
	assert.Equal("DE", de.Code)
	assert.False(de.Forbidden)

	fr, ok := r.Lookup(PackCode("FR"))
	assert.True(ok)
	assert.Equal("FR", fr.Code)

	_, ok = r.Lookup(PackCode("IT"))
	assert.False(ok)
}

func TestLoadKeepsGeonameOrder(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t,
		testutils.Location("5", "EU", "ZZ", ""),
		testutils.Location("9", "EU", "AA", ""),
	)

	countries := r.Countries()
	if assert.Len(countries, 2) {
		assert.Equal("ZZ", countries[0].Code)
		assert.Equal("AA", countries[1].Code)
	}

	// Countries returns a copy.
	countries[0].Forbidden = true
	zz, _ := r.Lookup(PackCode("ZZ"))
	assert.False(zz.Forbidden)
}

func TestLoadFallsBackToContinentCode(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t, testutils.Location("6255148", "EU", "", "Europe"))

	eu, ok := r.Lookup(PackCode("EU"))
	assert.True(ok)
	assert.Equal(uint64(6255148), eu.GeonameID)
}

func TestLoadSkipsInvalidAndDuplicateCodes(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := newTestRegistry(t)

	// Act
	n, err := loadFeed(t, r,
		testutils.Location("1", "EU", "DEU", ""),
		testutils.Location("2", "", "", ""),
		testutils.Location("3", "EU", "DE", ""),
		testutils.Location("4", "EU", "de", ""),
		testutils.Location("5", "EU", "FR", ""),
	)

	// Assert
	assert.Nil(err)
	assert.Equal(2, n)
	de, _ := r.Lookup(PackCode("DE"))
	assert.Equal(uint64(3), de.GeonameID)
}

func TestLoadUnsortedGeonameID(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := newTestRegistry(t)

	// Act
	n, err := loadFeed(t, r,
		testutils.Location("5", "EU", "DE", ""),
		testutils.Location("5", "EU", "FR", ""),
		testutils.Location("9", "EU", "IT", ""),
	)

	// Assert
	assert.ErrorIs(err, ErrUnsortedGeonameID)
	assert.Equal(3, csvfeed.LineOf(err))
	assert.Equal(0, n)
	assert.Equal(0, r.Len())
	_, ok := r.Lookup(PackCode("DE"))
	assert.False(ok)
}

func TestLoadDescendingGeonameID(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)
	_, err := loadFeed(t, r,
		testutils.Location("9", "EU", "DE", ""),
		testutils.Location("5", "EU", "FR", ""),
	)

	assert.ErrorIs(err, ErrUnsortedGeonameID)
	assert.Equal(3, csvfeed.LineOf(err))
}

func TestLoadNonNumericGeonameID(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)
	_, err := loadFeed(t, r, testutils.Location("abc", "EU", "DE", ""))

	assert.ErrorIs(err, ErrUnsortedGeonameID)
	assert.Equal(2, csvfeed.LineOf(err))
}

func TestLoadReservedGeonameID(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)
	_, err := loadFeed(t, r,
		testutils.Location("5", "EU", "DE", ""),
		testutils.Location(strconv.FormatUint(ProxyGeonameID, 10), "EU", "FR", ""),
	)

	assert.ErrorIs(err, ErrReservedGeonameID)
	assert.Equal(3, csvfeed.LineOf(err))
	assert.Equal(0, r.Len())
}

func TestLoadMissingColumn(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	feed := "geoname_id,locale_code,continent_code,continent_name,country_name\n" +
		"2921044,en,EU,Europe,Germany\n"
	r := newTestRegistry(t)

	// Act
	_, err := r.Load(strings.NewReader(feed))

	// Assert
	assert.ErrorIs(err, csvfeed.ErrMissingColumns)
	assert.Equal(1, csvfeed.LineOf(err))
	assert.Equal(0, r.Len())
}

func TestLoadEmptyFeeds(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)

	_, err := r.Load(strings.NewReader(""))
	assert.ErrorIs(err, ErrNoUsableData)
	assert.Equal(1, csvfeed.LineOf(err))

	_, err = r.Load(strings.NewReader(testutils.LocationsFeed()))
	assert.ErrorIs(err, ErrNoUsableData)
	assert.Equal(2, csvfeed.LineOf(err))

	_, err = loadFeed(t, r, testutils.Location("1", "", "", ""))
	assert.ErrorIs(err, ErrNoUsableData)
}

func TestLoadShortRow(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)
	_, err := loadFeed(t, r, testutils.Location("1", "EU", "DE", ""), "2,en,EU")

	assert.ErrorIs(err, csvfeed.ErrInsufficientColumns)
	assert.Equal(3, csvfeed.LineOf(err))
}

func TestLoadFileTooLong(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	var feed strings.Builder
	feed.WriteString(testutils.LocationsHeader + "\n")
	for id := 1; id <= MaxCountries; id++ {
		feed.WriteString(testutils.Location(strconv.Itoa(id), "EU", "DE", "") + "\n")
	}
	r := NewRegistry(zerolog.Nop(), testutils.NewMemFileSystem())

	// Act
	_, err := r.Load(strings.NewReader(feed.String()))

	// Assert
	assert.ErrorIs(err, ErrFileTooLong)
	assert.Equal(MaxCountries, csvfeed.LineOf(err))
}

func TestLoadReplacesPreviousContents(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t, testutils.Location("1", "EU", "DE", ""))
	_, err := loadFeed(t, r, testutils.Location("2", "EU", "FR", ""))

	assert.Nil(err)
	assert.Equal(1, r.Len())
	_, ok := r.Lookup(PackCode("DE"))
	assert.False(ok)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	fs := testutils.NewMemFileSystem()
	fs.Put("/data/locations.csv", testutils.LocationsFeed(testutils.Location(germanyID, "EU", "DE", "Germany")))
	r := NewRegistry(testutils.NewTestLogger(t), fs)

	// Act
	n, err := r.LoadFile("/data/locations.csv")
	_, missingErr := r.LoadFile("/data/missing.csv")

	// Assert
	assert.Nil(err)
	assert.Equal(1, n)
	assert.ErrorIs(missingErr, ErrOpenFailed)
}

func TestAddVirtualCountries(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := mustLoad(t, testutils.Location(germanyID, "EU", "DE", ""))

	// Act
	added := r.AddVirtualCountries()

	// Assert
	assert.Equal(3, added)
	assert.Equal(4, r.Len())

	for code, id := range map[string]uint64{ProxyCode: ProxyGeonameID, SatelliteCode: SatelliteGeonameID, OtherCode: OtherGeonameID} {
		c, ok := r.Lookup(PackCode(code))
		assert.True(ok, code)
		assert.Equal(id, c.GeonameID, code)
		assert.True(IsReserved(c.GeonameID), code)
	}

	countries := r.Countries()
	for i := 1; i < len(countries); i++ {
		assert.Less(countries[i-1].GeonameID, countries[i].GeonameID)
	}
}

func TestAddVirtualCountriesTwice(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := mustLoad(t, testutils.Location(germanyID, "EU", "DE", ""))
	r.AddVirtualCountries()

	// Act
	added := r.AddVirtualCountries()

	// Assert
	assert.Zero(added)
	assert.Equal(4, r.Len())
	codes := []string{}
	for _, c := range r.Countries() {
		codes = append(codes, c.Code)
	}
	assert.Equal([]string{"DE", ProxyCode, SatelliteCode, OtherCode}, codes)
}

func TestFilterAllowList(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := mustLoad(t,
		testutils.Location(germanyID, "EU", "DE", ""),
		testutils.Location(franceID, "EU", "FR", ""),
	)
	r.AddVirtualCountries()

	// Act
	changed := r.Filter([]CodeKey{PackCode("DE"), PackCode("DE"), PackCode("XX")}, false)

	// Assert
	assert.Equal(1, changed)
	for _, c := range r.Countries() {
		assert.Equal(c.Code != "DE", c.Forbidden, c.Code)
	}
}

func TestFilterForbidList(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t,
		testutils.Location(germanyID, "EU", "DE", ""),
		testutils.Location(franceID, "EU", "FR", ""),
	)
	r.AddVirtualCountries()

	changed := r.Filter(ParseCodeList("fr,a1,XX"), true)

	assert.Equal(2, changed)
	for _, c := range r.Countries() {
		assert.Equal(c.Code == "FR" || c.Code == ProxyCode, c.Forbidden, c.Code)
	}

	// Forbidding again changes nothing.
	assert.Equal(0, r.Filter(ParseCodeList("FR"), true))
}

func TestFilterEmptyRegistry(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t)

	assert.Equal(0, r.Filter([]CodeKey{PackCode("DE")}, false))
	assert.Equal(0, r.Len())
}

func TestParseCodeList(t *testing.T) {
	assert := assert.New(t)

	keys := ParseCodeList("de, FR,USA,,x,\"it\"")

	assert.Equal([]CodeKey{PackCode("DE"), PackCode("FR"), PackCode("IT")}, keys)
	assert.Empty(ParseCodeList(""))
}

func TestPackCode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(PackCode("DE"), PackCode("de"))
	assert.Equal(PackCode("DE"), PackCode("dE"))
	assert.Equal(CodeKey('D')<<8|CodeKey('E'), PackCode("DE"))
	assert.Less(PackCode("AD"), PackCode("AE"))
	assert.Less(PackCode("AZ"), PackCode("BA"))
	assert.NotEqual(PackCode("DE"), PackCode("ED"))

	for _, bad := range []string{"", "D", "DEU", "\x00A", "A\x00"} {
		assert.Equal(CodeKey(0), PackCode(bad), "%q", bad)
	}

	assert.Equal("DE", PackCode("de").String())
	assert.Equal("", CodeKey(0).String())
}

func TestParseGeonameID(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint64(2921044), ParseGeonameID("2921044"))
	assert.Equal(uint64(123), ParseGeonameID("123abc"))
	assert.Equal(uint64(0), ParseGeonameID("abc"))
	assert.Equal(uint64(0), ParseGeonameID(""))
	assert.Equal(uint64(0), ParseGeonameID(" 5"))
	assert.Equal(uint64(math.MaxUint64), ParseGeonameID("99999999999999999999999"))
}
