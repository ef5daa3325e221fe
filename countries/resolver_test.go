package countries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"xtgeoip/testutils"
)

func TestResolve(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := mustLoad(t,
		testutils.Location(germanyID, "EU", "DE", ""),
		testutils.Location(franceID, "EU", "FR", ""),
	)
	r.AddVirtualCountries()
	res := r.NewResolver()

	tests := []struct {
		id        uint64
		proxy     bool
		satellite bool
		code      string
	}{
		{2921044, false, false, "DE"},
		{2921044, false, false, "DE"},
		{3017382, false, false, "FR"},
		{3017382, true, false, ProxyCode},
		{3017382, false, true, SatelliteCode},
		{3017382, true, true, ProxyCode},
		{0, false, false, OtherCode},
		{0, false, true, SatelliteCode},
		{2921044, false, false, "DE"},
	}

	// Act & Assert
	for _, tt := range tests {
		c, ok := res.Resolve(tt.id, tt.proxy, tt.satellite)
		assert.True(ok)
		assert.Equal(tt.code, c.Code, "%d %v %v", tt.id, tt.proxy, tt.satellite)
	}
}

func TestResolveUnknown(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t, testutils.Location(germanyID, "EU", "DE", ""))
	res := r.NewResolver()

	_, ok := res.Resolve(42, false, false)
	assert.False(ok)

	// Without virtual countries there is nothing to fall back to.
	_, ok = res.Resolve(0, false, false)
	assert.False(ok)
}

func TestResolveSeesRegistryChanges(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r := mustLoad(t, testutils.Location(germanyID, "EU", "DE", ""))
	res := r.NewResolver()
	_, ok := res.Resolve(0, false, false)
	assert.False(ok)

	// Act
	r.AddVirtualCountries()
	other, otherOK := res.Resolve(0, false, false)

	_, err := r.Load(strings.NewReader(testutils.LocationsFeed(testutils.Location(germanyID, "EU", "AT", ""))))
	assert.Nil(err)
	reloaded, reloadedOK := res.Resolve(2921044, false, false)

	// Assert
	assert.True(otherOK)
	assert.Equal(OtherCode, other.Code)
	assert.True(reloadedOK)
	assert.Equal("AT", reloaded.Code)
}

func TestResolveReflectsFilter(t *testing.T) {
	assert := assert.New(t)

	r := mustLoad(t, testutils.Location(germanyID, "EU", "DE", ""))
	res := r.NewResolver()
	de, _ := res.Resolve(2921044, false, false)
	assert.False(de.Forbidden)

	r.Filter([]CodeKey{PackCode("DE")}, true)
	de, _ = res.Resolve(2921044, false, false)

	assert.True(de.Forbidden)
}
