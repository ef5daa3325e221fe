package csvfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var countryColumns = []string{"geoname_id", "continent_code", "country_iso_code"}

func TestDetectColumns(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	header := []string{"geoname_id", "locale_code", "continent_code", "continent_name", "country_iso_code", "country_name", "is_in_european_union"}

	// Act
	c := DetectColumns(header, countryColumns)

	// Assert
	assert.True(c.Complete())
	assert.Equal(3, c.Found)
	assert.Equal([]int{0, 2, 4}, c.Positions)
	assert.Equal(4, c.Highest)
}

func TestDetectColumnsOutOfOrder(t *testing.T) {
	assert := assert.New(t)

	c := DetectColumns([]string{"country_iso_code", "x", "geoname_id", "continent_code"}, countryColumns)

	assert.True(c.Complete())
	assert.Equal([]int{2, 3, 0}, c.Positions)
	assert.Equal(3, c.Highest)
}

func TestDetectColumnsMissing(t *testing.T) {
	assert := assert.New(t)

	c := DetectColumns([]string{"geoname_id", "continent_code", "country_name"}, countryColumns)

	assert.False(c.Complete())
	assert.Equal(2, c.Found)
	assert.Equal(-1, c.Positions[2])
}

func TestDetectColumnsDuplicateHeader(t *testing.T) {
	assert := assert.New(t)

	c := DetectColumns([]string{"geoname_id", "geoname_id", "continent_code"}, countryColumns)

	assert.Equal(2, c.Found)
	assert.Equal(0, c.Positions[0])
}

func TestDetectColumnsEmpty(t *testing.T) {
	assert := assert.New(t)

	c := DetectColumns(nil, countryColumns)

	assert.Zero(c.Found)
	assert.False(c.Complete())
}
