package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommaAsFraction(t *testing.T) {
	syntonic := NewComma("syntonic comma, Didymus comma", []int8{-4, 4, -1})
	numer, denom, ok := syntonic.AsFraction()
	require.True(t, ok)
	assert.Equal(t, uint64(81), numer)
	assert.Equal(t, uint64(80), denom)
}

func TestCommaPrimeLimit(t *testing.T) {
	fifth := NewComma("perfect fifth", []int8{-1, 1})
	assert.Equal(t, uint8(3), fifth.PrimeLimit())

	unison := NewComma("unison, perfect prime", nil)
	assert.Equal(t, uint8(1), unison.PrimeLimit())
}

func TestCommaCatalogLookupByAlternateName(t *testing.T) {
	catalog := NewCommaCatalog(HuygensFokkerIntervals())

	found, ok := catalog.CommaForName("Didymus comma")
	require.True(t, ok)
	assert.Equal(t, "syntonic comma, Didymus comma", found.Description)

	_, ok = catalog.CommaForName("not a real comma")
	assert.False(t, ok)
}

func TestCommaCatalogCommasForLimit(t *testing.T) {
	catalog := NewCommaCatalog(HuygensFokkerIntervals())
	threeLimit := catalog.CommasForLimit(3)
	assert.NotEmpty(t, threeLimit)
	for _, c := range threeLimit {
		assert.Equal(t, uint8(3), c.PrimeLimit())
	}
}
