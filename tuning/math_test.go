package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivModIntFlooredRemainderIsAlwaysNonNegative(t *testing.T) {
	q, r := divModInt(7, 3)
	assert.Equal(t, 2, q)
	assert.Equal(t, 1, r)

	q, r = divModInt(-7, 3)
	assert.Equal(t, -3, q)
	assert.Equal(t, 2, r)

	q, r = divModInt(7, -3)
	assert.Equal(t, -2, q)
	assert.Equal(t, 1, r)

	q, r = divModInt(-8, 4)
	assert.Equal(t, -2, q)
	assert.Equal(t, 0, r)
}

func TestGcdInt(t *testing.T) {
	assert.Equal(t, 6, gcdInt(54, 24))
	assert.Equal(t, 6, gcdInt(-54, 24))
	assert.Equal(t, 1, gcdInt(17, 5))
	assert.Equal(t, 5, gcdInt(0, 5))
}

func TestExtendedGCDBezoutIdentity(t *testing.T) {
	a, b := 240, 46
	g, x, y := extendedGCD(a, b)
	assert.Equal(t, gcdInt(a, b), g)
	assert.Equal(t, g, a*x+b*y)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfAwayFromZero(2.5))
	assert.Equal(t, -3.0, roundHalfAwayFromZero(-2.5))
	assert.Equal(t, 2.0, roundHalfAwayFromZero(2.4))
}

func TestFastFloor(t *testing.T) {
	assert.Equal(t, 2.0, fastFloor(2.7))
	assert.Equal(t, -3.0, fastFloor(-2.1))
	assert.Equal(t, 2.0, fastFloor(2.0))
}
