package tuning

import (
	"math"
	"strings"
)

// U8Primes is the fixed prime sequence [2, 3, 5, 7, 11, ...] that Comma and
// Val exponent vectors are indexed against, position i always meaning
// prime U8Primes[i].
var U8Primes = []uint8{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251,
}

// Comma is a named just interval in prime-factor exponent-vector form:
// PrimeFactors[i] is the exponent of U8Primes[i].
type Comma struct {
	Description  string
	PrimeFactors []int8
}

// NewComma builds a Comma.
func NewComma(description string, primeFactors []int8) Comma {
	return Comma{Description: description, PrimeFactors: primeFactors}
}

// PrimeLimit returns the prime at the last position of PrimeFactors,
// whether or not its exponent is zero (1 for an empty vector).
func (c Comma) PrimeLimit() uint8 {
	if len(c.PrimeFactors) == 0 {
		return 1
	}
	return U8Primes[len(c.PrimeFactors)-1]
}

// AsRatio multiplies out the prime factorization.
func (c Comma) AsRatio() Ratio {
	value := 1.0
	for i, power := range c.PrimeFactors {
		value *= math.Pow(float64(U8Primes[i]), float64(power))
	}
	return RatioFromFloat(value)
}

// AsFraction multiplies out the prime factorization as an exact n/d pair,
// reporting false on uint64 overflow.
func (c Comma) AsFraction() (numer, denom uint64, ok bool) {
	numer, denom = 1, 1
	for i, power := range c.PrimeFactors {
		prime := uint64(U8Primes[i])
		if power >= 0 {
			n, overflowed := checkedPow(prime, uint(power))
			if overflowed {
				return 0, 0, false
			}
			numer *= n
		} else {
			n, overflowed := checkedPow(prime, uint(-power))
			if overflowed {
				return 0, 0, false
			}
			denom *= n
		}
	}
	return numer, denom, true
}

func checkedPow(base uint64, exp uint) (uint64, bool) {
	result := uint64(1)
	for i := uint(0); i < exp; i++ {
		next := result * base
		if base != 0 && next/base != result {
			return 0, true
		}
		result = next
	}
	return result, false
}

// HuygensFokkerIntervals returns a curated subset of the named p-limit
// commas cataloged at huygens-fokker.org, covering the intervals most
// commonly referenced when naming a temperament's tempered-out commas.
func HuygensFokkerIntervals() []Comma {
	table := []struct {
		description string
		factors     []int8
	}{
		{"unison, perfect prime", nil},
		{"octave", []int8{1}},
		{"perfect fifth", []int8{-1, 1}},
		{"perfect fourth", []int8{2, -1}},
		{"major third", []int8{-2, 0, 1}},
		{"minor third", []int8{1, 1, -1}},
		{"harmonic seventh", []int8{-2, 0, 0, 1}},
		{"septimal or Huygens' tritone, BP fourth", []int8{0, 0, -1, 1}},
		{"major whole tone", []int8{-3, 2}},
		{"minor whole tone", []int8{1, -2, 1}},
		{"classic major seventh", []int8{-3, 1, 1}},
		{"major diatonic semitone", []int8{-1, 1, 1, -1}},
		{"Pythagorean minor seventh", []int8{4, -2}},
		{"minor diatonic semitone", []int8{4, -1, -1}},
		{"syntonic comma, Didymus comma", []int8{-4, 4, -1}},
		{"Pythagorean major third", []int8{-6, 4}},
		{"Pythagorean comma, ditonic comma", []int8{-19, 12}},
		{"diaschisma", []int8{11, -4, -2}},
		{"schisma", []int8{-15, 8, 1}},
		{"kleisma, semicomma majeur", []int8{-6, -5, 6}},
		{"septimal kleisma", []int8{-5, 2, 2, -1}},
		{"septimal comma, Archytas' comma", []int8{6, -2, 0, -1}},
		{"minor diesis, diesis", []int8{7, 0, -3}},
		{"major diesis", []int8{3, 4, -4}},
		{"magic comma, small diesis", []int8{-10, -1, 5}},
		{"Würschmidt's comma", []int8{17, 1, -8}},
		{"Amity comma, kleisma - schisma", []int8{9, -13, 5}},
		{"valinorsma", []int8{4, 0, -2, -1, 1}},
		{"undecimal comma, al-Farabi's 1/4-tone", []int8{-5, 1, 0, 0, 1}},
		{"17th harmonic", []int8{-4, 0, 0, 0, 0, 0, 1}},
		{"19th harmonic", []int8{-4, 0, 0, 0, 0, 0, 0, 1}},
	}

	commas := make([]Comma, len(table))
	for i, entry := range table {
		commas[i] = NewComma(entry.description, entry.factors)
	}
	return commas
}

// CommaCatalog indexes a Comma set by prime limit and by (comma-separated)
// alternate name, matching names case- and whitespace-insensitively.
type CommaCatalog struct {
	byLimit map[uint8][]Comma
	byName  map[string]commaRef
}

type commaRef struct {
	limit uint8
	index int
}

// NewCommaCatalog indexes commas.
func NewCommaCatalog(commas []Comma) *CommaCatalog {
	catalog := &CommaCatalog{
		byLimit: make(map[uint8][]Comma),
		byName:  make(map[string]commaRef),
	}
	for _, c := range commas {
		limit := c.PrimeLimit()
		bucket := catalog.byLimit[limit]
		ref := commaRef{limit: limit, index: len(bucket)}
		for _, name := range strings.Split(c.Description, ",") {
			catalog.byName[normalizeCommaName(name)] = ref
		}
		catalog.byLimit[limit] = append(bucket, c)
	}
	return catalog
}

// CommasForLimit returns every indexed comma whose prime limit equals
// primeLimit.
func (c *CommaCatalog) CommasForLimit(primeLimit uint8) []Comma {
	return c.byLimit[primeLimit]
}

// CommaForName looks up a comma by any of its alternate names.
func (c *CommaCatalog) CommaForName(name string) (Comma, bool) {
	ref, ok := c.byName[normalizeCommaName(name)]
	if !ok {
		return Comma{}, false
	}
	return c.byLimit[ref.limit][ref.index], true
}

func normalizeCommaName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
