package table

import (
	"math/rand/v2"
	"strings"
)

// RandomLength is the length of generated keys and values.
const RandomLength = 3

// Printable ASCII range sampled by [Generator].
const (
	asciiFirst = 32
	asciiLast  = 126
)

// reserved characters never produced by [Generator].
const reserved = " |:"

// Generator produces rows of random printable keys and values.
//
// Keys are not checked for uniqueness, neither within a row nor against
// other rows. A key drawn twice for the same row overwrites the first.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded from the runtime's random source.
func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a deterministic generator.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// Row returns a row of cols random cells.
func (g *Generator) Row(cols int) *Row {
	row := NewRow()

	for range cols {
		key := g.String(RandomLength)
		value := g.String(RandomLength)
		row.Set(key, value)
	}

	return row
}

// String returns n random characters. Characters are drawn one at a time and
// redrawn while they are reserved.
func (g *Generator) String(n int) string {
	var b strings.Builder

	b.Grow(n)

	for b.Len() < n {
		ch := byte(asciiFirst + g.rnd.IntN(asciiLast-asciiFirst+1))
		if IsReserved(ch) {
			continue
		}

		b.WriteByte(ch)
	}

	return b.String()
}

// IsReserved reports whether ch is a space or one of the format delimiters.
func IsReserved(ch byte) bool {
	return strings.IndexByte(reserved, ch) >= 0
}
