// Package namegen builds hyphen-joined names from random words.
package namegen

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Separator joins the words of a name.
const Separator = "-"

// Generator draws words with a non-cryptographic PRNG. Not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded from the clock.
func New() *Generator {
	now := uint64(time.Now().UnixNano())
	return NewSeeded(now, now>>32)
}

// NewSeeded returns a Generator whose draws are reproducible for the given seed.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate picks length words uniformly, with replacement, and joins them with Separator.
// A length of zero, or an empty word list, yields "".
func (g *Generator) Generate(words []string, length int) string {
	if length <= 0 || len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(words[g.rnd.IntN(len(words))])
	}
	return sb.String()
}
