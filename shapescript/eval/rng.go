package eval

// RNG is ShapeScript's deterministic pseudo-random source (spec.md §5,
// §8's RNG write-back testable property). It wraps a single uint64 state
// behind a pointer so that copying an RNG value either shares state (a
// normal block/loop context, which must observably advance its parent) or,
// via Fork, creates an independent copy (a definition context, whose RNG
// consumption must never be visible to its parent).
type RNG struct {
	state *uint64
}

// NewRNG returns an RNG seeded deterministically from seed.
func NewRNG(seed uint64) RNG {
	s := seed
	return RNG{state: &s}
}

// Fork returns an independent RNG starting from r's current state; further
// consumption of the fork does not affect r.
func (r RNG) Fork() RNG {
	s := *r.state
	return RNG{state: &s}
}

// next advances the shared splitmix64 state and returns the raw output.
func (r RNG) next() uint64 {
	*r.state += 0x9E3779B97F4A7C15
	z := *r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns the next value in [0, 1).
func (r RNG) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}
