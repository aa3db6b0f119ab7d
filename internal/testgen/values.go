package testgen

// DefaultLower is used when no lower bound is specified.
const DefaultLower int64 = -100

// DefaultUpper is used when no upper bound is specified.
const DefaultUpper int64 = 100

// RandomCount is the number of random values generated per variable.
const RandomCount = 20

// GenerateValues produces boundary plus pseudo-random values for a variable.
// The sequence is deterministic.
func GenerateValues(c *VarConstraint) []int64 {
	lo := DefaultLower
	hi := DefaultUpper
	if c.Lower != nil {
		lo = *c.Lower
	}
	if c.Upper != nil {
		hi = *c.Upper
	}
	// Clamp upper if somehow inverted
	if hi < lo {
		hi = lo
	}

	excluded := make(map[int64]bool, len(c.NotEqual))
	for _, ne := range c.NotEqual {
		excluded[ne] = true
	}

	seen := make(map[int64]bool)
	var values []int64
	add := func(v int64) {
		if v >= lo && v <= hi && !seen[v] && !excluded[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	add(lo)
	add(lo + 1)
	add(0)
	add(1)
	add(-1)
	if hi > 1 {
		add(hi - 1)
	}
	add(hi)

	rng := uint64(0x517cc1b727220a95)
	for i := 0; i < RandomCount; i++ {
		rng = xorshift64(rng)
		add(randRange(rng, lo, hi))
	}

	// every value in range may be excluded
	if len(values) == 0 {
		values = append(values, lo)
	}
	return values
}

// xorshift64 is a simple deterministic PRNG.
func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}

// randRange maps a PRNG state to a value in [lo, hi].
func randRange(state uint64, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	r := uint64(hi-lo) + 1
	return lo + int64(state%r)
}
