// Package randutil centralises rand/v2 seeding so every deck shuffle and
// random ability target is reproducible from a single int64 seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a generator seeded deterministically from one int64. The
// two PCG words are derived by mixing, so adjacent seeds do not produce
// correlated shuffles.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a fresh wall-clock seed for production rooms. Tests pass
// fixed seeds to New instead.
func Seed() int64 {
	return time.Now().UnixNano()
}

// mix is the splitmix64 finalizer
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
