// Package rng provides the randomness capability for the Kaizo Quest game
// engine. Every component that needs randomness (stat scaling, stun recovery,
// turn-order coin flips, content generation) takes a Source rather than
// reaching for ambient global state, so tests can substitute a deterministic
// implementation.
package rng

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for the game engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any
// n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// CoinFlip returns true with probability 1/2.
//
// Precondition: src must be non-nil.
func CoinFlip(src Source) bool {
	return src.Intn(2) == 0
}
