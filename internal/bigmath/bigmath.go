// Package bigmath provides the modular-arithmetic primitives the SRP-6a
// client half is built on: exact modular exponentiation, modular
// subtraction normalized into [0, modulus), and uniformly distributed
// random scalars in [1, modulus).
package bigmath

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ModPow returns base^exp mod modulus.
func ModPow(base, exp, modulus *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, modulus)
}

// ModSub returns a-b mod modulus, normalized into [0, modulus).
func ModSub(a, b, modulus *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	r.Mod(r, modulus)
	if r.Sign() < 0 {
		r.Add(r, modulus)
	}
	return r
}

// RandomInRange returns a uniformly distributed value in [1, modulus),
// using paranoia extra bytes (paranoia*8 bits) of randomness beyond
// modulus's bit length
// as blinding against biased RNGs. paranoia must be in [0, 10].
func RandomInRange(modulus *big.Int, paranoia int) (*big.Int, error) {
	if paranoia < 0 || paranoia > 10 {
		return nil, fmt.Errorf("bigmath: paranoia out of range [0,10]: %d", paranoia)
	}

	bits := modulus.BitLen() + paranoia*8
	byteLen := (bits + 7) / 8

	for attempt := 0; attempt < 3; attempt++ {
		buf := make([]byte, byteLen)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("bigmath: rng failure: %w", err)
		}

		n := new(big.Int).SetBytes(buf)
		n.Mod(n, modulus)
		if n.Sign() != 0 {
			return n, nil
		}
	}

	return nil, fmt.Errorf("bigmath: rng failure: repeated zero scalar")
}
