// Package primefactor computes prime factorizations by trial division.
//
// This is the public API entry point. Implementation lives in internal/core.
package primefactor

import (
	"github.com/toejough/primefactor/internal/core"
)

// ErrInvalidArgument is returned by Factorize for n <= 0.
var ErrInvalidArgument = core.ErrInvalidArgument

// Factorizer is a value wrapper around Factorize for callers that depend on an interface.
type Factorizer struct{}

// Factorize calls the package-level Factorize.
func (Factorizer) Factorize(n int) ([]int, error) {
	return core.Factorize(n)
}

// CheckedProduct multiplies positive factors together, reporting false on overflow or a factor below 1.
func CheckedProduct(factors []int) (int, bool) {
	return core.CheckedProduct(factors)
}

// Factorize returns the prime factors of n in ascending order, each repeated by its multiplicity.
// Factorize(1) returns an empty slice. Values n <= 0 return an error wrapping ErrInvalidArgument.
func Factorize(n int) ([]int, error) {
	return core.Factorize(n)
}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	return core.IsPrime(n)
}

// MustFactorize is like Factorize but panics if n <= 0.
func MustFactorize(n int) []int {
	factors, err := core.Factorize(n)
	if err != nil {
		panic(err)
	}

	return factors
}

// Product multiplies the given factors together. The empty product is 1. Overflow wraps.
func Product(factors []int) int {
	return core.Product(factors)
}
