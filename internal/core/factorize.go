// Package core holds the prime factorization logic fronted by the primefactor package.
package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for inputs that have no prime factorization (n <= 0).
var ErrInvalidArgument = errors.New("invalid argument")

// Factorize returns the prime factors of n in ascending order, repeated by multiplicity.
// Factorize(1) returns an empty, non-nil slice.
func Factorize(n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot factorize %d, value must be positive", ErrInvalidArgument, n)
	}

	factors := []int{}
	remaining := n

	for candidate := 2; candidate <= remaining/candidate; candidate = nextCandidate(candidate) {
		for remaining%candidate == 0 {
			factors = append(factors, candidate)
			remaining /= candidate
		}
	}

	// whatever survives the √remaining bound has no smaller divisor, so it is prime
	if remaining > 1 {
		factors = append(factors, remaining)
	}

	return factors, nil
}

// IsPrime reports whether n is prime. Values below 2 are not prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}

	for candidate := 2; candidate <= n/candidate; candidate = nextCandidate(candidate) {
		if n%candidate == 0 {
			return false
		}
	}

	return true
}

// CheckedProduct multiplies positive factors together. It reports false if any factor is
// below 1 or the product does not fit in an int. The empty product is 1.
func CheckedProduct(factors []int) (int, bool) {
	product := 1

	for _, f := range factors {
		if f < 1 || product > math.MaxInt/f {
			return 0, false
		}

		product *= f
	}

	return product, true
}

// Product multiplies the given factors together. The empty product is 1.
// Overflow wraps; use CheckedProduct when the factors are untrusted.
func Product(factors []int) int {
	product := 1
	for _, f := range factors {
		product *= f
	}

	return product
}

// nextCandidate advances a trial divisor: 2 is followed by 3, then odd numbers only.
func nextCandidate(candidate int) int {
	if candidate == 2 {
		return 3
	}

	return candidate + 2
}
