// Package match provides gomega-compatible matchers for checking prime factorizations.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/primefactor/match"
//	)
//
//	g.Expect(factors).To(BePrimeFactorizationOf(360))
package match

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/toejough/primefactor/internal/core"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// It has the same method set as gomega.GomegaMatcher, so every matcher here
// can be passed to Expect(...).To(...).
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
	NegatedFailureMessage(actual any) string
}

// BeNonDecreasing returns a matcher for an []int sorted in ascending order, ties allowed.
func BeNonDecreasing() Matcher {
	return &sortedMatcher{}
}

// BePrimeFactorizationOf returns a matcher that succeeds when the actual []int
// contains only primes, is sorted ascending, and multiplies to n without overflow.
// It never matches for n <= 0.
//
// Example:
//
//	g.Expect(primefactor.MustFactorize(49)).To(BePrimeFactorizationOf(49))
func BePrimeFactorizationOf(n int) Matcher {
	return &factorizationMatcher{n: n}
}

// ConsistOfPrimes returns a matcher for an []int whose every element is prime.
func ConsistOfPrimes() Matcher {
	return &primesMatcher{}
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	g.Expect(factors).To(Satisfies(func(fs []int) error {
//	    if len(fs) != 2 { return fmt.Errorf("expected a semiprime, got %d factors", len(fs)) }
//	    return nil
//	}))
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

type factorizationMatcher struct {
	n        int
	problems []string
}

func (m *factorizationMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to be the prime factorization of %d: %s",
		actual, m.n, strings.Join(m.problems, "; "))
}

func (m *factorizationMatcher) Match(actual any) (bool, error) {
	factors, err := asInts(actual)
	if err != nil {
		return false, err
	}

	m.problems = nil

	if m.n <= 0 {
		m.problems = append(m.problems, fmt.Sprintf("%d is not positive and has no prime factorization", m.n))

		return false, nil
	}

	if bad := firstNonPrime(factors); bad != nil {
		m.problems = append(m.problems, fmt.Sprintf("%d is not prime", *bad))
	}

	if !slices.IsSorted(factors) {
		m.problems = append(m.problems, "factors are not in ascending order")
	}

	product, ok := core.CheckedProduct(factors)

	switch {
	case !ok:
		m.problems = append(m.problems, "product overflows int or includes a factor below 1")
	case product != m.n:
		m.problems = append(m.problems, fmt.Sprintf("product is %d", product))
	}

	return len(m.problems) == 0, nil
}

func (m *factorizationMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to be the prime factorization of %d", actual, m.n)
}

type primesMatcher struct {
	bad int
}

func (m *primesMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to consist of primes, but %d is not prime", actual, m.bad)
}

func (m *primesMatcher) Match(actual any) (bool, error) {
	factors, err := asInts(actual)
	if err != nil {
		return false, err
	}

	bad := firstNonPrime(factors)
	if bad != nil {
		m.bad = *bad

		return false, nil
	}

	return true, nil
}

func (m *primesMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to contain a non-prime", actual)
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfyMatcher[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("value %v unexpectedly satisfies predicate", actual)
}

type sortedMatcher struct{}

func (sortedMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to be in non-decreasing order", actual)
}

func (sortedMatcher) Match(actual any) (bool, error) {
	factors, err := asInts(actual)
	if err != nil {
		return false, err
	}

	return slices.IsSorted(factors), nil
}

func (sortedMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to be in non-decreasing order", actual)
}

func asInts(actual any) ([]int, error) {
	ints, ok := actual.([]int)
	if !ok {
		return nil, fmt.Errorf("%w: expected []int, got %T", errTypeMismatch, actual)
	}

	return ints, nil
}

// firstNonPrime returns the first element that is not prime, or nil.
func firstNonPrime(factors []int) *int {
	for i := range factors {
		if !core.IsPrime(factors[i]) {
			return &factors[i]
		}
	}

	return nil
}
