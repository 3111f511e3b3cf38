// factor prints the prime factors of each integer given on the command line.
// Install it with `go install github.com/toejough/primefactor/factor@latest`.
//
//	$ factor 12 49 97
//	12: 2 2 3
//	49: 7 7
//	97: 97
//
// Pass `--format json` (or set FACTOR_FORMAT=json) for machine-readable output.
package main

import (
	"os"

	"github.com/toejough/primefactor"
	"github.com/toejough/primefactor/factor/run"
)

// main is the entry point of the factor tool.
func main() {
	os.Exit(run.Main(os.Args, os.Getenv, primefactor.Factorizer{}, os.Stdout, os.Stderr))
}
