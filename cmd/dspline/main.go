// Command dspline drives a d-spline search over a table of measured values,
// one value per line, and reports how few evaluations it needs to find the
// minimum.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
