// Package plonkish provides a minimal plonkish (row/column) arithmetization
// toolkit: advice and fixed columns, per-row selectors, polynomial gates and
// a mock proving harness to check gate satisfaction of an assigned circuit.
//
// Circuits are built over the BN254 scalar field. The repository ships one
// gadget, a conditional-selection (mux) chip, under std/mux.
package plonkish

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
