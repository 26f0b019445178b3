// Package circuit provides the assignment layer of a plonkish circuit:
// scoped regions, the layouter that places them on physical rows, and the
// cells returned by bindings.
//
// A Circuit declares its shape against a plonk.ConstraintSystem once, then
// binds values row by row through a Layouter. The backend receiving the
// bindings (for tests, dev.MockProver) implements Assignment.
package circuit

import (
	"github.com/consensys/plonkish/plonk"
)

// Circuit is a complete arithmetization.
//
// Configure declares columns, selectors and gates; it is called exactly once
// per constraint system and must store the resulting configuration on the
// circuit for Synthesize to use. Synthesize binds witness values through the
// layouter; it may be called with unknown values to synthesize the circuit
// shape only.
type Circuit interface {
	Configure(meta *plonk.ConstraintSystem)
	Synthesize(l Layouter) error
}

// AssignedCell is the result of binding a value into a cell of the row
// table. It is returned from region assignments so a gadget's output can be
// fed to further gates without re-deriving it.
type AssignedCell struct {
	Column plonk.Column
	Row    int // absolute row in the backing table
	Value  plonk.Value
}

// Assignment is the capability a backend exposes to receive cell bindings,
// addressed by absolute row.
type Assignment interface {
	EnableSelector(s plonk.Selector, row int) error
	AssignAdvice(col plonk.Column, row int, v plonk.Value) (AssignedCell, error)
	AssignFixed(col plonk.Column, row int, v plonk.Value) (AssignedCell, error)
}

// Region binds cells at offsets local to a scoped region; the layouter
// translates offsets to absolute rows. Each cell may be assigned at most
// once, and a failed binding aborts the enclosing synthesis.
type Region interface {
	EnableSelector(s plonk.Selector, offset int) error
	AssignAdvice(name string, col plonk.Column, offset int, v plonk.Value) (AssignedCell, error)
	AssignFixed(name string, col plonk.Column, offset int, v plonk.Value) (AssignedCell, error)
}

// Layouter owns region placement. AssignRegion opens a named region, runs fn
// with it and commits the rows the region used; Namespace returns a layouter
// whose region names are prefixed, for error and log context.
type Layouter interface {
	AssignRegion(name string, fn func(r Region) error) error
	Namespace(name string) Layouter
}
