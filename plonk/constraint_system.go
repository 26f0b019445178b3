package plonk

import (
	"fmt"

	"github.com/consensys/plonkish/logger"
)

// Gate is a named set of polynomial constraints. Every polynomial must
// evaluate to zero at every row of the table; gates that should only apply
// to selected rows scale their polynomials by a selector query.
type Gate struct {
	name  string
	polys []Expression
}

func (g *Gate) Name() string {
	return g.name
}

func (g *Gate) Polynomials() []Expression {
	return g.polys
}

// ConstraintSystem collects column and selector allocations and gate
// definitions during circuit configuration. It is not safe for concurrent
// use; configuration is a single-threaded, one-shot step.
type ConstraintSystem struct {
	nbAdvice    int
	nbFixed     int
	nbSelectors int
	gates       []Gate
}

func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{}
}

// AdviceColumn allocates a new witness column.
func (cs *ConstraintSystem) AdviceColumn() Column {
	c := Column{Index: cs.nbAdvice, Kind: Advice}
	cs.nbAdvice++
	return c
}

// FixedColumn allocates a new fixed column.
func (cs *ConstraintSystem) FixedColumn() Column {
	c := Column{Index: cs.nbFixed, Kind: Fixed}
	cs.nbFixed++
	return c
}

// Selector allocates a new selector.
func (cs *ConstraintSystem) Selector() Selector {
	s := Selector{Index: cs.nbSelectors}
	cs.nbSelectors++
	return s
}

// CreateGate registers a named gate. define receives a VirtualCells to build
// column queries from and returns the gate's constraint polynomials.
//
// A gate with no polynomials is almost certainly a bug, so it panics, as do
// queries against handles the system did not allocate; both are programming
// errors of the circuit, not runtime conditions.
func (cs *ConstraintSystem) CreateGate(name string, define func(v *VirtualCells) []Expression) {
	polys := define(&VirtualCells{cs: cs})
	if len(polys) == 0 {
		panic(fmt.Sprintf("gate %q defines no constraint", name))
	}
	cs.gates = append(cs.gates, Gate{name: name, polys: polys})

	log := logger.Logger()
	log.Debug().Str("gate", name).Int("nbConstraints", len(polys)).Msg("registered gate")
}

func (cs *ConstraintSystem) Gates() []Gate {
	return cs.gates
}

func (cs *ConstraintSystem) NbAdviceColumns() int { return cs.nbAdvice }
func (cs *ConstraintSystem) NbFixedColumns() int  { return cs.nbFixed }
func (cs *ConstraintSystem) NbSelectors() int     { return cs.nbSelectors }

// VirtualCells builds the column and selector queries available inside a
// CreateGate definition.
type VirtualCells struct {
	cs *ConstraintSystem
}

// QueryAdvice returns the value of an advice column at the given rotation as
// an expression.
func (v *VirtualCells) QueryAdvice(col Column, rot Rotation) Expression {
	if col.Kind != Advice || col.Index >= v.cs.nbAdvice {
		panic(fmt.Sprintf("query of unallocated advice column %s", col))
	}
	return Expression{op: opAdviceQuery, col: col, rot: rot}
}

// QueryFixed returns the value of a fixed column at the given rotation as an
// expression.
func (v *VirtualCells) QueryFixed(col Column, rot Rotation) Expression {
	if col.Kind != Fixed || col.Index >= v.cs.nbFixed {
		panic(fmt.Sprintf("query of unallocated fixed column %s", col))
	}
	return Expression{op: opFixedQuery, col: col, rot: rot}
}

// QuerySelector returns the selector at the gate's row as an expression; it
// evaluates to 1 where the selector is enabled and 0 elsewhere.
func (v *VirtualCells) QuerySelector(s Selector) Expression {
	if s.Index >= v.cs.nbSelectors {
		panic(fmt.Sprintf("query of unallocated %s", s))
	}
	return Expression{op: opSelectorQuery, sel: s}
}
