// Package dev provides a mock proving harness: it runs circuit synthesis
// into an in-memory row table and checks that every registered gate is
// satisfied at every row. It is the acceptance oracle for circuit tests and
// implements no cryptography.
package dev

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonkish/circuit"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/plonk"
)

// MockProver holds the constraint system and the fully assigned row table of
// one circuit instance. It is the Assignment backend of the layouter during
// Run and the CellQuerier of gate evaluation during Verify.
type MockProver struct {
	cs *plonk.ConstraintSystem
	n  int // number of rows, 2^k

	advice [][]plonk.Value
	fixed  [][]plonk.Value

	selectors      []*bitset.BitSet
	assignedAdvice []*bitset.BitSet
	assignedFixed  []*bitset.BitSet
}

// Run configures the circuit against a fresh constraint system, then
// synthesizes it into a table of 2^k rows. Panics raised by the circuit are
// recovered and returned as errors with their stack.
func Run(k uint, c circuit.Circuit) (m *MockProver, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	meta := plonk.NewConstraintSystem()
	c.Configure(meta)

	n := 1 << k
	m = &MockProver{
		cs:             meta,
		n:              n,
		advice:         make([][]plonk.Value, meta.NbAdviceColumns()),
		fixed:          make([][]plonk.Value, meta.NbFixedColumns()),
		selectors:      make([]*bitset.BitSet, meta.NbSelectors()),
		assignedAdvice: make([]*bitset.BitSet, meta.NbAdviceColumns()),
		assignedFixed:  make([]*bitset.BitSet, meta.NbFixedColumns()),
	}
	for i := range m.advice {
		m.advice[i] = make([]plonk.Value, n)
		m.assignedAdvice[i] = bitset.New(uint(n))
	}
	for i := range m.fixed {
		m.fixed[i] = make([]plonk.Value, n)
		m.assignedFixed[i] = bitset.New(uint(n))
	}
	for i := range m.selectors {
		m.selectors[i] = bitset.New(uint(n))
	}

	log := logger.Logger()
	log.Debug().Int("nbRows", n).
		Int("nbAdvice", meta.NbAdviceColumns()).
		Int("nbFixed", meta.NbFixedColumns()).
		Int("nbGates", len(meta.Gates())).
		Msg("synthesizing circuit")

	l := circuit.NewSingleChipLayouter(m, n)
	if err := c.Synthesize(l); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	return m, nil
}

// ConstraintSystem returns the shape the circuit configured.
func (m *MockProver) ConstraintSystem() *plonk.ConstraintSystem {
	return m.cs
}

func (m *MockProver) EnableSelector(s plonk.Selector, row int) error {
	if s.Index >= len(m.selectors) {
		return fmt.Errorf("unallocated %s", s)
	}
	if row < 0 || row >= m.n {
		return fmt.Errorf("row %d out of range", row)
	}
	m.selectors[s.Index].Set(uint(row))
	return nil
}

func (m *MockProver) AssignAdvice(col plonk.Column, row int, v plonk.Value) (circuit.AssignedCell, error) {
	if col.Kind != plonk.Advice || col.Index >= len(m.advice) {
		return circuit.AssignedCell{}, fmt.Errorf("unallocated advice column %s", col)
	}
	if row < 0 || row >= m.n {
		return circuit.AssignedCell{}, fmt.Errorf("row %d out of range", row)
	}
	if m.assignedAdvice[col.Index].Test(uint(row)) {
		return circuit.AssignedCell{}, fmt.Errorf("cell (%s, row %d) already assigned", col, row)
	}
	m.advice[col.Index][row] = v
	m.assignedAdvice[col.Index].Set(uint(row))
	return circuit.AssignedCell{Column: col, Row: row, Value: v}, nil
}

func (m *MockProver) AssignFixed(col plonk.Column, row int, v plonk.Value) (circuit.AssignedCell, error) {
	if col.Kind != plonk.Fixed || col.Index >= len(m.fixed) {
		return circuit.AssignedCell{}, fmt.Errorf("unallocated fixed column %s", col)
	}
	if row < 0 || row >= m.n {
		return circuit.AssignedCell{}, fmt.Errorf("row %d out of range", row)
	}
	if m.assignedFixed[col.Index].Test(uint(row)) {
		return circuit.AssignedCell{}, fmt.Errorf("cell (%s, row %d) already assigned", col, row)
	}
	m.fixed[col.Index][row] = v
	m.assignedFixed[col.Index].Set(uint(row))
	return circuit.AssignedCell{Column: col, Row: row, Value: v}, nil
}

// wrap maps a rotated row into the table.
func (m *MockProver) wrap(row int) int {
	return ((row % m.n) + m.n) % m.n
}

// QueryAdvice implements plonk.CellQuerier. Cells never assigned read as
// zero, so rows a circuit does not use satisfy selector-scaled gates.
func (m *MockProver) QueryAdvice(col plonk.Column, row int) plonk.Value {
	row = m.wrap(row)
	if !m.assignedAdvice[col.Index].Test(uint(row)) {
		return plonk.KnownUint64(0)
	}
	return m.advice[col.Index][row]
}

func (m *MockProver) QueryFixed(col plonk.Column, row int) plonk.Value {
	row = m.wrap(row)
	if !m.assignedFixed[col.Index].Test(uint(row)) {
		return plonk.KnownUint64(0)
	}
	return m.fixed[col.Index][row]
}

func (m *MockProver) QuerySelector(s plonk.Selector, row int) plonk.Value {
	if m.selectors[s.Index].Test(uint(m.wrap(row))) {
		return plonk.KnownUint64(1)
	}
	return plonk.KnownUint64(0)
}

// Advice returns the value bound to an advice cell (zero if never
// assigned).
func (m *MockProver) Advice(col plonk.Column, row int) plonk.Value {
	return m.QueryAdvice(col, row)
}

// Fixed returns the value bound to a fixed cell (zero if never assigned).
func (m *MockProver) Fixed(col plonk.Column, row int) plonk.Value {
	return m.QueryFixed(col, row)
}

// SelectorEnabled reports whether a selector is active at a row.
func (m *MockProver) SelectorEnabled(s plonk.Selector, row int) bool {
	return m.selectors[s.Index].Test(uint(m.wrap(row)))
}

// Verify evaluates every gate polynomial at every row and returns the
// collected failures, nil if the circuit is satisfied. Gates are checked in
// parallel; the row table is read-only at this point.
func (m *MockProver) Verify() error {
	start := time.Now()

	var mu sync.Mutex
	var failures []error

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, gate := range m.cs.Gates() {
		g.Go(func() error {
			var local []error
			for pi, poly := range gate.Polynomials() {
				for row := 0; row < m.n; row++ {
					v := poly.Eval(row, m)
					if v.IsZero() {
						continue
					}
					local = append(local, &VerifyFailure{
						Gate:       gate.Name(),
						Constraint: pi,
						Row:        row,
						Value:      v,
					})
				}
			}
			if len(local) > 0 {
				mu.Lock()
				failures = append(failures, local...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return an error, they collect failures

	log := logger.Logger()
	log.Debug().Dur("took", time.Since(start)).Int("nbFailures", len(failures)).Msg("verified circuit")

	return errors.Join(failures...)
}

// VerifyFailure is one unsatisfied gate constraint. An unknown Value means
// the polynomial touched a cell assigned with a witness placeholder.
type VerifyFailure struct {
	Gate       string
	Constraint int
	Row        int
	Value      plonk.Value
}

func (f *VerifyFailure) Error() string {
	return fmt.Sprintf("gate %q not satisfied at row %d: constraint #%d evaluates to %s", f.Gate, f.Row, f.Constraint, f.Value)
}
