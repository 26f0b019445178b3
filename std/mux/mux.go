// Package mux implements a conditional-selection gadget over one row:
// out = a when sel = 0 and out = b when sel = 1.
//
// The selector value lives in a fixed column, so it is part of the public
// circuit shape rather than a private witness. The gate only enforces the
// identity
//
//	s · ((1−sel)·in_a + sel·in_b − out) = 0
//
// and does not constrain sel to be boolean: a non-boolean sel turns the
// gadget into a linear interpolation of its inputs. Callers that move sel
// to an advice column must add sel·(1−sel) = 0 themselves.
package mux

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/circuit"
	"github.com/consensys/plonkish/plonk"
)

// Config captures the columns and selector allocated by Configure. It is
// immutable and shared by every chip instance of the circuit.
type Config struct {
	inA plonk.Column
	inB plonk.Column
	out plonk.Column
	sel plonk.Column
	s   plonk.Selector
}

// Configure allocates three advice columns, one fixed column and one
// selector, and registers the mux gate. It must be called exactly once per
// constraint system.
func Configure(meta *plonk.ConstraintSystem) Config {
	cfg := Config{
		inA: meta.AdviceColumn(),
		inB: meta.AdviceColumn(),
		out: meta.AdviceColumn(),
		sel: meta.FixedColumn(),
		s:   meta.Selector(),
	}

	meta.CreateGate("mux", func(v *plonk.VirtualCells) []plonk.Expression {
		s := v.QuerySelector(cfg.s)
		a := v.QueryAdvice(cfg.inA, plonk.CurRow)
		b := v.QueryAdvice(cfg.inB, plonk.CurRow)
		out := v.QueryAdvice(cfg.out, plonk.CurRow)
		sel := v.QueryFixed(cfg.sel, plonk.CurRow)

		one := plonk.Constant(fr.One())
		return []plonk.Expression{
			s.Mul(one.Sub(sel).Mul(a).Add(sel.Mul(b)).Sub(out)),
		}
	})

	return cfg
}

// Chip is a stateless façade over a Config.
type Chip struct {
	config Config
}

func NewChip(config Config) *Chip {
	return &Chip{config: config}
}

func (c *Chip) Config() Config {
	return c.config
}

// Mux binds one gadget instance at the given region-local row: it activates
// the gate there, assigns sel to the fixed column and a, b and the computed
// out = (1−sel)·a + sel·b to the advice columns. If any input is unknown,
// out is unknown.
//
// The returned cell is the out cell, so it can feed further gates. Binding
// failures from the layouter are returned as-is; sel is not checked for
// boolean-ness.
func (c *Chip) Mux(l circuit.Layouter, a, b, sel plonk.Value, row int) (circuit.AssignedCell, error) {
	var out circuit.AssignedCell
	err := l.AssignRegion("mux", func(r circuit.Region) error {
		if err := r.EnableSelector(c.config.s, row); err != nil {
			return err
		}
		v := a.Mul(plonk.One().Sub(sel)).Add(b.Mul(sel))

		if _, err := r.AssignFixed("sel", c.config.sel, row, sel); err != nil {
			return err
		}
		if _, err := r.AssignAdvice("in_a", c.config.inA, row, a); err != nil {
			return err
		}
		if _, err := r.AssignAdvice("in_b", c.config.inB, row, b); err != nil {
			return err
		}
		cell, err := r.AssignAdvice("out", c.config.out, row, v)
		if err != nil {
			return err
		}
		out = cell
		return nil
	})
	return out, err
}

// Circuit arithmetizes len(A) independent mux gadgets sharing one selector
// value. Each instance lives in its own region at local row 0; physical row
// placement is left to the layouter.
type Circuit struct {
	A   []plonk.Value
	B   []plonk.Value
	Sel plonk.Value

	// Outs holds the out cell of each instance after Synthesize.
	Outs []circuit.AssignedCell

	config Config
}

func (c *Circuit) Configure(meta *plonk.ConstraintSystem) {
	c.config = Configure(meta)
}

func (c *Circuit) Synthesize(l circuit.Layouter) error {
	if len(c.A) != len(c.B) {
		return fmt.Errorf("input length mismatch: %d != %d", len(c.A), len(c.B))
	}

	chip := NewChip(c.config)
	c.Outs = make([]circuit.AssignedCell, len(c.A))
	for i := range c.A {
		cell, err := chip.Mux(l.Namespace(fmt.Sprintf("mux_%d", i)), c.A[i], c.B[i], c.Sel, 0)
		if err != nil {
			return err
		}
		c.Outs[i] = cell
	}
	return nil
}
