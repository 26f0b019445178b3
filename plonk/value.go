// Package plonk implements a minimal plonkish constraint system: advice and
// fixed columns, per-row selectors and named polynomial gates over the BN254
// scalar field.
//
// A ConstraintSystem only describes the circuit shape; binding concrete
// values to cells is the job of the circuit package, and checking gate
// satisfaction the job of the dev package.
package plonk

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Value is a field element that is either concretely known or an unknown
// placeholder. Unknown values stand in for witnesses during shape-only
// synthesis; any arithmetic involving an Unknown yields Unknown.
type Value struct {
	v     fr.Element
	known bool
}

// Known wraps a concrete field element.
func Known(v fr.Element) Value {
	return Value{v: v, known: true}
}

// KnownUint64 wraps a small integer as a known field element.
func KnownUint64(v uint64) Value {
	return Known(fr.NewElement(v))
}

// Unknown returns the witness placeholder. It is also the zero value of
// Value.
func Unknown() Value {
	return Value{}
}

// One returns the known field element 1.
func One() Value {
	return Known(fr.One())
}

// IsKnown reports whether v carries a concrete field element.
func (v Value) IsKnown() bool {
	return v.known
}

// Get returns the underlying field element and whether it is known.
func (v Value) Get() (fr.Element, bool) {
	return v.v, v.known
}

func (v Value) Add(o Value) Value {
	if !v.known || !o.known {
		return Unknown()
	}
	var r fr.Element
	r.Add(&v.v, &o.v)
	return Known(r)
}

func (v Value) Sub(o Value) Value {
	if !v.known || !o.known {
		return Unknown()
	}
	var r fr.Element
	r.Sub(&v.v, &o.v)
	return Known(r)
}

func (v Value) Mul(o Value) Value {
	if !v.known || !o.known {
		return Unknown()
	}
	var r fr.Element
	r.Mul(&v.v, &o.v)
	return Known(r)
}

// IsZero reports whether v is known and equal to zero.
func (v Value) IsZero() bool {
	return v.known && v.v.IsZero()
}

// Equal reports whether both values are known and equal, or both unknown.
func (v Value) Equal(o Value) bool {
	if v.known != o.known {
		return false
	}
	if !v.known {
		return true
	}
	return v.v.Equal(&o.v)
}

func (v Value) String() string {
	if !v.known {
		return "unknown"
	}
	return v.v.String()
}
