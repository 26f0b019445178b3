package plonk

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestValueArithmetic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("known ops match field ops", prop.ForAll(
		func(a, b uint64) bool {
			ea, eb := fr.NewElement(a), fr.NewElement(b)
			var sum, diff, prod fr.Element
			sum.Add(&ea, &eb)
			diff.Sub(&ea, &eb)
			prod.Mul(&ea, &eb)

			va, vb := Known(ea), Known(eb)
			return va.Add(vb).Equal(Known(sum)) &&
				va.Sub(vb).Equal(Known(diff)) &&
				va.Mul(vb).Equal(Known(prod))
		},
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.Property("unknown propagates through any op", prop.ForAll(
		func(a uint64) bool {
			v := KnownUint64(a)
			u := Unknown()
			return !v.Add(u).IsKnown() && !u.Add(v).IsKnown() &&
				!v.Sub(u).IsKnown() && !u.Sub(v).IsKnown() &&
				!v.Mul(u).IsKnown() && !u.Mul(v).IsKnown() &&
				!u.Mul(u).IsKnown()
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValueZero(t *testing.T) {
	assert := require.New(t)

	assert.True(KnownUint64(0).IsZero())
	assert.False(KnownUint64(1).IsZero())
	// an unknown value is not zero, it is undetermined
	assert.False(Unknown().IsZero())

	var zero Value
	assert.False(zero.IsKnown(), "the zero value of Value must be Unknown")
	assert.True(zero.Equal(Unknown()))
}

func TestValueString(t *testing.T) {
	assert := require.New(t)
	assert.Equal("unknown", Unknown().String())
	assert.Equal("42", KnownUint64(42).String())
}
