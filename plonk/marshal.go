package plonk

import (
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	plonkish "github.com/consensys/plonkish"
	"github.com/consensys/plonkish/logger"
)

// rawConstraintSystem is the serialized form of a ConstraintSystem. The
// version header is written by the encoding binary and checked against the
// decoding binary.
type rawConstraintSystem struct {
	Version     string
	NbAdvice    int
	NbFixed     int
	NbSelectors int
	Gates       []rawGate
}

type rawGate struct {
	Name  string
	Polys []rawExpression
}

type rawExpression struct {
	Op   uint8
	C    []byte         `cbor:",omitempty"`
	Col  int            `cbor:",omitempty"`
	Kind uint8          `cbor:",omitempty"`
	Sel  int            `cbor:",omitempty"`
	Rot  int            `cbor:",omitempty"`
	L    *rawExpression `cbor:",omitempty"`
	R    *rawExpression `cbor:",omitempty"`
}

// ToBytes serializes the circuit shape (column counts and gates) to a byte
// slice. Cell assignments are not part of the shape and are never
// serialized.
func (cs *ConstraintSystem) ToBytes() ([]byte, error) {
	raw := rawConstraintSystem{
		Version:     plonkish.Version.String(),
		NbAdvice:    cs.nbAdvice,
		NbFixed:     cs.nbFixed,
		NbSelectors: cs.nbSelectors,
		Gates:       make([]rawGate, len(cs.gates)),
	}

	// gate expression trees are converted independently
	var g errgroup.Group
	for i := range cs.gates {
		g.Go(func() error {
			gate := &cs.gates[i]
			polys := make([]rawExpression, len(gate.polys))
			for j, p := range gate.polys {
				polys[j] = toRawExpression(p)
			}
			raw.Gates[i] = rawGate{Name: gate.name, Polys: polys}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(&raw)
}

// FromBytes deserializes a circuit shape previously produced by ToBytes. It
// errors on malformed input and warns (but does not fail) on a version
// mismatch with the current binary.
func (cs *ConstraintSystem) FromBytes(data []byte) error {
	dm, err := cbor.DecOptions{MaxArrayElements: 134217728}.DecMode()
	if err != nil {
		return err
	}

	var raw rawConstraintSystem
	if err := dm.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal constraint system: %w", err)
	}
	if err := checkSerializationHeader(raw.Version); err != nil {
		return err
	}

	gates := make([]Gate, len(raw.Gates))
	for i, rg := range raw.Gates {
		polys := make([]Expression, len(rg.Polys))
		for j := range rg.Polys {
			e, err := fromRawExpression(&rg.Polys[j])
			if err != nil {
				return fmt.Errorf("gate %q: %w", rg.Name, err)
			}
			polys[j] = e
		}
		gates[i] = Gate{name: rg.Name, polys: polys}
	}

	cs.nbAdvice = raw.NbAdvice
	cs.nbFixed = raw.NbFixed
	cs.nbSelectors = raw.NbSelectors
	cs.gates = gates
	return nil
}

// checkSerializationHeader parses the version header; a mismatch with the
// binary's version is logged, not fatal, as the shape encoding is stable
// across patch releases.
func checkSerializationHeader(version string) error {
	objectVersion, err := semver.Parse(version)
	if err != nil {
		return fmt.Errorf("when parsing serialization header version: %w", err)
	}
	if objectVersion.Compare(plonkish.Version) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", plonkish.Version.String()).Str("object", objectVersion.String()).Msg("version mismatch with serialized constraint system. there are no guarantees on compatibility")
	}
	return nil
}

func toRawExpression(e Expression) rawExpression {
	raw := rawExpression{Op: uint8(e.op)}
	switch e.op {
	case opConstant, opScaled:
		b := e.c.Bytes()
		raw.C = b[:]
	case opAdviceQuery, opFixedQuery:
		raw.Col = e.col.Index
		raw.Kind = uint8(e.col.Kind)
		raw.Rot = int(e.rot)
	case opSelectorQuery:
		raw.Sel = e.sel.Index
	}
	if e.l != nil {
		l := toRawExpression(*e.l)
		raw.L = &l
	}
	if e.r != nil {
		r := toRawExpression(*e.r)
		raw.R = &r
	}
	return raw
}

func fromRawExpression(raw *rawExpression) (Expression, error) {
	if raw == nil {
		return Expression{}, errors.New("missing expression node")
	}
	e := Expression{op: exprOp(raw.Op)}
	switch e.op {
	case opConstant, opScaled:
		var c fr.Element
		if err := c.SetBytesCanonical(raw.C); err != nil {
			return Expression{}, fmt.Errorf("invalid field element: %w", err)
		}
		e.c = c
	case opAdviceQuery, opFixedQuery:
		e.col = Column{Index: raw.Col, Kind: ColumnKind(raw.Kind)}
		e.rot = Rotation(raw.Rot)
	case opSelectorQuery:
		e.sel = Selector{Index: raw.Sel}
	case opSum, opProduct:
	default:
		return Expression{}, fmt.Errorf("unknown expression op %d", raw.Op)
	}

	if e.op == opSum || e.op == opProduct || e.op == opScaled {
		l, err := fromRawExpression(raw.L)
		if err != nil {
			return Expression{}, err
		}
		e.l = &l
	}
	if e.op == opSum || e.op == opProduct {
		r, err := fromRawExpression(raw.R)
		if err != nil {
			return Expression{}, err
		}
		e.r = &r
	}
	return e, nil
}
