package plonk

import (
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

type exprOp uint8

const (
	opConstant exprOp = iota
	opAdviceQuery
	opFixedQuery
	opSelectorQuery
	opSum
	opProduct
	opScaled
)

// Expression is a polynomial over column and selector queries. Expressions
// are immutable; the arithmetic methods return new trees sharing subtrees
// with their operands.
type Expression struct {
	op   exprOp
	c    fr.Element // constant term or scale factor
	col  Column
	sel  Selector
	rot  Rotation
	l, r *Expression
}

// Constant lifts a field element into an expression.
func Constant(c fr.Element) Expression {
	return Expression{op: opConstant, c: c}
}

func (e Expression) Add(o Expression) Expression {
	return Expression{op: opSum, l: &e, r: &o}
}

func (e Expression) Sub(o Expression) Expression {
	return e.Add(o.Neg())
}

func (e Expression) Mul(o Expression) Expression {
	return Expression{op: opProduct, l: &e, r: &o}
}

// Scale multiplies the expression by a constant without increasing its
// degree.
func (e Expression) Scale(c fr.Element) Expression {
	return Expression{op: opScaled, c: c, l: &e}
}

func (e Expression) Neg() Expression {
	var minusOne fr.Element
	minusOne.SetOne().Neg(&minusOne)
	return e.Scale(minusOne)
}

// CellQuerier provides cell values to Eval. The row passed to the querier is
// already shifted by the query's rotation; wrapping it into the table is the
// querier's concern.
type CellQuerier interface {
	QueryAdvice(col Column, row int) Value
	QueryFixed(col Column, row int) Value
	QuerySelector(s Selector, row int) Value
}

// Eval evaluates the expression at the given row, fetching cell values from
// q. Unknown cell values propagate to the result.
func (e Expression) Eval(row int, q CellQuerier) Value {
	switch e.op {
	case opConstant:
		return Known(e.c)
	case opAdviceQuery:
		return q.QueryAdvice(e.col, row+int(e.rot))
	case opFixedQuery:
		return q.QueryFixed(e.col, row+int(e.rot))
	case opSelectorQuery:
		return q.QuerySelector(e.sel, row)
	case opSum:
		return e.l.Eval(row, q).Add(e.r.Eval(row, q))
	case opProduct:
		return e.l.Eval(row, q).Mul(e.r.Eval(row, q))
	case opScaled:
		return e.l.Eval(row, q).Mul(Known(e.c))
	default:
		panic(fmt.Sprintf("unknown expression op %d", e.op))
	}
}

// Degree returns the degree of the polynomial, counting every query as
// degree 1.
func (e Expression) Degree() int {
	switch e.op {
	case opConstant:
		return 0
	case opAdviceQuery, opFixedQuery, opSelectorQuery:
		return 1
	case opSum:
		return max(e.l.Degree(), e.r.Degree())
	case opProduct:
		return e.l.Degree() + e.r.Degree()
	case opScaled:
		return e.l.Degree()
	default:
		panic(fmt.Sprintf("unknown expression op %d", e.op))
	}
}

func (e Expression) String() string {
	var sbb strings.Builder
	e.write(&sbb)
	return sbb.String()
}

func (e Expression) write(sbb *strings.Builder) {
	switch e.op {
	case opConstant:
		sbb.WriteString(e.c.String())
	case opAdviceQuery, opFixedQuery:
		sbb.WriteString(e.col.String())
		if e.rot != CurRow {
			fmt.Fprintf(sbb, "@%+d", int(e.rot))
		}
	case opSelectorQuery:
		sbb.WriteString(e.sel.String())
	case opSum:
		sbb.WriteByte('(')
		e.l.write(sbb)
		sbb.WriteString(" + ")
		e.r.write(sbb)
		sbb.WriteByte(')')
	case opProduct:
		sbb.WriteByte('(')
		e.l.write(sbb)
		sbb.WriteString(" * ")
		e.r.write(sbb)
		sbb.WriteByte(')')
	case opScaled:
		fmt.Fprintf(sbb, "%s*", e.c.String())
		e.l.write(sbb)
	}
}
