package plonk

import "fmt"

// ColumnKind distinguishes witness (advice) columns from fixed columns whose
// values are part of the circuit description.
type ColumnKind uint8

const (
	Advice ColumnKind = iota
	Fixed
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Column identifies a column allocated by a ConstraintSystem. The zero value
// is not a valid handle; columns are obtained from AdviceColumn and
// FixedColumn.
type Column struct {
	Index int
	Kind  ColumnKind
}

func (c Column) String() string {
	return fmt.Sprintf("%s[%d]", c.Kind, c.Index)
}

// Selector identifies a per-row gate activation flag allocated by a
// ConstraintSystem. A gate scaled by a selector query is vacuously satisfied
// at every row where the selector is not enabled.
type Selector struct {
	Index int
}

func (s Selector) String() string {
	return fmt.Sprintf("selector[%d]", s.Index)
}

// Rotation is the row offset of a column query relative to the row a gate is
// evaluated at. Rotations wrap around the row table.
type Rotation int

const (
	PrevRow Rotation = -1
	CurRow  Rotation = 0
	NextRow Rotation = 1
)
