package circuit

import (
	"fmt"

	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/plonk"
)

// SingleChipLayouter is a simple floor planner: it places regions one below
// the other in first-come order, with no sharing of rows between regions.
// Namespaced views share the placement cursor of their parent.
type SingleChipLayouter struct {
	state  *layouterState
	prefix string
}

type layouterState struct {
	backend Assignment
	nbRows  int
	cursor  int // next free absolute row
}

func NewSingleChipLayouter(backend Assignment, nbRows int) *SingleChipLayouter {
	return &SingleChipLayouter{state: &layouterState{backend: backend, nbRows: nbRows}}
}

func (l *SingleChipLayouter) Namespace(name string) Layouter {
	return &SingleChipLayouter{state: l.state, prefix: l.prefix + name + "/"}
}

// AssignRegion places the region at the current cursor, runs fn and advances
// the cursor past the rows the region touched. On error the cursor is left
// untouched and the error is returned to the synthesis caller; there is no
// retry.
func (l *SingleChipLayouter) AssignRegion(name string, fn func(r Region) error) error {
	full := l.prefix + name
	r := &region{state: l.state, name: full, start: l.state.cursor}
	if err := fn(r); err != nil {
		return fmt.Errorf("region %q: %w", full, err)
	}
	l.state.cursor = r.start + r.height

	log := logger.Logger()
	log.Trace().Str("region", full).Int("start", r.start).Int("height", r.height).Msg("region placed")
	return nil
}

type region struct {
	state  *layouterState
	name   string
	start  int
	height int // rows touched so far, grows as cells are bound
}

// row translates a region-local offset to an absolute row, growing the
// region's height.
func (r *region) row(offset int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative row offset %d", offset)
	}
	abs := r.start + offset
	if abs >= r.state.nbRows {
		return 0, fmt.Errorf("row %d out of range, table has %d rows", abs, r.state.nbRows)
	}
	if offset+1 > r.height {
		r.height = offset + 1
	}
	return abs, nil
}

func (r *region) EnableSelector(s plonk.Selector, offset int) error {
	abs, err := r.row(offset)
	if err != nil {
		return err
	}
	return r.state.backend.EnableSelector(s, abs)
}

func (r *region) AssignAdvice(name string, col plonk.Column, offset int, v plonk.Value) (AssignedCell, error) {
	abs, err := r.row(offset)
	if err != nil {
		return AssignedCell{}, err
	}
	cell, err := r.state.backend.AssignAdvice(col, abs, v)
	if err != nil {
		return AssignedCell{}, fmt.Errorf("assign %q: %w", name, err)
	}
	return cell, nil
}

func (r *region) AssignFixed(name string, col plonk.Column, offset int, v plonk.Value) (AssignedCell, error) {
	abs, err := r.row(offset)
	if err != nil {
		return AssignedCell{}, err
	}
	cell, err := r.state.backend.AssignFixed(col, abs, v)
	if err != nil {
		return AssignedCell{}, fmt.Errorf("assign %q: %w", name, err)
	}
	return cell, nil
}
