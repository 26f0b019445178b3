package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/plonkish/plonk"
)

// recordingBackend records every binding it receives.
type recordingBackend struct {
	selectors [][2]int // selector index, row
	advice    map[[2]int]plonk.Value
	fixed     map[[2]int]plonk.Value
	failOn    string // column to fail advice assignment on, for error paths
	failCol   plonk.Column
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		advice: make(map[[2]int]plonk.Value),
		fixed:  make(map[[2]int]plonk.Value),
	}
}

func (b *recordingBackend) EnableSelector(s plonk.Selector, row int) error {
	b.selectors = append(b.selectors, [2]int{s.Index, row})
	return nil
}

func (b *recordingBackend) AssignAdvice(col plonk.Column, row int, v plonk.Value) (AssignedCell, error) {
	if b.failOn != "" && col == b.failCol {
		return AssignedCell{}, errors.New(b.failOn)
	}
	b.advice[[2]int{col.Index, row}] = v
	return AssignedCell{Column: col, Row: row, Value: v}, nil
}

func (b *recordingBackend) AssignFixed(col plonk.Column, row int, v plonk.Value) (AssignedCell, error) {
	b.fixed[[2]int{col.Index, row}] = v
	return AssignedCell{Column: col, Row: row, Value: v}, nil
}

func TestLayouterStacksRegions(t *testing.T) {
	assert := require.New(t)

	backend := newRecordingBackend()
	l := NewSingleChipLayouter(backend, 16)

	col := plonk.Column{Index: 0, Kind: plonk.Advice}
	for i := 0; i < 3; i++ {
		err := l.AssignRegion("r", func(r Region) error {
			cell, err := r.AssignAdvice("x", col, 0, plonk.KnownUint64(uint64(i)))
			if err != nil {
				return err
			}
			// regions stack: local row 0 lands on a fresh absolute row
			assert.Equal(i, cell.Row)
			return nil
		})
		assert.NoError(err)
	}

	assert.Len(backend.advice, 3)
}

func TestLayouterRegionHeight(t *testing.T) {
	assert := require.New(t)

	backend := newRecordingBackend()
	l := NewSingleChipLayouter(backend, 16)

	col := plonk.Column{Index: 0, Kind: plonk.Advice}
	err := l.AssignRegion("tall", func(r Region) error {
		// touch rows 0..2; the region is 3 rows tall
		for i := 0; i < 3; i++ {
			if _, err := r.AssignAdvice("x", col, i, plonk.KnownUint64(0)); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(err)

	err = l.AssignRegion("next", func(r Region) error {
		cell, err := r.AssignAdvice("x", col, 0, plonk.KnownUint64(0))
		assert.Equal(3, cell.Row)
		return err
	})
	assert.NoError(err)
}

func TestLayouterRowOutOfRange(t *testing.T) {
	assert := require.New(t)

	l := NewSingleChipLayouter(newRecordingBackend(), 2)
	col := plonk.Column{Index: 0, Kind: plonk.Advice}

	err := l.AssignRegion("r", func(r Region) error {
		_, err := r.AssignAdvice("x", col, 2, plonk.KnownUint64(0))
		return err
	})
	assert.Error(err)
	assert.Contains(err.Error(), "out of range")

	err = l.AssignRegion("r", func(r Region) error {
		_, err := r.AssignAdvice("x", col, -1, plonk.KnownUint64(0))
		return err
	})
	assert.Error(err)
	assert.Contains(err.Error(), "negative row offset")
}

func TestLayouterNamespaceInErrors(t *testing.T) {
	assert := require.New(t)

	backend := newRecordingBackend()
	backend.failOn = "boom"
	backend.failCol = plonk.Column{Index: 7, Kind: plonk.Advice}

	l := NewSingleChipLayouter(backend, 16).Namespace("outer").Namespace("inner")
	err := l.AssignRegion("r", func(r Region) error {
		_, err := r.AssignAdvice("x", backend.failCol, 0, plonk.KnownUint64(0))
		return err
	})
	assert.Error(err)
	assert.Contains(err.Error(), `region "outer/inner/r"`)
	assert.Contains(err.Error(), "boom")
}

func TestLayouterFailedRegionKeepsCursor(t *testing.T) {
	assert := require.New(t)

	backend := newRecordingBackend()
	l := NewSingleChipLayouter(backend, 16)
	col := plonk.Column{Index: 0, Kind: plonk.Advice}

	err := l.AssignRegion("failing", func(r Region) error {
		if _, err := r.AssignAdvice("x", col, 4, plonk.KnownUint64(0)); err != nil {
			return err
		}
		return errors.New("witness missing")
	})
	assert.Error(err)

	// a failed region does not commit its rows: the next region starts where
	// the failed one did (synthesis callers are expected to abort anyway)
	err = l.AssignRegion("next", func(r Region) error {
		cell, err := r.AssignAdvice("x", col, 0, plonk.KnownUint64(0))
		assert.Equal(0, cell.Row)
		return err
	})
	assert.NoError(err)
}
