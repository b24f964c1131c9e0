// Package data holds the engine's plain data types: world geometry
// (WorldDims, CellCoord), the generic 2-D VecMap container, and the
// Histogram/Statistics reduction accumulators the task library folds
// cell values into. Grounded on the teacher's vm/memory.go (bounds-
// checked, typed storage) and vm/statistics.go (field-wise accumulator
// merge).
package data

import "fmt"

// WorldDims is the size of a world in cells.
type WorldDims struct {
	Columns uint16 `json:"columns"`
	Rows    uint16 `json:"rows"`
}

// Area returns the total number of cells.
func (d WorldDims) Area() int { return int(d.Columns) * int(d.Rows) }

// CoordIndex maps a coordinate to its row-major cell index.
func (d WorldDims) CoordIndex(c CellCoord) int {
	return int(c.Row)*int(d.Columns) + int(c.Col)
}

// IndexCoord maps a row-major cell index back to a coordinate.
func (d WorldDims) IndexCoord(index int) CellCoord {
	return CellCoord{
		Col: uint16(index % int(d.Columns)),
		Row: uint16(index / int(d.Columns)),
	}
}

// Contains reports whether coord lies within the world (strict,
// exclusive upper bound).
func (d WorldDims) Contains(c CellCoord) bool {
	return c.Col < d.Columns && c.Row < d.Rows
}

// ContainsOrBoundedBy reports whether coord lies within the world, or
// exactly at its exclusive upper-bound corner (used when a rectangle's
// end corner is expressed inclusively of the boundary).
func (d WorldDims) ContainsOrBoundedBy(c CellCoord) bool {
	return c.Col <= d.Columns && c.Row <= d.Rows
}

// TilesEvenly reports whether d divides evenly into blocks of the
// given size along both axes (used by minimap/histogram tree setup).
func (d WorldDims) TilesEvenly(block WorldDims) bool {
	if block.Columns == 0 || block.Rows == 0 {
		return false
	}
	return d.Columns%block.Columns == 0 && d.Rows%block.Rows == 0
}

// Validate reports an error if either axis is zero.
func (d WorldDims) Validate() error {
	if d.Columns == 0 || d.Rows == 0 {
		return fmt.Errorf("world dims must be non-zero in both axes, got %dx%d", d.Columns, d.Rows)
	}
	return nil
}

// CellCoord is a (column, row) position within a world.
type CellCoord struct {
	Col uint16 `json:"col"`
	Row uint16 `json:"row"`
}

func (c CellCoord) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }
