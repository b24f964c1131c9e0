package compute

import (
	"fmt"

	"github.com/kannanvijayan/renfrew-river/data"
)

// MapBuffer is a SeqBuffer indexed by CellCoord through a WorldDims,
// for per-cell storage (spec.md §4.3). Region reads/writes walk row
// by row when the requested sub-area differs from the full extent,
// matching the teacher's row-oriented memory-segment copies.
type MapBuffer[T any] struct {
	seq  *SeqBuffer[T]
	dims data.WorldDims
}

// NewMapBuffer allocates a zeroed buffer sized by dims.
func NewMapBuffer[T any](dev *Device, codec Codec[T], dims data.WorldDims) *MapBuffer[T] {
	return &MapBuffer[T]{seq: NewSeqBuffer[T](dev, codec, dims.Area()), dims: dims}
}

// Dims returns the buffer's world geometry.
func (m *MapBuffer[T]) Dims() data.WorldDims { return m.dims }

// Native exposes the raw backing words in row-major order.
func (m *MapBuffer[T]) Native() []uint32 { return m.seq.Native() }

// NativeStride returns how many u32 words each element occupies.
func (m *MapBuffer[T]) NativeStride() int { return m.seq.NativeStride() }

// Get reads a single cell.
func (m *MapBuffer[T]) Get(c data.CellCoord) (T, error) {
	var zero T
	if !m.dims.Contains(c) {
		return zero, fmt.Errorf("compute: map buffer coord %s out of bounds for %dx%d", c, m.dims.Columns, m.dims.Rows)
	}
	vals, err := m.seq.Read(m.dims.CoordIndex(c), 1)
	if err != nil {
		return zero, err
	}
	return vals[0], nil
}

// Set writes a single cell.
func (m *MapBuffer[T]) Set(c data.CellCoord, v T) error {
	if !m.dims.Contains(c) {
		return fmt.Errorf("compute: map buffer coord %s out of bounds for %dx%d", c, m.dims.Columns, m.dims.Rows)
	}
	return m.seq.Write(m.dims.CoordIndex(c), []T{v})
}

// ReadRegion copies a rectangular sub-area into a freshly allocated
// VecMap, row by row.
func (m *MapBuffer[T]) ReadRegion(topLeft data.CellCoord, regionDims data.WorldDims) (*data.VecMap[T], error) {
	if !m.dims.ContainsOrBoundedBy(data.CellCoord{
		Col: topLeft.Col + regionDims.Columns,
		Row: topLeft.Row + regionDims.Rows,
	}) {
		return nil, fmt.Errorf("compute: region [%s,+%dx%d) exceeds map bounds %dx%d",
			topLeft, regionDims.Columns, regionDims.Rows, m.dims.Columns, m.dims.Rows)
	}
	out := data.NewVecMap[T](regionDims)
	for row := uint16(0); row < regionDims.Rows; row++ {
		src := data.CellCoord{Col: topLeft.Col, Row: topLeft.Row + row}
		vals, err := m.seq.Read(m.dims.CoordIndex(src), int(regionDims.Columns))
		if err != nil {
			return nil, err
		}
		for col, v := range vals {
			out.Set(data.CellCoord{Col: uint16(col), Row: row}, v)
		}
	}
	return out, nil
}

// WriteRegion writes a VecMap back into the buffer at topLeft, row by
// row.
func (m *MapBuffer[T]) WriteRegion(topLeft data.CellCoord, region *data.VecMap[T]) error {
	for row := uint16(0); row < region.Dims.Rows; row++ {
		dst := data.CellCoord{Col: topLeft.Col, Row: topLeft.Row + row}
		rowVals := make([]T, region.Dims.Columns)
		for col := uint16(0); col < region.Dims.Columns; col++ {
			rowVals[col] = region.Get(data.CellCoord{Col: col, Row: row})
		}
		if err := m.seq.Write(m.dims.CoordIndex(dst), rowVals); err != nil {
			return err
		}
	}
	return nil
}
