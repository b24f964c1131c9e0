package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Property 5: WorldDims.CoordIndex(IndexCoord(i)) == i for all i < area.
func TestWorldDimsIndexRoundTrip(t *testing.T) {
	d := WorldDims{Columns: 7, Rows: 5}
	for i := 0; i < d.Area(); i++ {
		require.Equal(t, i, d.CoordIndex(d.IndexCoord(i)))
	}
}

// S4: WorldDims{columns:4,rows:3}.coord_index({col:2,row:1}) == 6 and
// index_coord(6) == {col:2,row:1}.
func TestS4WorldDims(t *testing.T) {
	d := WorldDims{Columns: 4, Rows: 3}
	require.Equal(t, 6, d.CoordIndex(CellCoord{Col: 2, Row: 1}))
	require.Equal(t, CellCoord{Col: 2, Row: 1}, d.IndexCoord(6))
}

// Property 9: statistics merge is associative and commutative.
func TestStatisticsMergeAssociativeCommutative(t *testing.T) {
	a := NewStatisticsFromValue(3)
	b := NewStatisticsFromValue(-7)
	c := NewStatisticsFromValue(42)

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	require.Equal(t, left, right)

	commuted := Merge(b, a)
	plain := Merge(a, b)
	require.Equal(t, plain, commuted)
}

func TestHistogramMerge(t *testing.T) {
	h1 := NewHistogram(4)
	h1.Add(0)
	h1.Add(2)
	h2 := NewHistogram(4)
	h2.Add(2)
	h2.Add(3)

	h1.Merge(h2)
	require.Equal(t, []uint64{1, 0, 2, 1}, h1.Buckets)
	require.Equal(t, uint64(4), h1.Total())
}

func TestVecMapBounds(t *testing.T) {
	m := NewVecMap[int](WorldDims{Columns: 3, Rows: 2})
	require.NoError(t, m.Validate())
	m.Set(CellCoord{Col: 2, Row: 1}, 9)
	require.Equal(t, 9, m.Get(CellCoord{Col: 2, Row: 1}))
}
