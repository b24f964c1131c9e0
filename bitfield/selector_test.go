package bitfield

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorRoundTrip(t *testing.T) {
	sels := []FormatComponentSelector{
		{Word: 0, Offset: 0, Bits: 1},
		{Word: 31, Offset: 31, Bits: 1},
		{Word: 7, Offset: 12, Bits: 8},
		{Word: 3, Offset: 0, Bits: 32},
	}
	for _, s := range sels {
		got := FormatComponentSelectorFromU32(s.ToU32())
		require.Equal(t, s.Word, got.Word)
		require.Equal(t, s.Offset, got.Offset)
		require.Equal(t, s.Bits, got.Bits)
		require.True(t, got.Valid())
	}
}

func TestSelectorReadWrite(t *testing.T) {
	sel := FormatComponentSelector{Word: 0, Offset: 4, Bits: 4}
	var word uint32 = 0
	word = sel.Write(word, 0xF)
	require.Equal(t, uint32(0xF0), word)
	require.Equal(t, uint32(0xF), sel.Read(word))

	// Overwriting does not disturb adjacent bits.
	other := FormatComponentSelector{Word: 0, Offset: 0, Bits: 4}
	word = other.Write(word, 0x3)
	require.Equal(t, uint32(0xF3), word)
	require.Equal(t, uint32(0xF), sel.Read(word))
}

func TestFormatWordValidateOverlap(t *testing.T) {
	w := FormatWord{
		Name: "terrain",
		Components: []FormatComponent{
			{Name: "elevation", Offset: 0, Bits: 16},
			{Name: "moisture", Offset: 8, Bits: 8},
		},
	}
	errs := w.Validate()
	require.NotEmpty(t, errs)
}

func TestFormatWordValidateExceedsWord(t *testing.T) {
	w := FormatWord{
		Name: "a",
		Components: []FormatComponent{
			{Name: "a", Offset: 30, Bits: 5},
		},
	}
	errs := w.Validate()
	require.Len(t, errs, 1)
}

func TestFormatRulesLookup(t *testing.T) {
	f := FormatRules{Words: []FormatWord{
		{Name: "terrain", Components: []FormatComponent{
			{Name: "elevation", Offset: 0, Bits: 16},
			{Name: "biome", Offset: 16, Bits: 8, Categorical: true},
		}},
	}}
	sel, ok, cat := f.Lookup("terrain", "biome")
	require.True(t, ok)
	require.True(t, cat)
	require.Equal(t, uint8(0), sel.Word)
	require.Equal(t, uint8(16), sel.Offset)

	_, ok, _ = f.Lookup("terrain", "nope")
	require.False(t, ok)
}

func TestCellDataGetSet(t *testing.T) {
	f := FormatRules{Words: []FormatWord{
		{Name: "w0", Components: []FormatComponent{{Name: "c0", Offset: 0, Bits: 8}}},
	}}
	sel, ok, _ := f.Lookup("w0", "c0")
	require.True(t, ok)

	cell := make(CellData, 1)
	cell.Set(sel, 200)
	require.Equal(t, uint32(200), cell.Get(sel))
}
