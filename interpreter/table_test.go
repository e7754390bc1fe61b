package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/interpreter"
)

func TestTableGetSetRoundTrip(t *testing.T) {
	tb := interpreter.NewTable(2, 4)
	require.Equal(t, uint32(2), tb.Size())

	v, ok := tb.Get(0)
	require.True(t, ok)
	require.Equal(t, interpreter.FuncRefNull, v)

	require.True(t, tb.Set(1, 7+interpreter.FuncRefOffset))
	got, ok := tb.Get(1)
	require.True(t, ok)
	require.Equal(t, uint64(7+interpreter.FuncRefOffset), got)

	_, ok = tb.Get(2)
	require.False(t, ok)
}

func TestTableGrowPastMaxReturnsSentinel(t *testing.T) {
	tb := interpreter.NewTable(1, 2)
	got := tb.Grow(5, interpreter.FuncRefNull)
	require.Equal(t, uint32(0xFFFFFFFF), got)
	require.Equal(t, uint32(1), tb.Size())

	prev := tb.Grow(1, 3+interpreter.FuncRefOffset)
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(2), tb.Size())
	v, _ := tb.Get(1)
	require.Equal(t, uint64(3+interpreter.FuncRefOffset), v)
}

func TestTableFillAndCopyWithin(t *testing.T) {
	tb := interpreter.NewTable(4, 4)
	require.True(t, tb.Fill(0, 9, 4))
	for i := uint32(0); i < 4; i++ {
		v, _ := tb.Get(i)
		require.Equal(t, uint64(9), v)
	}

	require.False(t, tb.Fill(0, 1, 5))

	tb.Set(0, 100)
	require.True(t, tb.CopyWithin(2, 0, 2))
	v, _ := tb.Get(2)
	require.Equal(t, uint64(100), v)
}

func TestTableInitFromElementBlob(t *testing.T) {
	tb := interpreter.NewTable(3, 3)
	blob := []uint32{10, 11, 12, 13}

	require.True(t, tb.Init(blob, 1, 0, 2))
	v0, _ := tb.Get(0)
	v1, _ := tb.Get(1)
	require.Equal(t, uint64(11), v0)
	require.Equal(t, uint64(12), v1)

	require.False(t, tb.Init(blob, 3, 0, 2)) // overruns blob
	require.False(t, tb.Init(blob, 0, 2, 2)) // overruns table
}
