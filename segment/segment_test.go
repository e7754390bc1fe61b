package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/segment"
)

func TestBuilderConsolidatesData(t *testing.T) {
	var b segment.Builder
	idx0 := b.AddData([]byte("hello"))
	idx1 := b.AddData([]byte("!!"))
	require.Equal(t, uint32(0), idx0)
	require.Equal(t, uint32(1), idx1)

	data, _ := b.Finish()
	require.Equal(t, []byte("hello!!"), data.Blob)
	require.Equal(t, segment.Range{Offset: 0, Length: 5}, data.Ranges[0])
	require.Equal(t, segment.Range{Offset: 5, Length: 2}, data.Ranges[1])
}

func TestBuilderConsolidatesElements(t *testing.T) {
	var b segment.Builder
	b.AddElements([]uint32{1, 2, 3})
	b.AddElements([]uint32{7})

	_, elems := b.Finish()
	require.Equal(t, []uint32{1, 2, 3, 7}, elems.Blob)
	require.Equal(t, segment.Range{Offset: 0, Length: 3}, elems.Ranges[0])
	require.Equal(t, segment.Range{Offset: 3, Length: 1}, elems.Ranges[1])
}

func TestDroppedSet(t *testing.T) {
	var d segment.DroppedSet
	require.False(t, d.IsDropped(3))
	d.Drop(3)
	require.True(t, d.IsDropped(3))
	require.False(t, d.IsDropped(2))
	d.Drop(200)
	require.True(t, d.IsDropped(200))
}
