package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/interpreter"
)

func TestMemoryGrowWithinMax(t *testing.T) {
	m := interpreter.NewMemory(1, 4)
	require.Equal(t, uint32(1), m.Pages())

	prev := m.Grow(2)
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(3), m.Pages())
}

func TestMemoryGrowPastMaxReturnsSentinelAndDoesNotMutate(t *testing.T) {
	m := interpreter.NewMemory(1, 2)
	before := m.Pages()

	got := m.Grow(5)
	require.Equal(t, uint32(0xFFFFFFFF), got)
	require.Equal(t, before, m.Pages())
}

func TestMemoryReadWriteRoundTrip(t *testing.T) {
	m := interpreter.NewMemory(1, 1)

	require.True(t, m.WriteUint32LE(0, 0xDEADBEEF))
	got, ok := m.ReadUint32LE(0)
	require.True(t, ok)
	require.Equal(t, uint32(0xDEADBEEF), got)

	require.True(t, m.WriteUint64LE(8, 0x0102030405060708))
	got64, ok := m.ReadUint64LE(8)
	require.True(t, ok)
	require.Equal(t, uint64(0x0102030405060708), got64)
}

func TestMemoryOutOfBoundsAccessFails(t *testing.T) {
	m := interpreter.NewMemory(1, 1)
	pastEnd := interpreter.MemoryPageSize - 2

	_, ok := m.ReadUint32LE(uint32(pastEnd))
	require.False(t, ok)

	ok = m.WriteUint32LE(uint32(pastEnd), 1)
	require.False(t, ok)
}

func TestMemoryFillAndCopyWithin(t *testing.T) {
	m := interpreter.NewMemory(1, 1)

	require.True(t, m.Fill(0, 0x42, 16))
	for i := uint32(0); i < 16; i++ {
		b, _ := m.ReadByte(i)
		require.Equal(t, byte(0x42), b)
	}

	require.True(t, m.CopyWithin(100, 0, 16))
	for i := uint32(0); i < 16; i++ {
		b, _ := m.ReadByte(100 + i)
		require.Equal(t, byte(0x42), b)
	}

	require.False(t, m.Fill(0, 0, uint32(interpreter.MemoryPageSize)+1))
}

func TestMemoryCopyWithinHandlesOverlap(t *testing.T) {
	m := interpreter.NewMemory(1, 1)
	for i := uint32(0); i < 8; i++ {
		m.WriteByte(i, byte(i))
	}

	// Overlapping forward copy: dst inside [src, src+n).
	require.True(t, m.CopyWithin(2, 0, 6))
	want := []byte{0, 1, 0, 1, 2, 3, 4, 5}
	for i, w := range want {
		b, _ := m.ReadByte(uint32(i))
		require.Equal(t, w, b)
	}
}
