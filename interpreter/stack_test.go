package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/interpreter"
	"github.com/rwasmio/rwasm/value"
)

func TestOperandStackLocalAddressingIsDistanceFromTop(t *testing.T) {
	s := interpreter.NewOperandStack(8)
	s.Push(value.FromU32(1))
	s.Push(value.FromU32(2))
	s.Push(value.FromU32(3))

	require.Equal(t, uint32(3), s.At(1).U32()) // top
	require.Equal(t, uint32(2), s.At(2).U32())
	require.Equal(t, uint32(1), s.At(3).U32())

	s.SetAt(2, value.FromU32(99))
	require.Equal(t, uint32(99), s.At(2).U32())
}

func TestOperandStackI64RoundTripIsHiBelowLoOnTop(t *testing.T) {
	s := interpreter.NewOperandStack(8)
	s.PushI64(0x1122334455667788)
	require.Equal(t, uint32(2), s.Len())

	// Lo is on top, hi sits beneath it.
	require.Equal(t, uint32(0x55667788), s.At(1).U32())
	require.Equal(t, uint32(0x11223344), s.At(2).U32())

	got := s.PopI64()
	require.Equal(t, uint64(0x1122334455667788), got)
	require.Equal(t, uint32(0), s.Len())
}

func TestOperandStackDropKeepSlidesKeptCellsDown(t *testing.T) {
	s := interpreter.NewOperandStack(8)
	for i := uint32(1); i <= 5; i++ {
		s.Push(value.FromU32(i))
	}
	// [1,2,3,4,5] -> drop the 2 cells below the top 1 -> [1,2,5]
	s.DropKeep(2, 1)
	require.Equal(t, uint32(3), s.Len())
	require.Equal(t, uint32(5), s.At(1).U32())
	require.Equal(t, uint32(2), s.At(2).U32())
	require.Equal(t, uint32(1), s.At(3).U32())
}

func TestOperandStackPushNZeroExtends(t *testing.T) {
	s := interpreter.NewOperandStack(8)
	s.Push(value.FromU32(1))
	s.PushN(3)
	require.Equal(t, uint32(4), s.Len())
	require.Equal(t, uint32(0), s.At(1).U32())
	require.Equal(t, uint32(0), s.At(2).U32())
	require.Equal(t, uint32(0), s.At(3).U32())
	require.Equal(t, uint32(1), s.At(4).U32())
}
