package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/value"
)

func TestI32DivByZeroTraps(t *testing.T) {
	_, err := value.I32DivS(value.FromI32(1), value.FromI32(0))
	require.ErrorIs(t, err, value.ErrIntegerDivideByZero)

	_, err = value.I32DivU(value.FromI32(1), value.FromI32(0))
	require.ErrorIs(t, err, value.ErrIntegerDivideByZero)

	_, err = value.I32RemS(value.FromI32(1), value.FromI32(0))
	require.ErrorIs(t, err, value.ErrIntegerDivideByZero)
}

func TestI32MinIntOverflow(t *testing.T) {
	_, err := value.I32DivS(value.FromI32(math.MinInt32), value.FromI32(-1))
	require.ErrorIs(t, err, value.ErrIntegerOverflow)

	// i32.rem_s(MinInt32, -1) does not overflow: the mathematical
	// remainder is exactly representable as 0, unlike the quotient.
	got, err := value.I32RemS(value.FromI32(math.MinInt32), value.FromI32(-1))
	require.NoError(t, err)
	require.Equal(t, int32(0), got.I32())
}

func TestI64DivByZeroTraps(t *testing.T) {
	_, err := value.I64DivS(value.FromI64(1), value.FromI64(0))
	require.ErrorIs(t, err, value.ErrIntegerDivideByZero)

	_, err = value.I64DivU(value.FromI64(1), value.FromI64(0))
	require.ErrorIs(t, err, value.ErrIntegerDivideByZero)
}

func TestI64MinIntOverflow(t *testing.T) {
	_, err := value.I64DivS(value.FromI64(math.MinInt64), value.FromI64(-1))
	require.ErrorIs(t, err, value.ErrIntegerOverflow)

	got, err := value.I64RemS(value.FromI64(math.MinInt64), value.FromI64(-1))
	require.NoError(t, err)
	require.Equal(t, int64(0), got.I64())
}

func TestFloatMinMaxNaNPropagation(t *testing.T) {
	nan := value.FromF64(math.NaN())
	one := value.FromF64(1)

	require.True(t, math.IsNaN(value.F64Min(nan, one).F64()))
	require.True(t, math.IsNaN(value.F64Max(one, nan).F64()))
	require.True(t, math.IsNaN(value.F64Min(one, nan).F64()))
}

func TestFloatMinMaxSignedZero(t *testing.T) {
	// Wasm's min/max distinguish +0 and -0, unlike Go's plain < and >:
	// min(+0,-0) == -0 and max(+0,-0) == +0, regardless of argument order.
	posZero := value.FromF64(0)
	negZero := value.FromF64(math.Copysign(0, -1))

	min := value.F64Min(posZero, negZero)
	require.True(t, math.Signbit(min.F64()))

	max := value.F64Max(negZero, posZero)
	require.False(t, math.Signbit(max.F64()))
}

func TestTruncToIntTrapsOnNaNAndOverflow(t *testing.T) {
	_, err := value.I32TruncF64S(value.FromF64(math.NaN()))
	require.ErrorIs(t, err, value.ErrInvalidConversionToInt)

	_, err = value.I32TruncF64S(value.FromF64(1e20))
	require.ErrorIs(t, err, value.ErrIntegerOverflow)

	_, err = value.I64TruncF64U(value.FromF64(-1))
	require.ErrorIs(t, err, value.ErrIntegerOverflow)

	got, err := value.I32TruncF64S(value.FromF64(3.9))
	require.NoError(t, err)
	require.Equal(t, int32(3), got.I32())
}

func TestTruncSatClampsInsteadOfTrapping(t *testing.T) {
	require.Equal(t, int32(0), value.I32TruncSatF64S(value.FromF64(math.NaN())).I32())
	require.Equal(t, int32(math.MaxInt32), value.I32TruncSatF64S(value.FromF64(1e20)).I32())
	require.Equal(t, int32(math.MinInt32), value.I32TruncSatF64S(value.FromF64(-1e20)).I32())
	require.Equal(t, uint64(0), value.I64TruncSatF64U(value.FromF64(-5)).U64())
}

func TestWrapAndExtend(t *testing.T) {
	require.Equal(t, int32(-1), value.I32WrapI64(value.FromI64(0xFFFFFFFFFF)).I32())
	require.Equal(t, int64(-1), value.I64ExtendI32S(value.FromI32(-1)).I64())
	require.Equal(t, int64(0xFFFFFFFF), value.I64ExtendI32U(value.FromI32(-1)).I64())
	require.Equal(t, int32(-1), value.I32Extend8S(value.FromI32(0xFF)).I32())
}

func TestShiftAndRotateWrapAmountModuloWidth(t *testing.T) {
	// i32 shift/rotate amounts are taken modulo 32, i64 modulo 64.
	require.Equal(t, value.I32Shl(value.FromI32(1), value.FromI32(0)), value.I32Shl(value.FromI32(1), value.FromI32(32)))
	require.Equal(t, value.I64Shl(value.FromI64(1), value.FromI64(0)), value.I64Shl(value.FromI64(1), value.FromI64(64)))
}
