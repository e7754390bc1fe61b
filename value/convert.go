package value

import "math"

// Trapping truncations (the *_trunc_* family) reject NaN, infinities, and
// out-of-range magnitudes with ErrInvalidConversionToInt / ErrIntegerOverflow
// rather than silently wrapping, matching the Wasm spec's trunc semantics.
// The *_trunc_sat_* family below never traps: it clamps instead.

func I32TruncF32S(a Value) (Value, error) {
	f := float64(a.F32())
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < math.MinInt32 || f >= math.MaxInt32+1 {
		return 0, ErrIntegerOverflow
	}
	return FromI32(int32(f)), nil
}

func I32TruncF32U(a Value) (Value, error) {
	f := float64(a.F32())
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < 0 || f >= math.MaxUint32+1 {
		return 0, ErrIntegerOverflow
	}
	return FromU32(uint32(f)), nil
}

func I32TruncF64S(a Value) (Value, error) {
	f := a.F64()
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < math.MinInt32 || f >= math.MaxInt32+1 {
		return 0, ErrIntegerOverflow
	}
	return FromI32(int32(f)), nil
}

func I32TruncF64U(a Value) (Value, error) {
	f := a.F64()
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < 0 || f >= math.MaxUint32+1 {
		return 0, ErrIntegerOverflow
	}
	return FromU32(uint32(f)), nil
}

func I64TruncF32S(a Value) (Value, error) {
	f := float64(a.F32())
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, ErrIntegerOverflow
	}
	return FromI64(int64(f)), nil
}

func I64TruncF32U(a Value) (Value, error) {
	f := float64(a.F32())
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < 0 || f >= math.MaxUint64 {
		return 0, ErrIntegerOverflow
	}
	return FromU64(uint64(f)), nil
}

func I64TruncF64S(a Value) (Value, error) {
	f := a.F64()
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, ErrIntegerOverflow
	}
	return FromI64(int64(f)), nil
}

func I64TruncF64U(a Value) (Value, error) {
	f := a.F64()
	if math.IsNaN(f) {
		return 0, ErrInvalidConversionToInt
	}
	if f < 0 || f >= math.MaxUint64 {
		return 0, ErrIntegerOverflow
	}
	return FromU64(uint64(f)), nil
}

func I32TruncSatF32S(a Value) Value { return FromI32(satTrunc32(float64(a.F32()), math.MinInt32, math.MaxInt32)) }
func I32TruncSatF32U(a Value) Value {
	return FromU32(uint32(satTruncU(float64(a.F32()), math.MaxUint32)))
}
func I32TruncSatF64S(a Value) Value { return FromI32(satTrunc32(a.F64(), math.MinInt32, math.MaxInt32)) }
func I32TruncSatF64U(a Value) Value {
	return FromU32(uint32(satTruncU(a.F64(), math.MaxUint32)))
}
func I64TruncSatF32S(a Value) Value {
	return FromI64(satTrunc64(float64(a.F32()), math.MinInt64, math.MaxInt64))
}
func I64TruncSatF32U(a Value) Value { return FromU64(satTruncU(float64(a.F32()), math.MaxUint64)) }
func I64TruncSatF64S(a Value) Value { return FromI64(satTrunc64(a.F64(), math.MinInt64, math.MaxInt64)) }
func I64TruncSatF64U(a Value) Value { return FromU64(satTruncU(a.F64(), math.MaxUint64)) }

func satTrunc32(f float64, lo, hi int32) int32 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int32(f)
}

func satTrunc64(f float64, lo, hi int64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int64(f)
}

func satTruncU(f float64, hi uint64) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= float64(hi) {
		return hi
	}
	return uint64(f)
}

func F32DemoteF64(a Value) Value  { return FromF32(float32(a.F64())) }
func F64PromoteF32(a Value) Value { return FromF64(float64(a.F32())) }

func F32ConvertI32S(a Value) Value { return FromF32(float32(a.I32())) }
func F32ConvertI32U(a Value) Value { return FromF32(float32(a.U32())) }
func F32ConvertI64S(a Value) Value { return FromF32(float32(a.I64())) }
func F32ConvertI64U(a Value) Value { return FromF32(float32(a.U64())) }
func F64ConvertI32S(a Value) Value { return FromF64(float64(a.I32())) }
func F64ConvertI32U(a Value) Value { return FromF64(float64(a.U32())) }
func F64ConvertI64S(a Value) Value { return FromF64(float64(a.I64())) }
func F64ConvertI64U(a Value) Value { return FromF64(float64(a.U64())) }

// Reinterpret casts reuse the bit pattern unchanged; Value already stores
// raw bits, so these are identity on the underlying uint64.
func I32ReinterpretF32(a Value) Value { return a }
func F32ReinterpretI32(a Value) Value { return a }
func I64ReinterpretF64(a Value) Value { return a }
func F64ReinterpretI64(a Value) Value { return a }
