package value

import (
	"math"

	"github.com/rwasmio/rwasm/internal/moremath"
)

// Float instructions delegate NaN/signed-zero/infinity edge cases to
// internal/moremath, whose semantics are dictated by the Wasm spec rather
// than by Go's math package defaults (math.Min/Max disagree with Wasm on
// NaN propagation and signed zero).

func F32Eq(a, b Value) Value { return FromBool(a.F32() == b.F32()) }
func F32Ne(a, b Value) Value { return FromBool(a.F32() != b.F32()) }
func F32Lt(a, b Value) Value { return FromBool(a.F32() < b.F32()) }
func F32Gt(a, b Value) Value { return FromBool(a.F32() > b.F32()) }
func F32Le(a, b Value) Value { return FromBool(a.F32() <= b.F32()) }
func F32Ge(a, b Value) Value { return FromBool(a.F32() >= b.F32()) }

func F32Abs(a Value) Value   { return FromF32(float32(math.Abs(float64(a.F32())))) }
func F32Neg(a Value) Value   { return FromF32(-a.F32()) }
func F32Ceil(a Value) Value  { return FromF32(float32(math.Ceil(float64(a.F32())))) }
func F32Floor(a Value) Value { return FromF32(float32(math.Floor(float64(a.F32())))) }
func F32Trunc(a Value) Value { return FromF32(float32(math.Trunc(float64(a.F32())))) }
func F32Nearest(a Value) Value {
	return FromF32(moremath.WasmCompatNearestF32(a.F32()))
}
func F32Sqrt(a Value) Value { return FromF32(float32(math.Sqrt(float64(a.F32())))) }

func F32Add(a, b Value) Value { return FromF32(a.F32() + b.F32()) }
func F32Sub(a, b Value) Value { return FromF32(a.F32() - b.F32()) }
func F32Mul(a, b Value) Value { return FromF32(a.F32() * b.F32()) }
func F32Div(a, b Value) Value { return FromF32(a.F32() / b.F32()) }
func F32Min(a, b Value) Value {
	return FromF32(float32(moremath.WasmCompatMin(float64(a.F32()), float64(b.F32()))))
}
func F32Max(a, b Value) Value {
	return FromF32(float32(moremath.WasmCompatMax(float64(a.F32()), float64(b.F32()))))
}
func F32Copysign(a, b Value) Value {
	return FromF32(float32(math.Copysign(float64(a.F32()), float64(b.F32()))))
}

func F64Eq(a, b Value) Value { return FromBool(a.F64() == b.F64()) }
func F64Ne(a, b Value) Value { return FromBool(a.F64() != b.F64()) }
func F64Lt(a, b Value) Value { return FromBool(a.F64() < b.F64()) }
func F64Gt(a, b Value) Value { return FromBool(a.F64() > b.F64()) }
func F64Le(a, b Value) Value { return FromBool(a.F64() <= b.F64()) }
func F64Ge(a, b Value) Value { return FromBool(a.F64() >= b.F64()) }

func F64Abs(a Value) Value     { return FromF64(math.Abs(a.F64())) }
func F64Neg(a Value) Value     { return FromF64(-a.F64()) }
func F64Ceil(a Value) Value    { return FromF64(math.Ceil(a.F64())) }
func F64Floor(a Value) Value   { return FromF64(math.Floor(a.F64())) }
func F64Trunc(a Value) Value   { return FromF64(math.Trunc(a.F64())) }
func F64Nearest(a Value) Value { return FromF64(moremath.WasmCompatNearestF64(a.F64())) }
func F64Sqrt(a Value) Value    { return FromF64(math.Sqrt(a.F64())) }

func F64Add(a, b Value) Value { return FromF64(a.F64() + b.F64()) }
func F64Sub(a, b Value) Value { return FromF64(a.F64() - b.F64()) }
func F64Mul(a, b Value) Value { return FromF64(a.F64() * b.F64()) }
func F64Div(a, b Value) Value { return FromF64(a.F64() / b.F64()) }
func F64Min(a, b Value) Value {
	return FromF64(moremath.WasmCompatMin(a.F64(), b.F64()))
}
func F64Max(a, b Value) Value {
	return FromF64(moremath.WasmCompatMax(a.F64(), b.F64()))
}
func F64Copysign(a, b Value) Value {
	return FromF64(math.Copysign(a.F64(), b.F64()))
}
