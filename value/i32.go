package value

import (
	"math"
	"math/bits"
)

// The functions in this file implement the WebAssembly i32 numeric
// instructions on untyped cells. Each mirrors one visit_i32_* case in the
// rwasm executor's opcode table: a pure function from one or two Values to
// a Value, or to an error for the fallible ones (division, remainder).

func I32Eqz(a Value) Value { return FromBool(a.I32() == 0) }

func I32Eq(a, b Value) Value { return FromBool(a.I32() == b.I32()) }
func I32Ne(a, b Value) Value { return FromBool(a.I32() != b.I32()) }
func I32LtS(a, b Value) Value { return FromBool(a.I32() < b.I32()) }
func I32LtU(a, b Value) Value { return FromBool(a.U32() < b.U32()) }
func I32GtS(a, b Value) Value { return FromBool(a.I32() > b.I32()) }
func I32GtU(a, b Value) Value { return FromBool(a.U32() > b.U32()) }
func I32LeS(a, b Value) Value { return FromBool(a.I32() <= b.I32()) }
func I32LeU(a, b Value) Value { return FromBool(a.U32() <= b.U32()) }
func I32GeS(a, b Value) Value { return FromBool(a.I32() >= b.I32()) }
func I32GeU(a, b Value) Value { return FromBool(a.U32() >= b.U32()) }

func I32Clz(a Value) Value    { return FromI32(int32(bits.LeadingZeros32(a.U32()))) }
func I32Ctz(a Value) Value    { return FromI32(int32(bits.TrailingZeros32(a.U32()))) }
func I32Popcnt(a Value) Value { return FromI32(int32(bits.OnesCount32(a.U32()))) }

func I32Add(a, b Value) Value { return FromI32(a.I32() + b.I32()) }
func I32Sub(a, b Value) Value { return FromI32(a.I32() - b.I32()) }
func I32Mul(a, b Value) Value { return FromI32(a.I32() * b.I32()) }

func I32DivS(a, b Value) (Value, error) {
	x, y := a.I32(), b.I32()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if x == math.MinInt32 && y == -1 {
		return 0, ErrIntegerOverflow
	}
	return FromI32(x / y), nil
}

func I32DivU(a, b Value) (Value, error) {
	x, y := a.U32(), b.U32()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	return FromU32(x / y), nil
}

func I32RemS(a, b Value) (Value, error) {
	x, y := a.I32(), b.I32()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if x == math.MinInt32 && y == -1 {
		return FromI32(0), nil
	}
	return FromI32(x % y), nil
}

func I32RemU(a, b Value) (Value, error) {
	x, y := a.U32(), b.U32()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	return FromU32(x % y), nil
}

func I32And(a, b Value) Value { return FromU32(a.U32() & b.U32()) }
func I32Or(a, b Value) Value  { return FromU32(a.U32() | b.U32()) }
func I32Xor(a, b Value) Value { return FromU32(a.U32() ^ b.U32()) }
func I32Shl(a, b Value) Value { return FromU32(a.U32() << (b.U32() % 32)) }
func I32ShrS(a, b Value) Value {
	return FromI32(a.I32() >> (b.U32() % 32))
}
func I32ShrU(a, b Value) Value { return FromU32(a.U32() >> (b.U32() % 32)) }
func I32Rotl(a, b Value) Value { return FromU32(bits.RotateLeft32(a.U32(), int(b.U32()%32))) }
func I32Rotr(a, b Value) Value { return FromU32(bits.RotateLeft32(a.U32(), -int(b.U32()%32))) }

func I32WrapI64(a Value) Value { return FromI32(int32(a.I64())) }

func I32Extend8S(a Value) Value  { return FromI32(int32(int8(a.I32()))) }
func I32Extend16S(a Value) Value { return FromI32(int32(int16(a.I32()))) }
