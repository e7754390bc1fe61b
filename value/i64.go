package value

import (
	"math"
	"math/bits"
)

// i64 instructions exist in the opcode set for tracing symmetry (see
// design note in SPEC_FULL.md §9): the translator's modern path never
// emits I64Add et al. for integer arithmetic, lowering it instead to i32
// sequences at compile time. The interpreter still implements full i64
// semantics so the opcode set remains self-consistent and executable on
// its own, e.g. for a hand-assembled instruction stream or the legacy path.

func I64Eqz(a Value) Value { return FromBool(a.I64() == 0) }

func I64Eq(a, b Value) Value  { return FromBool(a.I64() == b.I64()) }
func I64Ne(a, b Value) Value  { return FromBool(a.I64() != b.I64()) }
func I64LtS(a, b Value) Value { return FromBool(a.I64() < b.I64()) }
func I64LtU(a, b Value) Value { return FromBool(a.U64() < b.U64()) }
func I64GtS(a, b Value) Value { return FromBool(a.I64() > b.I64()) }
func I64GtU(a, b Value) Value { return FromBool(a.U64() > b.U64()) }
func I64LeS(a, b Value) Value { return FromBool(a.I64() <= b.I64()) }
func I64LeU(a, b Value) Value { return FromBool(a.U64() <= b.U64()) }
func I64GeS(a, b Value) Value { return FromBool(a.I64() >= b.I64()) }
func I64GeU(a, b Value) Value { return FromBool(a.U64() >= b.U64()) }

func I64Clz(a Value) Value    { return FromI64(int64(bits.LeadingZeros64(a.U64()))) }
func I64Ctz(a Value) Value    { return FromI64(int64(bits.TrailingZeros64(a.U64()))) }
func I64Popcnt(a Value) Value { return FromI64(int64(bits.OnesCount64(a.U64()))) }

func I64Add(a, b Value) Value { return FromI64(a.I64() + b.I64()) }
func I64Sub(a, b Value) Value { return FromI64(a.I64() - b.I64()) }
func I64Mul(a, b Value) Value { return FromI64(a.I64() * b.I64()) }

func I64DivS(a, b Value) (Value, error) {
	x, y := a.I64(), b.I64()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if x == math.MinInt64 && y == -1 {
		return 0, ErrIntegerOverflow
	}
	return FromI64(x / y), nil
}

func I64DivU(a, b Value) (Value, error) {
	x, y := a.U64(), b.U64()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	return FromU64(x / y), nil
}

func I64RemS(a, b Value) (Value, error) {
	x, y := a.I64(), b.I64()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	if x == math.MinInt64 && y == -1 {
		return FromI64(0), nil
	}
	return FromI64(x % y), nil
}

func I64RemU(a, b Value) (Value, error) {
	x, y := a.U64(), b.U64()
	if y == 0 {
		return 0, ErrIntegerDivideByZero
	}
	return FromU64(x % y), nil
}

func I64And(a, b Value) Value { return FromU64(a.U64() & b.U64()) }
func I64Or(a, b Value) Value  { return FromU64(a.U64() | b.U64()) }
func I64Xor(a, b Value) Value { return FromU64(a.U64() ^ b.U64()) }
func I64Shl(a, b Value) Value { return FromU64(a.U64() << (b.U64() % 64)) }
func I64ShrS(a, b Value) Value {
	return FromI64(a.I64() >> (b.U64() % 64))
}
func I64ShrU(a, b Value) Value { return FromU64(a.U64() >> (b.U64() % 64)) }
func I64Rotl(a, b Value) Value { return FromU64(bits.RotateLeft64(a.U64(), int(b.U64()%64))) }
func I64Rotr(a, b Value) Value { return FromU64(bits.RotateLeft64(a.U64(), -int(b.U64()%64))) }

func I64ExtendI32S(a Value) Value { return FromI64(int64(a.I32())) }
func I64ExtendI32U(a Value) Value { return FromI64(int64(a.U32())) }

func I64Extend8S(a Value) Value  { return FromI64(int64(int8(a.I64()))) }
func I64Extend16S(a Value) Value { return FromI64(int64(int16(a.I64()))) }
func I64Extend32S(a Value) Value { return FromI64(int64(int32(a.I64()))) }
