package compiler

import (
	"fmt"

	"github.com/rwasmio/rwasm/ir"
	"github.com/rwasmio/rwasm/opcode"
)

// visitNumeric dispatches the ~180 pure arithmetic/comparison/conversion
// operators the ir package collapses under OpNumeric. Two lowering
// strategies apply:
//
//   - i64 arithmetic between two already-two-cell i64 operands (add, sub,
//     mul, compare, bitwise, shift, rotate, clz/ctz/popcnt, div/rem) has no
//     native 64-bit primitive to fall back on, so it is emulated with
//     32-bit primitives — see i64.go.
//   - Everything else (i32/float arithmetic and compare, and every
//     conversion, including the ones that cross into or out of i64) maps
//     to exactly one native opcode. A conversion that produces or
//     consumes an i64 still costs only one opcode: the interpreter
//     computes the result with ordinary 64-bit Go arithmetic (the same
//     code in package value) and pushes or pops both of its cells within
//     that single instruction's execution, the same way I64Load/I64Store
//     already must.
func (t *Translator) visitNumeric(op opcode.Opcode, mem ir.MemArg) error {
	if !t.isReachable() {
		return nil
	}
	_ = mem // load/store carry their own MemArg via ir.OpI32Load etc., not OpNumeric
	t.bumpFuel(t.fuel.Base)

	switch op {
	case opcode.I64Eqz:
		return t.i64Eqz()
	case opcode.I64Eq, opcode.I64Ne:
		return t.i64EqNe(op)
	case opcode.I64LtS, opcode.I64LtU, opcode.I64GtS, opcode.I64GtU,
		opcode.I64LeS, opcode.I64LeU, opcode.I64GeS, opcode.I64GeU:
		return t.i64Compare(op)
	case opcode.I64Clz:
		return t.i64Clz()
	case opcode.I64Ctz:
		return t.i64Ctz()
	case opcode.I64Popcnt:
		return t.i64Popcnt()
	case opcode.I64Add:
		return t.i64AddSub(opcode.I32Add)
	case opcode.I64Sub:
		return t.i64AddSub(opcode.I32Sub)
	case opcode.I64Mul:
		return t.i64Mul()
	case opcode.I64And, opcode.I64Or, opcode.I64Xor:
		return t.i64Bitwise(op)
	case opcode.I64Shl, opcode.I64ShrS, opcode.I64ShrU, opcode.I64Rotl, opcode.I64Rotr:
		return t.i64ShiftRotate(op)
	case opcode.I64DivU, opcode.I64RemU:
		return t.i64DivRemU(op)
	case opcode.I64DivS, opcode.I64RemS:
		return t.i64DivRemS(op)
	}

	// Every remaining numeric operator lowers to exactly one native
	// opcode; only its arity and result kind differ.
	switch op {
	// i32 compare (2 in, i32 out)
	case opcode.I32Eq, opcode.I32Ne, opcode.I32LtS, opcode.I32LtU, opcode.I32GtS, opcode.I32GtU,
		opcode.I32LeS, opcode.I32LeU, opcode.I32GeS, opcode.I32GeU,
		opcode.F32Eq, opcode.F32Ne, opcode.F32Lt, opcode.F32Gt, opcode.F32Le, opcode.F32Ge,
		opcode.F64Eq, opcode.F64Ne, opcode.F64Lt, opcode.F64Gt, opcode.F64Le, opcode.F64Ge:
		return t.passthrough(op, 2, typeI32)
	// i32 unary (1 in, i32 out)
	case opcode.I32Eqz, opcode.I32Clz, opcode.I32Ctz, opcode.I32Popcnt,
		opcode.I32Extend8S, opcode.I32Extend16S, opcode.I32WrapI64,
		opcode.I32TruncF32S, opcode.I32TruncF32U, opcode.I32TruncF64S, opcode.I32TruncF64U,
		opcode.I32TruncSatF32S, opcode.I32TruncSatF32U, opcode.I32TruncSatF64S, opcode.I32TruncSatF64U:
		return t.passthrough(op, 1, typeI32)
	// i32 binary (2 in, i32 out)
	case opcode.I32Add, opcode.I32Sub, opcode.I32Mul, opcode.I32DivS, opcode.I32DivU,
		opcode.I32RemS, opcode.I32RemU, opcode.I32And, opcode.I32Or, opcode.I32Xor,
		opcode.I32Shl, opcode.I32ShrS, opcode.I32ShrU, opcode.I32Rotl, opcode.I32Rotr:
		return t.passthrough(op, 2, typeI32)
	// f32 unary
	case opcode.F32Abs, opcode.F32Neg, opcode.F32Ceil, opcode.F32Floor, opcode.F32Trunc,
		opcode.F32Nearest, opcode.F32Sqrt, opcode.F32DemoteF64,
		opcode.F32ConvertI32S, opcode.F32ConvertI32U, opcode.F32ConvertI64S, opcode.F32ConvertI64U:
		return t.passthrough(op, 1, typeF32)
	// f32 binary
	case opcode.F32Add, opcode.F32Sub, opcode.F32Mul, opcode.F32Div, opcode.F32Min, opcode.F32Max, opcode.F32Copysign:
		return t.passthrough(op, 2, typeF32)
	// f64 unary
	case opcode.F64Abs, opcode.F64Neg, opcode.F64Ceil, opcode.F64Floor, opcode.F64Trunc,
		opcode.F64Nearest, opcode.F64Sqrt, opcode.F64PromoteF32,
		opcode.F64ConvertI32S, opcode.F64ConvertI32U, opcode.F64ConvertI64S, opcode.F64ConvertI64U:
		return t.passthrough(op, 1, typeF64)
	// f64 binary
	case opcode.F64Add, opcode.F64Sub, opcode.F64Mul, opcode.F64Div, opcode.F64Min, opcode.F64Max, opcode.F64Copysign:
		return t.passthrough(op, 2, typeF64)
	// i64-producing conversions (1 in, i64 out)
	case opcode.I64ExtendI32S, opcode.I64ExtendI32U,
		opcode.I64TruncF32S, opcode.I64TruncF32U, opcode.I64TruncF64S, opcode.I64TruncF64U,
		opcode.I64TruncSatF32S, opcode.I64TruncSatF32U, opcode.I64TruncSatF64S, opcode.I64TruncSatF64U,
		opcode.I64Extend8S, opcode.I64Extend16S, opcode.I64Extend32S:
		return t.passthrough(op, 1, typeI64)
	}
	return fmt.Errorf("rwasm/compiler: unhandled numeric opcode %v", op)
}

// passthrough pops n logical operands (each contributing its own cell
// count) and pushes one result of kind, emitting a single native opcode.
func (t *Translator) passthrough(op opcode.Opcode, arity int, result valType) error {
	for i := 0; i < arity; i++ {
		t.stack.pop1()
	}
	t.emit(opcode.Instruction{Op: op})
	t.stack.push(result)
	return nil
}
