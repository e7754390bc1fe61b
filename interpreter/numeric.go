package interpreter

import (
	"fmt"
	"math"

	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

// dispatchNumericOrMemory executes everything the main dispatch switch in
// vm.go doesn't special-case itself: arithmetic, comparison, conversion,
// and the load/store/memory/table families. Splitting it out keeps the
// control-flow-heavy cases in dispatch readable; every opcode landing here
// is a pure function of the operand stack (plus, for load/store/bulk ops,
// memory/table/segment state).
func (vm *VM) dispatchNumericOrMemory(inst opcode.Instruction) error {
	switch inst.Op {

	// --- i32 comparisons ---
	case opcode.I32Eqz:
		vm.unary1(value.I32Eqz)
	case opcode.I32Eq:
		vm.binary1(value.I32Eq)
	case opcode.I32Ne:
		vm.binary1(value.I32Ne)
	case opcode.I32LtS:
		vm.binary1(value.I32LtS)
	case opcode.I32LtU:
		vm.binary1(value.I32LtU)
	case opcode.I32GtS:
		vm.binary1(value.I32GtS)
	case opcode.I32GtU:
		vm.binary1(value.I32GtU)
	case opcode.I32LeS:
		vm.binary1(value.I32LeS)
	case opcode.I32LeU:
		vm.binary1(value.I32LeU)
	case opcode.I32GeS:
		vm.binary1(value.I32GeS)
	case opcode.I32GeU:
		vm.binary1(value.I32GeU)

	// --- i32 arithmetic ---
	case opcode.I32Clz:
		vm.unary1(value.I32Clz)
	case opcode.I32Ctz:
		vm.unary1(value.I32Ctz)
	case opcode.I32Popcnt:
		vm.unary1(value.I32Popcnt)
	case opcode.I32Add:
		vm.binary1(value.I32Add)
	case opcode.I32Sub:
		vm.binary1(value.I32Sub)
	case opcode.I32Mul:
		vm.binary1(value.I32Mul)
	case opcode.I32DivS:
		return vm.binary1Fallible(value.I32DivS)
	case opcode.I32DivU:
		return vm.binary1Fallible(value.I32DivU)
	case opcode.I32RemS:
		return vm.binary1Fallible(value.I32RemS)
	case opcode.I32RemU:
		return vm.binary1Fallible(value.I32RemU)
	case opcode.I32And:
		vm.binary1(value.I32And)
	case opcode.I32Or:
		vm.binary1(value.I32Or)
	case opcode.I32Xor:
		vm.binary1(value.I32Xor)
	case opcode.I32Shl:
		vm.binary1(value.I32Shl)
	case opcode.I32ShrS:
		vm.binary1(value.I32ShrS)
	case opcode.I32ShrU:
		vm.binary1(value.I32ShrU)
	case opcode.I32Rotl:
		vm.binary1(value.I32Rotl)
	case opcode.I32Rotr:
		vm.binary1(value.I32Rotr)
	case opcode.I32Extend8S:
		vm.unary1(value.I32Extend8S)
	case opcode.I32Extend16S:
		vm.unary1(value.I32Extend16S)

	// --- i64 comparisons/arithmetic/bit-count (Eqz..Rotr): "legacy/
	// symmetry" native opcodes the real translator never emits for these —
	// it lowers them to i32 sequences instead (value/i64.go's doc comment).
	// Extend8S/16S/32S below ARE real emitted opcodes (compiler/numeric.go's
	// passthrough), included here only because they share the same 2-cell
	// pop/push shape as their neighbors, not because they're legacy too.
	case opcode.I64Eqz:
		vm.unary2to1(value.I64Eqz)
	case opcode.I64Eq:
		vm.binary2to1(value.I64Eq)
	case opcode.I64Ne:
		vm.binary2to1(value.I64Ne)
	case opcode.I64LtS:
		vm.binary2to1(value.I64LtS)
	case opcode.I64LtU:
		vm.binary2to1(value.I64LtU)
	case opcode.I64GtS:
		vm.binary2to1(value.I64GtS)
	case opcode.I64GtU:
		vm.binary2to1(value.I64GtU)
	case opcode.I64LeS:
		vm.binary2to1(value.I64LeS)
	case opcode.I64LeU:
		vm.binary2to1(value.I64LeU)
	case opcode.I64GeS:
		vm.binary2to1(value.I64GeS)
	case opcode.I64GeU:
		vm.binary2to1(value.I64GeU)
	case opcode.I64Clz:
		vm.unary2(value.I64Clz)
	case opcode.I64Ctz:
		vm.unary2(value.I64Ctz)
	case opcode.I64Popcnt:
		vm.unary2(value.I64Popcnt)
	case opcode.I64Add:
		vm.binary2(value.I64Add)
	case opcode.I64Sub:
		vm.binary2(value.I64Sub)
	case opcode.I64Mul:
		vm.binary2(value.I64Mul)
	case opcode.I64DivS:
		return vm.binary2Fallible(value.I64DivS)
	case opcode.I64DivU:
		return vm.binary2Fallible(value.I64DivU)
	case opcode.I64RemS:
		return vm.binary2Fallible(value.I64RemS)
	case opcode.I64RemU:
		return vm.binary2Fallible(value.I64RemU)
	case opcode.I64And:
		vm.binary2(value.I64And)
	case opcode.I64Or:
		vm.binary2(value.I64Or)
	case opcode.I64Xor:
		vm.binary2(value.I64Xor)
	case opcode.I64Shl:
		vm.binary2(value.I64Shl)
	case opcode.I64ShrS:
		vm.binary2(value.I64ShrS)
	case opcode.I64ShrU:
		vm.binary2(value.I64ShrU)
	case opcode.I64Rotl:
		vm.binary2(value.I64Rotl)
	case opcode.I64Rotr:
		vm.binary2(value.I64Rotr)
	case opcode.I64Extend8S:
		vm.unary2(value.I64Extend8S)
	case opcode.I64Extend16S:
		vm.unary2(value.I64Extend16S)
	case opcode.I64Extend32S:
		vm.unary2(value.I64Extend32S)

	// --- float comparisons/arithmetic ---
	case opcode.F32Eq, opcode.F32Ne, opcode.F32Lt, opcode.F32Gt, opcode.F32Le, opcode.F32Ge,
		opcode.F64Eq, opcode.F64Ne, opcode.F64Lt, opcode.F64Gt, opcode.F64Le, opcode.F64Ge,
		opcode.F32Abs, opcode.F32Neg, opcode.F32Ceil, opcode.F32Floor, opcode.F32Trunc,
		opcode.F32Nearest, opcode.F32Sqrt, opcode.F32Add, opcode.F32Sub, opcode.F32Mul,
		opcode.F32Div, opcode.F32Min, opcode.F32Max, opcode.F32Copysign,
		opcode.F64Abs, opcode.F64Neg, opcode.F64Ceil, opcode.F64Floor, opcode.F64Trunc,
		opcode.F64Nearest, opcode.F64Sqrt, opcode.F64Add, opcode.F64Sub, opcode.F64Mul,
		opcode.F64Div, opcode.F64Min, opcode.F64Max, opcode.F64Copysign:
		if !vm.floats {
			return trap(FloatsAreDisabled)
		}
		vm.dispatchFloat(inst.Op)

	// --- conversions: arity is a logical-operand count, so an i64-producing
	// or i64-consuming conversion pops/pushes 2 real cells within this one
	// case, never split across instructions (see compiler.numeric.go's
	// passthrough and SPEC_FULL.md §9).
	case opcode.I32WrapI64:
		vm.unary2to1(value.I32WrapI64)
	case opcode.I64ExtendI32S:
		vm.unary1to2(value.I64ExtendI32S)
	case opcode.I64ExtendI32U:
		vm.unary1to2(value.I64ExtendI32U)

	case opcode.I32TruncF32S:
		return vm.unary1Fallible1(value.I32TruncF32S)
	case opcode.I32TruncF32U:
		return vm.unary1Fallible1(value.I32TruncF32U)
	case opcode.I32TruncF64S:
		return vm.unary1Fallible1(value.I32TruncF64S)
	case opcode.I32TruncF64U:
		return vm.unary1Fallible1(value.I32TruncF64U)
	case opcode.I64TruncF32S:
		return vm.unary1Fallible2(value.I64TruncF32S)
	case opcode.I64TruncF32U:
		return vm.unary1Fallible2(value.I64TruncF32U)
	case opcode.I64TruncF64S:
		return vm.unary1Fallible2(value.I64TruncF64S)
	case opcode.I64TruncF64U:
		return vm.unary1Fallible2(value.I64TruncF64U)

	case opcode.I32TruncSatF32S:
		vm.unary1(value.I32TruncSatF32S)
	case opcode.I32TruncSatF32U:
		vm.unary1(value.I32TruncSatF32U)
	case opcode.I32TruncSatF64S:
		vm.unary1(value.I32TruncSatF64S)
	case opcode.I32TruncSatF64U:
		vm.unary1(value.I32TruncSatF64U)
	case opcode.I64TruncSatF32S:
		vm.unary1to2(value.I64TruncSatF32S)
	case opcode.I64TruncSatF32U:
		vm.unary1to2(value.I64TruncSatF32U)
	case opcode.I64TruncSatF64S:
		vm.unary1to2(value.I64TruncSatF64S)
	case opcode.I64TruncSatF64U:
		vm.unary1to2(value.I64TruncSatF64U)

	case opcode.F32ConvertI32S:
		vm.unary1(value.F32ConvertI32S)
	case opcode.F32ConvertI32U:
		vm.unary1(value.F32ConvertI32U)
	case opcode.F32ConvertI64S:
		vm.unary2to1(value.F32ConvertI64S)
	case opcode.F32ConvertI64U:
		vm.unary2to1(value.F32ConvertI64U)
	case opcode.F32DemoteF64:
		vm.unary1(value.F32DemoteF64)
	case opcode.F64ConvertI32S:
		vm.unary1(value.F64ConvertI32S)
	case opcode.F64ConvertI32U:
		vm.unary1(value.F64ConvertI32U)
	case opcode.F64ConvertI64S:
		vm.unary2to1(value.F64ConvertI64S)
	case opcode.F64ConvertI64U:
		vm.unary2to1(value.F64ConvertI64U)
	case opcode.F64PromoteF32:
		vm.unary1(value.F64PromoteF32)

	// --- load/store: a single instruction produces or consumes both cells
	// of an i64 itself (see compiler/loadstore.go's doc comment) —
	// different from local/global traffic, which the compiler always
	// splits into two single-cell instructions.
	case opcode.I32Load:
		return vm.load(inst.Index, 4, func(v uint64) value.Value { return value.FromU32(uint32(v)) })
	case opcode.F32Load:
		return vm.load(inst.Index, 4, func(v uint64) value.Value { return value.FromU32(uint32(v)) })
	case opcode.F64Load:
		return vm.load(inst.Index, 8, value.FromU64)
	case opcode.I32Load8S:
		return vm.load(inst.Index, 1, func(v uint64) value.Value { return value.FromI32(int32(int8(v))) })
	case opcode.I32Load8U:
		return vm.load(inst.Index, 1, func(v uint64) value.Value { return value.FromU32(uint32(v)) })
	case opcode.I32Load16S:
		return vm.load(inst.Index, 2, func(v uint64) value.Value { return value.FromI32(int32(int16(v))) })
	case opcode.I32Load16U:
		return vm.load(inst.Index, 2, func(v uint64) value.Value { return value.FromU32(uint32(v)) })
	case opcode.I64Load:
		return vm.loadI64(inst.Index)
	case opcode.I64Load8S:
		return vm.loadI64Ext(inst.Index, 1, true)
	case opcode.I64Load8U:
		return vm.loadI64Ext(inst.Index, 1, false)
	case opcode.I64Load16S:
		return vm.loadI64Ext(inst.Index, 2, true)
	case opcode.I64Load16U:
		return vm.loadI64Ext(inst.Index, 2, false)
	case opcode.I64Load32S:
		return vm.loadI64Ext(inst.Index, 4, true)
	case opcode.I64Load32U:
		return vm.loadI64Ext(inst.Index, 4, false)

	case opcode.I32Store, opcode.F32Store:
		return vm.store(inst.Index, 4)
	case opcode.I64Store:
		return vm.storeI64(inst.Index)
	case opcode.F64Store:
		return vm.store(inst.Index, 8)
	case opcode.I32Store8:
		return vm.store(inst.Index, 1)
	case opcode.I32Store16:
		return vm.store(inst.Index, 2)
	case opcode.I64Store8:
		return vm.storeI64Trunc(inst.Index, 1)
	case opcode.I64Store16:
		return vm.storeI64Trunc(inst.Index, 2)
	case opcode.I64Store32:
		return vm.storeI64Trunc(inst.Index, 4)

	// --- memory bulk ops ---
	case opcode.MemorySize:
		vm.stack.Push(value.FromU32(vm.memory.Pages()))
	case opcode.MemoryGrow:
		delta := vm.stack.Pop().U32()
		vm.stack.Push(value.FromU32(vm.memory.Grow(delta)))
	case opcode.MemoryFill:
		n := vm.stack.Pop().U32()
		v := byte(vm.stack.Pop().U32())
		dst := vm.stack.Pop().U32()
		if !vm.memory.Fill(dst, v, n) {
			return trap(MemoryOutOfBounds)
		}
	case opcode.MemoryCopy:
		n := vm.stack.Pop().U32()
		src := vm.stack.Pop().U32()
		dst := vm.stack.Pop().U32()
		if !vm.memory.CopyWithin(dst, src, n) {
			return trap(MemoryOutOfBounds)
		}
	case opcode.MemoryInit:
		n := vm.stack.Pop().U32()
		src := vm.stack.Pop().U32()
		dst := vm.stack.Pop().U32()
		if vm.droppedData.IsDropped(inst.Index) {
			return trap(MemoryOutOfBounds)
		}
		rng := vm.mod.Data.Ranges[inst.Index]
		if uint64(src)+uint64(n) > uint64(rng.Length) {
			return trap(MemoryOutOfBounds)
		}
		data := vm.mod.Data.Blob[rng.Offset+src : rng.Offset+src+n]
		if !vm.memory.WriteBytes(dst, data) {
			return trap(MemoryOutOfBounds)
		}
	case opcode.DataDrop:
		vm.droppedData.Drop(inst.Index)

	// --- table ops ---
	case opcode.TableSize:
		vm.stack.Push(value.FromU32(vm.tableAt(inst.Index).Size()))
	case opcode.TableGrow:
		delta := vm.stack.Pop().U32()
		initVal := vm.stack.Pop().U64()
		vm.stack.Push(value.FromU32(vm.tableAt(inst.Index).Grow(delta, initVal)))
	case opcode.TableFill:
		n := vm.stack.Pop().U32()
		val := vm.stack.Pop().U64()
		idx := vm.stack.Pop().U32()
		if !vm.tableAt(inst.Index).Fill(idx, val, n) {
			return trap(TableOutOfBounds)
		}
	case opcode.TableGet:
		idx := vm.stack.Pop().U32()
		ref, ok := vm.tableAt(inst.Index).Get(idx)
		if !ok {
			return trap(TableOutOfBounds)
		}
		vm.stack.Push(value.FromU64(ref))
	case opcode.TableSet:
		val := vm.stack.Pop().U64()
		idx := vm.stack.Pop().U32()
		if !vm.tableAt(inst.Index).Set(idx, val) {
			return trap(TableOutOfBounds)
		}
	case opcode.TableCopy:
		n := vm.stack.Pop().U32()
		src := vm.stack.Pop().U32()
		dst := vm.stack.Pop().U32()
		if !vm.tableAt(inst.Index).CopyWithin(dst, src, n) {
			return trap(TableOutOfBounds)
		}
	case opcode.TableInit:
		n := vm.stack.Pop().U32()
		src := vm.stack.Pop().U32()
		dst := vm.stack.Pop().U32()
		if vm.droppedElem.IsDropped(inst.Index) {
			return trap(TableOutOfBounds)
		}
		rng := vm.mod.Elements.Ranges[inst.Index]
		if uint64(src)+uint64(n) > uint64(rng.Length) {
			return trap(TableOutOfBounds)
		}
		if !vm.tables[0].Init(vm.mod.Elements.Blob, rng.Offset+src, dst, n) {
			return trap(TableOutOfBounds)
		}
	case opcode.ElemDrop:
		vm.droppedElem.Drop(inst.Index)

	case opcode.RefFunc:
		vm.stack.Push(value.FromU32(uint32(uint64(inst.Index) + FuncRefOffset)))

	default:
		return fmt.Errorf("rwasm/interpreter: unhandled opcode %v", inst.Op)
	}
	return nil
}

// tableAt resolves a table index, trapping at the call site instead of
// here would duplicate every case's error plumbing, so out-of-range access
// is treated as TableOutOfBounds the same way an out-of-range element
// access is: table.size/grow/fill/get/set/copy never apply against a
// table index the module linker didn't already validate, but a single-
// table module (TableInit's own assumption, see compiler/memtable.go)
// makes index 0 the only one that ever legitimately occurs here.
func (vm *VM) tableAt(index uint32) *Table {
	if int(index) >= len(vm.tables) {
		return NewTable(0, 0)
	}
	return vm.tables[index]
}

func (vm *VM) unary1(f func(value.Value) value.Value) {
	vm.stack.Push(f(vm.stack.Pop()))
}

func (vm *VM) binary1(f func(a, b value.Value) value.Value) {
	b := vm.stack.Pop()
	a := vm.stack.Pop()
	vm.stack.Push(f(a, b))
}

func (vm *VM) binary1Fallible(f func(a, b value.Value) (value.Value, error)) error {
	b := vm.stack.Pop()
	a := vm.stack.Pop()
	v, err := f(a, b)
	if err != nil {
		return wrapArithError(err)
	}
	vm.stack.Push(v)
	return nil
}

func (vm *VM) unary2(f func(value.Value) value.Value) {
	a := vm.stack.PopI64()
	vm.stack.PushI64(uint64(f(value.FromU64(a)).U64()))
}

func (vm *VM) binary2(f func(a, b value.Value) value.Value) {
	b := vm.stack.PopI64()
	a := vm.stack.PopI64()
	vm.stack.PushI64(f(value.FromU64(a), value.FromU64(b)).U64())
}

func (vm *VM) binary2Fallible(f func(a, b value.Value) (value.Value, error)) error {
	b := vm.stack.PopI64()
	a := vm.stack.PopI64()
	v, err := f(value.FromU64(a), value.FromU64(b))
	if err != nil {
		return wrapArithError(err)
	}
	vm.stack.PushI64(v.U64())
	return nil
}

// unary2to1 pops a 2-cell i64 operand and pushes a single-cell result
// (i32.wrap_i64, f32/f64.convert_i64*).
func (vm *VM) unary2to1(f func(value.Value) value.Value) {
	a := vm.stack.PopI64()
	vm.stack.Push(f(value.FromU64(a)))
}

// binary2to1 pops two 2-cell i64 operands and pushes a single-cell i32
// result (the i64 comparison family, which all produce a bool).
func (vm *VM) binary2to1(f func(a, b value.Value) value.Value) {
	b := vm.stack.PopI64()
	a := vm.stack.PopI64()
	vm.stack.Push(f(value.FromU64(a), value.FromU64(b)))
}

// unary1to2 pops a single-cell operand and pushes a 2-cell i64 result
// (i64.extend_i32*, i64.trunc_sat_f32/f64*).
func (vm *VM) unary1to2(f func(value.Value) value.Value) {
	a := vm.stack.Pop()
	vm.stack.PushI64(f(a).U64())
}

func (vm *VM) unary1Fallible1(f func(value.Value) (value.Value, error)) error {
	a := vm.stack.Pop()
	v, err := f(a)
	if err != nil {
		return wrapArithError(err)
	}
	vm.stack.Push(v)
	return nil
}

func (vm *VM) unary1Fallible2(f func(value.Value) (value.Value, error)) error {
	a := vm.stack.Pop()
	v, err := f(a)
	if err != nil {
		return wrapArithError(err)
	}
	vm.stack.PushI64(v.U64())
	return nil
}

func wrapArithError(err error) error {
	switch err {
	case value.ErrIntegerDivideByZero:
		return trapf(IntegerDivideByZero, err)
	case value.ErrIntegerOverflow:
		return trapf(IntegerOverflow, err)
	case value.ErrInvalidConversionToInt:
		return trapf(InvalidConversionToInt, err)
	default:
		return err
	}
}

// effectiveAddr computes a load/store's address as WebAssembly requires: the
// dynamic base plus the static offset, widened to 64 bits first so a large
// offset combined with a large base traps MemoryOutOfBounds instead of
// silently wrapping around the 32-bit address space into something
// in-bounds. ok is false whenever the sum itself doesn't fit a uint32.
func effectiveAddr(base, offset uint32) (addr uint32, ok bool) {
	sum := uint64(base) + uint64(offset)
	if sum > math.MaxUint32 {
		return 0, false
	}
	return uint32(sum), true
}

func (vm *VM) load(offset uint32, width int, decode func(uint64) value.Value) error {
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	var raw uint64
	switch width {
	case 1:
		var b byte
		b, ok = vm.memory.ReadByte(addr)
		raw = uint64(b)
	case 2:
		var v uint16
		v, ok = vm.memory.ReadUint16LE(addr)
		raw = uint64(v)
	case 4:
		var v uint32
		v, ok = vm.memory.ReadUint32LE(addr)
		raw = uint64(v)
	case 8:
		raw, ok = vm.memory.ReadUint64LE(addr)
	}
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	vm.stack.Push(decode(raw))
	return nil
}

func (vm *VM) loadI64(offset uint32) error {
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	v, ok := vm.memory.ReadUint64LE(addr)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	vm.stack.PushI64(v)
	return nil
}

// loadI64Ext loads a narrower-than-64-bit value and sign/zero-extends it to
// a full i64 result (2 stack cells).
func (vm *VM) loadI64Ext(offset uint32, width int, signed bool) error {
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	var raw uint64
	switch width {
	case 1:
		var b byte
		b, ok = vm.memory.ReadByte(addr)
		if signed {
			raw = uint64(int64(int8(b)))
		} else {
			raw = uint64(b)
		}
	case 2:
		var v uint16
		v, ok = vm.memory.ReadUint16LE(addr)
		if signed {
			raw = uint64(int64(int16(v)))
		} else {
			raw = uint64(v)
		}
	case 4:
		var v uint32
		v, ok = vm.memory.ReadUint32LE(addr)
		if signed {
			raw = uint64(int64(int32(v)))
		} else {
			raw = uint64(v)
		}
	}
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	vm.stack.PushI64(raw)
	return nil
}

func (vm *VM) store(offset uint32, width int) error {
	v := vm.stack.Pop()
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	switch width {
	case 1:
		ok = vm.memory.WriteByte(addr, byte(v.U32()))
	case 2:
		ok = vm.memory.WriteUint16LE(addr, uint16(v.U32()))
	case 4:
		ok = vm.memory.WriteUint32LE(addr, v.U32())
	case 8:
		ok = vm.memory.WriteUint64LE(addr, v.U64())
	}
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	return nil
}

func (vm *VM) storeI64(offset uint32) error {
	v := vm.stack.PopI64()
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	if !vm.memory.WriteUint64LE(addr, v) {
		return trap(MemoryOutOfBounds)
	}
	return nil
}

func (vm *VM) storeI64Trunc(offset uint32, width int) error {
	v := vm.stack.PopI64()
	addr, ok := effectiveAddr(vm.stack.Pop().U32(), offset)
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	switch width {
	case 1:
		ok = vm.memory.WriteByte(addr, byte(v))
	case 2:
		ok = vm.memory.WriteUint16LE(addr, uint16(v))
	case 4:
		ok = vm.memory.WriteUint32LE(addr, uint32(v))
	}
	if !ok {
		return trap(MemoryOutOfBounds)
	}
	return nil
}

// dispatchFloat executes the float arithmetic/comparison family; split out
// from the main switch only to keep that switch's case list from doubling,
// not because floats need different operand-width handling than i32.
func (vm *VM) dispatchFloat(op opcode.Opcode) {
	switch op {
	case opcode.F32Eq:
		vm.binary1(value.F32Eq)
	case opcode.F32Ne:
		vm.binary1(value.F32Ne)
	case opcode.F32Lt:
		vm.binary1(value.F32Lt)
	case opcode.F32Gt:
		vm.binary1(value.F32Gt)
	case opcode.F32Le:
		vm.binary1(value.F32Le)
	case opcode.F32Ge:
		vm.binary1(value.F32Ge)
	case opcode.F64Eq:
		vm.binary1(value.F64Eq)
	case opcode.F64Ne:
		vm.binary1(value.F64Ne)
	case opcode.F64Lt:
		vm.binary1(value.F64Lt)
	case opcode.F64Gt:
		vm.binary1(value.F64Gt)
	case opcode.F64Le:
		vm.binary1(value.F64Le)
	case opcode.F64Ge:
		vm.binary1(value.F64Ge)
	case opcode.F32Abs:
		vm.unary1(value.F32Abs)
	case opcode.F32Neg:
		vm.unary1(value.F32Neg)
	case opcode.F32Ceil:
		vm.unary1(value.F32Ceil)
	case opcode.F32Floor:
		vm.unary1(value.F32Floor)
	case opcode.F32Trunc:
		vm.unary1(value.F32Trunc)
	case opcode.F32Nearest:
		vm.unary1(value.F32Nearest)
	case opcode.F32Sqrt:
		vm.unary1(value.F32Sqrt)
	case opcode.F32Add:
		vm.binary1(value.F32Add)
	case opcode.F32Sub:
		vm.binary1(value.F32Sub)
	case opcode.F32Mul:
		vm.binary1(value.F32Mul)
	case opcode.F32Div:
		vm.binary1(value.F32Div)
	case opcode.F32Min:
		vm.binary1(value.F32Min)
	case opcode.F32Max:
		vm.binary1(value.F32Max)
	case opcode.F32Copysign:
		vm.binary1(value.F32Copysign)
	case opcode.F64Abs:
		vm.unary1(value.F64Abs)
	case opcode.F64Neg:
		vm.unary1(value.F64Neg)
	case opcode.F64Ceil:
		vm.unary1(value.F64Ceil)
	case opcode.F64Floor:
		vm.unary1(value.F64Floor)
	case opcode.F64Trunc:
		vm.unary1(value.F64Trunc)
	case opcode.F64Nearest:
		vm.unary1(value.F64Nearest)
	case opcode.F64Sqrt:
		vm.unary1(value.F64Sqrt)
	case opcode.F64Add:
		vm.binary1(value.F64Add)
	case opcode.F64Sub:
		vm.binary1(value.F64Sub)
	case opcode.F64Mul:
		vm.binary1(value.F64Mul)
	case opcode.F64Div:
		vm.binary1(value.F64Div)
	case opcode.F64Min:
		vm.binary1(value.F64Min)
	case opcode.F64Max:
		vm.binary1(value.F64Max)
	case opcode.F64Copysign:
		vm.binary1(value.F64Copysign)
	}
}
