package compiler

import (
	"math"

	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

// dup re-reads the stack cell at depth (1 = the current top) without
// popping it, the same LocalGet mechanism local.get uses against a
// function's locals — any addressable cell, not just a declared local, can
// be read this way. It is how the limit-injection preludes below duplicate
// an argument already sitting on the stack.
func (t *Translator) dup(depth uint32) {
	t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: depth})
}

// emitClampToMax caps the single-cell value currently on top of the stack
// to u32::MAX whenever (value + extra) would exceed bound, leaving exactly
// one cell behind either way. extraOp, when non-nil, pushes the "extra"
// addend (e.g. a memory's current page count) before the comparison; pass
// nil to compare the value against bound directly.
//
// Grounded on the translator's memory/table limit-injection prelude:
// duplicate the argument, add the current size, compare against the
// static bound, and on overflow replace the argument with u32::MAX so the
// interpreter's native op takes its own trap path deterministically rather
// than the translator ever needing to reason about the trap itself.
func (t *Translator) emitClampToMax(bound uint32, extraOp func()) {
	t.dup(1)
	if extraOp != nil {
		extraOp()
		t.emit(opcode.Instruction{Op: opcode.I32Add})
	}
	t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(int32(bound))})
	t.emit(opcode.Instruction{Op: opcode.I32GtS})
	skip := t.labels.newLabel()
	offset := t.branchOffset(skip)
	t.emit(opcode.Instruction{Op: opcode.BrIfEqz, BranchOffset: offset})
	t.emit(opcode.Instruction{Op: opcode.Drop})
	t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(math.MaxUint32)})
	t.labels.pin(skip, t.currentPC())
}

func (t *Translator) visitMemorySize() error {
	if !t.isReachable() {
		return nil
	}
	t.emit(opcode.Instruction{Op: opcode.MemorySize})
	t.stack.push(typeI32)
	return nil
}

func (t *Translator) visitMemoryGrow() error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Entity)
	t.emitClampToMax(t.resolver.MemoryMaxPages(), func() {
		t.emit(opcode.Instruction{Op: opcode.MemorySize})
	})
	t.stack.pop1() // delta
	t.emit(opcode.Instruction{Op: opcode.MemoryGrow})
	t.stack.push(typeI32) // previous page count, or u32::MAX
	return nil
}

func (t *Translator) visitMemoryFill() error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.ForBulk(1))
	t.stack.pop1()
	t.stack.pop1()
	t.stack.pop1()
	t.emit(opcode.Instruction{Op: opcode.MemoryFill})
	return nil
}

func (t *Translator) visitMemoryCopy() error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.ForBulk(1))
	t.stack.pop1()
	t.stack.pop1()
	t.stack.pop1()
	t.emit(opcode.Instruction{Op: opcode.MemoryCopy})
	return nil
}

// visitMemoryInit clamps the copy length against the segment's own length
// (rather than a growable current size) before lowering to the native op,
// since the consolidated data blob always holds the segment at a fixed
// offset — the prelude here only needs to guard the length, not relocate
// the source offset, because segment.Builder's ranges are resolved by the
// module loader ahead of time rather than patched into the instruction
// stream at translation time.
func (t *Translator) visitMemoryInit(dataIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.ForBulk(1))
	t.emitClampToMax(t.resolver.DataSegmentLength(dataIdx), nil)
	t.stack.pop1()
	t.stack.pop1()
	t.stack.pop1()
	t.emit(opcode.Instruction{Op: opcode.MemoryInit, Index: dataIdx})
	return nil
}

func (t *Translator) visitSegmentIndexOp(op opcode.Opcode, idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.emit(opcode.Instruction{Op: op, Index: idx})
	return nil
}

func (t *Translator) visitTableIndexOpPushPop(op opcode.Opcode, tableIdx uint32, pops, pushes int) error {
	if !t.isReachable() {
		return nil
	}
	for i := 0; i < pops; i++ {
		t.stack.pop1()
	}
	t.emit(opcode.Instruction{Op: op, Index: tableIdx})
	for i := 0; i < pushes; i++ {
		t.stack.push(typeI32)
	}
	return nil
}

func (t *Translator) visitTableGrow(tableIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Entity)
	// stack: [initValue, delta] with delta on top.
	t.emitClampToMax(t.resolver.TableMaxSize(tableIdx), func() {
		t.emit(opcode.Instruction{Op: opcode.TableSize, Index: tableIdx})
	})
	t.stack.pop1() // delta
	t.stack.pop1() // initValue
	t.emit(opcode.Instruction{Op: opcode.TableGrow, Index: tableIdx})
	t.stack.push(typeI32)
	return nil
}

func (t *Translator) visitTableInit(elemIdx, tableIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.ForBulk(1))
	t.emitClampToMax(t.resolver.ElemSegmentLength(elemIdx), nil)
	t.stack.pop1()
	t.stack.pop1()
	t.stack.pop1()
	t.emit(opcode.Instruction{Op: opcode.TableInit, Index: elemIdx})
	_ = tableIdx // single-table assumption, matching TableInit's KindElementSegmentIdx encoding
	return nil
}

func (t *Translator) visitRefFunc(funcIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.emit(opcode.Instruction{Op: opcode.RefFunc, Index: funcIdx})
	t.stack.push(typeFuncRef)
	return nil
}
