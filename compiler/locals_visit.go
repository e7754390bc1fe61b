package compiler

import (
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

// visitLocalGet, visitLocalSet, visitLocalTee translate local-index
// addressing into a LocalDepth immediate: the distance, in cells, from the
// current stack top down to the local's cell, computed fresh at every site
// since the stack height above a local shifts as the function evaluates.
//
// An i64 local occupies two adjacent cells (its high word at the lower
// offset, low word one cell above), mirroring every i64 value's on-stack
// convention of low-word-on-top. get/set on an i64 local therefore lower
// to a pair of single-cell ops rather than one: the two-emit derivation
// keeps both using the identical LocalDepth value, since the cell being
// addressed and the stack height it's measured against shift by exactly
// one in lockstep between the two emissions.
func (t *Translator) visitLocalGet(idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	kind := t.locals[idx]
	off := localCellOffset(t.locals, idx)
	if kind == ValI64 {
		depth := localDepth(t.stack.Height(), off)
		t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: depth}) // high word
		t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: depth}) // low word, ends on top
		t.stack.push(typeI64)
		return nil
	}
	depth := localDepth(t.stack.Height(), off)
	t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: depth})
	t.stack.push(kind.toInternal())
	return nil
}

func (t *Translator) visitLocalSet(idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	kind := t.locals[idx]
	off := localCellOffset(t.locals, idx)
	if kind == ValI64 {
		t.stack.pop() // the i64 entry, both cells
		depth := localDepth(t.stack.Height(), off)
		t.emit(opcode.Instruction{Op: opcode.LocalSet, Index: depth}) // low word
		t.emit(opcode.Instruction{Op: opcode.LocalSet, Index: depth}) // high word
		return nil
	}
	t.stack.pop()
	// local.set's depth is measured after the value being stored has already
	// left the stack, matching the interpreter popping it before addressing.
	depth := localDepth(t.stack.Height(), off)
	t.emit(opcode.Instruction{Op: opcode.LocalSet, Index: depth})
	return nil
}

func (t *Translator) visitLocalTee(idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	kind := t.locals[idx]
	off := localCellOffset(t.locals, idx)
	depth := localDepth(t.stack.Height(), off)
	if kind == ValI64 {
		// Write the low word (current top) in place with an ordinary tee,
		// then duplicate the high word (now at depth 2) onto the top and
		// pop-store it into the high slot — leaving both words exactly as
		// they were, now also persisted to the local.
		t.emit(opcode.Instruction{Op: opcode.LocalTee, Index: depth - 1})
		t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: 2})
		t.emit(opcode.Instruction{Op: opcode.LocalSet, Index: depth})
		return nil
	}
	t.emit(opcode.Instruction{Op: opcode.LocalTee, Index: depth})
	return nil
}

// visitGlobalGet, visitGlobalSet expand a WASM global index i into the pair
// of adjacent rWASM global slots (2i, 2i+1): a 32-bit global occupies only
// the low slot, a 64-bit global occupies both, emulated the same way a
// local's i64 occupies two cells.
func (t *Translator) visitGlobalGet(idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	if t.resolver.GlobalIs64(idx) {
		t.emit(opcode.Instruction{Op: opcode.GlobalGet, Index: 2*idx + 1})
		t.emit(opcode.Instruction{Op: opcode.GlobalGet, Index: 2 * idx})
		t.stack.push(typeI64)
		return nil
	}
	t.emit(opcode.Instruction{Op: opcode.GlobalGet, Index: 2 * idx})
	t.stack.push(typeI32)
	return nil
}

func (t *Translator) visitGlobalSet(idx uint32) error {
	if !t.isReachable() {
		return nil
	}
	if t.resolver.GlobalIs64(idx) {
		t.stack.pop()
		t.emit(opcode.Instruction{Op: opcode.GlobalSet, Index: 2 * idx})
		t.emit(opcode.Instruction{Op: opcode.GlobalSet, Index: 2*idx + 1})
		return nil
	}
	t.stack.pop()
	t.emit(opcode.Instruction{Op: opcode.GlobalSet, Index: 2 * idx})
	return nil
}

// visitConst emits a single-cell constant push (i32/f32, and the synthetic
// i32 zero used for ref.null/funcref).
func (t *Translator) visitConst(op opcode.Opcode, v value.Value, kind valType) error {
	if !t.isReachable() {
		return nil
	}
	t.emit(opcode.Instruction{Op: op, Const: v})
	t.stack.push(kind)
	return nil
}

// visitI64Const splits a 64-bit constant into its low and high 32-bit
// halves, each pushed with its own I32Const, per the emulation scheme that
// represents every i64 on the operand stack as two adjacent i32 cells
// (low word on top).
func (t *Translator) visitI64Const(v value.Value) error {
	if !t.isReachable() {
		return nil
	}
	bits := uint64(v)
	hi := uint32(bits >> 32)
	lo := uint32(bits)
	t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(int32(hi))})
	t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(int32(lo))})
	t.stack.push(typeI64)
	return nil
}

// visitUnary emits a single opcode that pops one cell of fromKind and
// pushes one cell of toKind (e.g. ref.is_null lowers to i32.eqz on a
// funcref represented as an i32 cell).
func (t *Translator) visitUnary(op opcode.Opcode, fromKind, toKind valType) error {
	if !t.isReachable() {
		return nil
	}
	t.stack.pop()
	t.emit(opcode.Instruction{Op: op})
	t.stack.push(toKind)
	return nil
}

func (t *Translator) visitDrop() error {
	if !t.isReachable() {
		return nil
	}
	kind := t.stack.pop()
	t.emit(opcode.Instruction{Op: opcode.Drop})
	if kind == typeI64 {
		t.emit(opcode.Instruction{Op: opcode.Drop})
	}
	return nil
}

func (t *Translator) visitSelect() error {
	if !t.isReachable() {
		return nil
	}
	t.stack.pop1() // condition
	b := t.stack.pop()
	t.stack.pop() // a, same kind as b
	t.emit(opcode.Instruction{Op: opcode.Select})
	t.stack.push(b)
	return nil
}
