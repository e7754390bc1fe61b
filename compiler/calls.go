package compiler

import "github.com/rwasmio/rwasm/opcode"

// visitCall, visitCallIndirect lower direct/indirect calls per the call
// lowering scheme: a call to a module-internal function uses the cheaper
// CallInternal(compiledIndex) that needs no signature check, since the
// translator itself only ever emits calls the resolver already validated;
// a call to an import uses Call(funcIndex), routed through the syscall
// handler at run time. Indirect calls resolve through a table: CallIndirect
// carries the expected signature, followed by a trailing TableGet(table)
// word the interpreter reads to fetch the callee reference.
func (t *Translator) visitCall(funcIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Call)
	paramCells, resultCells := t.resolver.FuncArity(funcIdx)
	t.stack.shrinkTo(t.stack.Height() - paramCells)
	t.stack.pushCells(resultCells)
	if t.resolver.IsInternalFunc(funcIdx) {
		t.emit(opcode.Instruction{Op: opcode.CallInternal, Index: t.resolver.CompiledFuncIndex(funcIdx)})
	} else {
		t.emit(opcode.Instruction{Op: opcode.Call, Index: funcIdx})
	}
	return nil
}

func (t *Translator) visitCallIndirect(typeIdx, tableIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Call)
	t.stack.pop1() // table index operand
	paramCells, resultCells := t.resolver.SignatureArity(typeIdx)
	t.stack.shrinkTo(t.stack.Height() - paramCells)
	t.stack.pushCells(resultCells)
	t.emit(opcode.Instruction{Op: opcode.CallIndirect, Index: typeIdx})
	t.emit(opcode.Instruction{Op: opcode.TableGet, Index: tableIdx})
	return nil
}

// tailCallDropKeep computes the drop_keep a return_call* replaces the
// outer frame's locals with: keep the callee's param cells (already on
// the stack, about to become its arguments), drop everything beneath them
// down to the function frame's origin height.
func (t *Translator) tailCallDropKeep(paramCells uint32) opcode.DropKeep {
	fn := t.frames.at(uint32(t.frames.len() - 1))
	drop := t.stack.Height() - fn.originHeight - paramCells
	return opcode.DropKeep{Drop: drop, Keep: paramCells}
}

// visitReturnCall, visitReturnCallIndirect lower tail calls. The source
// emits `ReturnCall* ; Return(drop_keep)` as two words; the trailing
// Return is never dispatched on its own (control leaves through the tail
// call itself), but the interpreter reads the tail call's drop_keep from
// it, so a tail-call site is one word longer than its non-tail counterpart.
func (t *Translator) visitReturnCall(funcIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Call)
	paramCells, _ := t.resolver.FuncArity(funcIdx)
	dk := t.tailCallDropKeep(paramCells)
	if t.resolver.IsInternalFunc(funcIdx) {
		t.emit(opcode.Instruction{Op: opcode.ReturnCallInternal, Index: t.resolver.CompiledFuncIndex(funcIdx)})
	} else {
		t.emit(opcode.Instruction{Op: opcode.ReturnCall, Index: funcIdx})
	}
	t.emit(opcode.Instruction{Op: opcode.Return, DropKeep: dk})
	t.reachable = false
	return nil
}

func (t *Translator) visitReturnCallIndirect(typeIdx, tableIdx uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Call)
	t.stack.pop1() // table index operand
	paramCells, _ := t.resolver.SignatureArity(typeIdx)
	dk := t.tailCallDropKeep(paramCells)
	t.emit(opcode.Instruction{Op: opcode.ReturnCallIndirect, Index: typeIdx})
	t.emit(opcode.Instruction{Op: opcode.TableGet, Index: tableIdx})
	t.emit(opcode.Instruction{Op: opcode.Return, DropKeep: dk})
	t.reachable = false
	return nil
}
