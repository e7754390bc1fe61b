package compiler

import "github.com/rwasmio/rwasm/opcode"

// acquiredTarget is the result of resolving a relative branch depth to
// either an in-function jump target or the function's own return, mirroring
// AcquiredTarget in the translator source.
type acquiredTarget struct {
	isReturn bool
	dropKeep opcode.DropKeep
	lbl      label
}

// acquireTarget resolves relative depth d (0 = innermost enclosing frame)
// to its branch target and the drop_keep a branch there must apply. A
// branch to the outermost function-body frame (index 0) is, per the
// WebAssembly spec, equivalent to returning from the function.
func (t *Translator) acquireTarget(d uint32) acquiredTarget {
	frame := t.frames.at(d)
	keep := frame.keepCells()
	drop := t.stack.Height() - frame.originHeight - keep
	dk := opcode.DropKeep{Drop: drop, Keep: keep}

	frameIndex := t.frames.len() - 1 - int(d)
	if frameIndex == 0 {
		return acquiredTarget{isReturn: true, dropKeep: dk}
	}
	frame.targetedByBranch = true
	return acquiredTarget{dropKeep: dk, lbl: frame.branchLabel()}
}

// dropKeepForReturn computes the drop_keep an explicit `return` (not a
// branch) applies: keep the function's result cells, drop everything
// beneath them down to the function frame's origin height.
func (t *Translator) dropKeepForReturn() opcode.DropKeep {
	fn := t.frames.at(uint32(t.frames.len() - 1))
	keep := fn.resultCells()
	drop := t.stack.Height() - fn.originHeight - keep
	return opcode.DropKeep{Drop: drop, Keep: keep}
}

func isNoopDropKeep(dk opcode.DropKeep) bool { return dk.Drop == 0 }
