package compiler

import (
	"github.com/rwasmio/rwasm/ir"
	"github.com/rwasmio/rwasm/opcode"
)

// frameStackHeight computes a new frame's origin height: the current
// expression-stack height minus the block type's parameter cells, since
// those params were already pushed as real operands by the code preceding
// the block.
func (t *Translator) frameStackHeight(bt ir.BlockType) uint32 {
	return t.stack.Height() - bt.ParamCount
}

func (t *Translator) visitBlock(bt ir.BlockType) error {
	if !t.isReachable() {
		t.frames.push(controlFrame{kind: frameUnreachable, block: bt})
		return nil
	}
	// A block runs unconditionally exactly once per entry of its enclosing
	// frame, so it inherits that frame's ConsumeFuel placeholder rather
	// than allocating its own.
	consumeFuelPos := t.frames.top().consumeFuelPos
	end := t.labels.newLabel()
	t.frames.push(controlFrame{
		kind:           frameBlock,
		block:          bt,
		originHeight:   t.frameStackHeight(bt),
		endLabel:       end,
		consumeFuelPos: consumeFuelPos,
	})
	return nil
}

func (t *Translator) visitLoop(bt ir.BlockType) error {
	if !t.isReachable() {
		t.frames.push(controlFrame{kind: frameUnreachable, block: bt})
		return nil
	}
	header := t.labels.newLabel()
	t.labels.pin(header, t.currentPC())
	// Every loop iteration re-enters here, so the loop gets its own
	// ConsumeFuel placeholder at the header: a back-edge re-executes it,
	// re-checking the fuel limit on every iteration instead of only once
	// at function entry.
	consumeFuelPos := t.emit(opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0})
	t.frames.push(controlFrame{
		kind:           frameLoop,
		block:          bt,
		originHeight:   t.frameStackHeight(bt),
		endLabel:       header, // a loop's "branch label" is its header, reused from endLabel per controlFrame.branchLabel
		consumeFuelPos: consumeFuelPos,
	})
	return nil
}

func (t *Translator) visitIf(bt ir.BlockType) error {
	if !t.isReachable() {
		t.frames.push(controlFrame{kind: frameUnreachable, block: bt})
		return nil
	}
	t.stack.pop1() // condition
	origin := t.frameStackHeight(bt)
	elseLabel := t.labels.newLabel()
	endLabel := t.labels.newLabel()
	t.bumpFuel(t.fuel.Base)
	offset := t.branchOffset(elseLabel)
	t.emit(opcode.Instruction{Op: opcode.BrIfEqz, BranchOffset: offset})
	// The then-arm gets its own ConsumeFuel placeholder: only one of
	// then/else ever executes per entry, so charging into the enclosing
	// frame's placeholder would double-count the arm that didn't run.
	consumeFuelPos := t.emit(opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0})
	t.frames.push(controlFrame{
		kind:           frameIf,
		block:          bt,
		originHeight:   origin,
		endLabel:       endLabel,
		elseLabel:      elseLabel,
		consumeFuelPos: consumeFuelPos,
	})
	return nil
}

func (t *Translator) visitElse() error {
	top := t.frames.pop()
	if top.kind == frameUnreachable {
		t.frames.push(top) // still unreachable; else-arm is unreachable too
		return nil
	}
	reachable := t.isReachable()
	top.endOfThenReachable = reachable
	if reachable {
		t.bumpFuel(t.fuel.Base)
		offset := t.branchOffset(top.endLabel)
		t.emit(opcode.Instruction{Op: opcode.Br, BranchOffset: offset})
	}
	t.labels.pin(top.elseLabel, t.currentPC())

	// The then-arm's ConsumeFuel placeholder is dead from here on; the
	// else-arm charges into a fresh one of its own.
	top.consumeFuelPos = t.emit(opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0})

	t.stack.shrinkTo(top.originHeight)
	t.stack.pushCells(top.block.ParamCount)
	t.frames.push(top)
	t.reachable = true
	return nil
}

func (t *Translator) visitEnd() error {
	top := t.frames.top()
	ifWithoutElse := top.kind == frameIf && !t.labels.pinned[top.elseLabel]
	if top.kind == frameIf {
		t.labels.tryPin(top.elseLabel, t.currentPC())
	}
	if top.kind != frameUnreachable && top.kind != frameLoop {
		t.labels.tryPin(top.endLabel, t.currentPC())
	}

	// The merged end point is reachable if control falls through to it
	// (from the last arm, from a then-arm that fell through to its else,
	// or along an else-less if's false path), or if some br/br_if/br_table
	// targets it even though fallthrough itself died (e.g. the block's last
	// statement is an unconditional br). A branch to a loop goes to its
	// header, not its end, so it does not count. An Unreachable frame was
	// dead from the moment it was entered, so nothing can make it reachable.
	endReachable := top.kind != frameUnreachable && (t.isReachable() || ifWithoutElse || top.endOfThenReachable ||
		(top.kind != frameLoop && top.targetedByBranch))
	isOuterFrame := t.frames.len() == 1

	if isOuterFrame {
		if err := t.visitReturn(); err != nil {
			return err
		}
	} else {
		t.reachable = endReachable
	}

	frame := t.frames.pop()
	t.stack.shrinkTo(frame.originHeight)
	t.stack.pushCells(frame.block.ResultCount)
	return nil
}

// visitBr, visitBrIf, visitBrTable, visitReturn are grounded on
// visit_br/visit_br_if/visit_br_table/visit_return: acquireTarget resolves
// the relative depth to either a branch label or "this is a return",
// drop_keep is attached to BrAdjust's paired Return word (see dropkeep.go;
// the interpreter's BrAdjust/BrAdjustIfNez read their DropKeep from that
// following word).
func (t *Translator) visitBr(relativeDepth uint32) error {
	if !t.isReachable() {
		return nil
	}
	target := t.acquireTarget(relativeDepth)
	t.bumpFuel(t.fuel.Base)
	if target.isReturn {
		return t.emitReturn(target.dropKeep)
	}
	t.emitBranch(opcode.Br, opcode.BrAdjust, target.lbl, target.dropKeep)
	t.reachable = false
	return nil
}

func (t *Translator) visitBrIf(relativeDepth uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.stack.pop1() // condition
	target := t.acquireTarget(relativeDepth)
	t.bumpFuel(t.fuel.Base)
	if target.isReturn {
		t.emit(opcode.Instruction{Op: opcode.ReturnIfNez, DropKeep: target.dropKeep})
		return nil
	}
	t.emitBranch(opcode.BrIfNez, opcode.BrAdjustIfNez, target.lbl, target.dropKeep)
	return nil
}

// emitBranch appends the cheap single-word form when dropKeep is a no-op,
// or the BrAdjust*/Return two-word pair otherwise (the interpreter reads
// the branch's DropKeep from the Return word).
func (t *Translator) emitBranch(cheap, adjusted opcode.Opcode, target label, dk opcode.DropKeep) {
	if isNoopDropKeep(dk) {
		offset := t.branchOffset(target)
		t.emit(opcode.Instruction{Op: cheap, BranchOffset: offset})
		return
	}
	t.bumpFuel(t.fuel.ForDropKeep(dk.Drop + dk.Keep))
	offset := t.branchOffset(target)
	t.emit(opcode.Instruction{Op: adjusted, BranchOffset: offset})
	t.emit(opcode.Instruction{Op: opcode.Return, DropKeep: dk})
}

func (t *Translator) emitReturn(dk opcode.DropKeep) error {
	t.emit(opcode.Instruction{Op: opcode.Return, DropKeep: dk})
	t.reachable = false
	return nil
}

func (t *Translator) visitReturn() error {
	if !t.isReachable() {
		return nil
	}
	dk := t.dropKeepForReturn()
	t.bumpFuel(t.fuel.Base)
	t.bumpFuel(t.fuel.ForDropKeep(dk.Drop + dk.Keep))
	return t.emitReturn(dk)
}

func (t *Translator) visitBrTable(targets []uint32, defaultTarget uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Base)
	t.stack.pop1() // index

	type arm struct {
		isReturn bool
		dk       opcode.DropKeep
		lbl      label
	}
	arms := make([]arm, 0, len(targets)+1)
	var maxDropKeepFuel uint64
	for _, depth := range targets {
		target := t.acquireTarget(depth)
		maxDropKeepFuel = max64(maxDropKeepFuel, t.fuel.ForDropKeep(target.dropKeep.Drop+target.dropKeep.Keep))
		arms = append(arms, arm{isReturn: target.isReturn, dk: target.dropKeep, lbl: target.lbl})
	}
	defTarget := t.acquireTarget(defaultTarget)
	maxDropKeepFuel = max64(maxDropKeepFuel, t.fuel.ForDropKeep(defTarget.dropKeep.Drop+defTarget.dropKeep.Keep))
	arms = append(arms, arm{isReturn: defTarget.isReturn, dk: defTarget.dropKeep, lbl: defTarget.lbl})

	tablePos := t.emit(opcode.Instruction{Op: opcode.BrTable, Index: uint32(len(arms))})
	_ = tablePos
	armTable := make([]opcode.BranchTableTarget, len(arms))
	for i, a := range arms {
		if a.isReturn {
			armTable[i] = opcode.BranchTableTarget{DropKeep: a.dk, BranchOffset: 0}
			continue
		}
		// Offset is relative to the BrTable instruction's own position,
		// matching every other branch opcode's convention.
		off := t.labels.branchOffsetFromArm(a.lbl, tablePos, i)
		armTable[i] = opcode.BranchTableTarget{DropKeep: a.dk, BranchOffset: off}
	}
	t.instrs[tablePos].BranchTable = armTable
	t.bumpFuel(maxDropKeepFuel)
	t.reachable = false
	return nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
