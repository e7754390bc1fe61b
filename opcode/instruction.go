package opcode

import "github.com/rwasmio/rwasm/value"

// DropKeep describes the stack adjustment a branch or return performs
// before jumping: keep the top Keep cells' worth of results, and discard
// the Drop cells beneath them. Both counts are measured in stack cells,
// not operands — an i64 value occupies two cells, every other value one.
type DropKeep struct {
	Drop uint32
	Keep uint32
}

// BranchTableTarget is one (drop_keep, branch_offset) arm of a BrTable
// instruction, laid out as a fixed two-word pair so the interpreter can
// index directly into the arm array in O(1) rather than scanning.
type BranchTableTarget struct {
	DropKeep     DropKeep
	BranchOffset int32
}

// Instruction pairs an Opcode with whichever immediate its Kind calls for.
// Only the field matching Op.Kind() is meaningful; the others are zero.
// This mirrors the union-style instruction representation used by
// bytecode interpreters that parse a flat opcode stream rather than a tree
// of typed nodes — a single field set keeps the hot dispatch loop free of
// per-kind allocations or interface dispatch.
type Instruction struct {
	Op Opcode

	// Index carries: LocalDepth, FuncIdx, SignatureIdx, GlobalIdx,
	// DataSegmentIdx, TableIdx, ElementSegmentIdx, CompiledFunc,
	// AddressOffset, BlockFuel, and StackAlloc's max_stack_height.
	Index uint32

	// BranchOffset carries Br/BrIfEqz/BrIfNez/BrAdjust/BrAdjustIfNez's
	// relative jump distance in instruction-stream positions.
	BranchOffset int32

	// DropKeep carries Return/ReturnIfNez's stack adjustment.
	DropKeep DropKeep

	// BranchTable carries BrTable's full arm list.
	BranchTable []BranchTableTarget

	// Const carries I32Const/I64Const/F32Const/F64Const's raw bit pattern.
	Const value.Value
}

func (i Instruction) String() string {
	return opcodeNames[i.Op]
}
