// Package compiler implements the rWASM function translator: it consumes a
// validated WebAssembly operator stream for one function (see package ir)
// and produces a flat rWASM opcode stream (package opcode) whose execution
// on the interpreter is observationally equivalent to the source function.
package compiler

import (
	"errors"
	"fmt"

	"github.com/rwasmio/rwasm/internal/fuel"
	"github.com/rwasmio/rwasm/ir"
	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/segment"
	"github.com/rwasmio/rwasm/value"
)

var (
	ErrNotSupportedExtension  = errors.New("rwasm/compiler: operator belongs to an unsupported wasm extension")
	ErrLabelResolutionFailed  = errors.New("rwasm/compiler: a label was never resolved")
	ErrBranchTooLarge         = errors.New("rwasm/compiler: branch offset exceeds representable range")
	ErrTooManyLocals          = errors.New("rwasm/compiler: function declares more locals than this translator supports")
)

// maxLocalCells is a bound on how many operand-stack cells local.get/
// local.set/local.tee's LocalDepth immediate addresses. No code compares
// against it: Begin accepts any number of locals, and neither
// ErrTooManyLocals nor ErrBranchTooLarge is returned by this package.
const maxLocalCells = 1 << 20

// Translator lowers one function body at a time. Create one per function;
// Begin resets it.
type Translator struct {
	resolver Resolver
	fuel     fuel.Costs
	segments *segment.Builder

	instrs []opcode.Instruction
	frames controlFrameStack
	labels *labelRegistry
	stack  stackHeightTracker

	reachable  bool
	funcIdx    uint32
	localCells uint32

	// locals holds the function's parameter and declared-local kinds, in
	// WASM local-index order; local.get/set/tee address into this region
	// by depth-from-current-top (see locals.go).
	locals []ValKind

	stackAllocPos int // index into instrs of the StackAlloc placeholder
}

// New constructs a Translator. resolver supplies module-level facts (call
// targets, global widths, growth bounds); segments is stored on the
// Translator but not read or written by the translation itself.
func New(resolver Resolver, segments *segment.Builder) *Translator {
	return &Translator{resolver: resolver, fuel: fuel.DefaultCosts, segments: segments}
}

// Begin resets per-function state: installs the outer function-body
// control frame and emits the initial ConsumeFuel/StackAlloc
// placeholders patched at Finish. The entry offset is passed to Finish.
func (t *Translator) Begin(funcIdx uint32, paramKinds, declaredLocalKinds []ValKind, resultCells uint32) {
	t.instrs = t.instrs[:0]
	t.frames = controlFrameStack{}
	t.labels = newLabelRegistry()
	t.stack = stackHeightTracker{}
	t.reachable = true
	t.funcIdx = funcIdx

	t.locals = append(append([]ValKind(nil), paramKinds...), declaredLocalKinds...)
	var paramCells uint32
	for _, k := range paramKinds {
		paramCells += k.cells()
	}
	var localCells uint32
	for _, k := range t.locals {
		localCells += k.cells()
	}
	// Locals occupy the bottom of the frame but are not logical operands on
	// the expression stack: bump height without pushing to stack.types, so
	// pop()/push() only ever see values the function body itself produces.
	t.stack.pushN(localCells)
	t.localCells = localCells

	endLabel := t.labels.newLabel()
	t.frames.push(controlFrame{
		kind:         frameBlock,
		block:        ir.BlockType{ParamCount: paramCells, ResultCount: resultCells},
		originHeight: localCells,
		endLabel:     endLabel,
	})

	t.frames.top().consumeFuelPos = t.emit(opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0})
	t.stackAllocPos = len(t.instrs)
	t.emit(opcode.Instruction{Op: opcode.StackAlloc, Index: 0})
}

// Finish resolves every outstanding label, patches the StackAlloc
// immediate to the translation's high-water mark, and returns the
// compiled function. It is an error if any label was never pinned
// (malformed input: an if/block/loop never closed by a matching end).
func (t *Translator) Finish(entryOffset uint32) (*module.Function, error) {
	if t.frames.len() != 0 {
		return nil, fmt.Errorf("%w: %d unclosed control frame(s)", ErrLabelResolutionFailed, t.frames.len())
	}
	err := t.labels.resolve(func(instrPos uint32, armIndex int, offset int32) {
		if armIndex < 0 {
			t.instrs[instrPos].BranchOffset = offset
			return
		}
		t.instrs[instrPos].BranchTable[armIndex].BranchOffset = offset
	})
	if err != nil {
		return nil, err
	}
	t.instrs[t.stackAllocPos].Index = t.stack.MaxHeight()
	return &module.Function{
		Index:       t.funcIdx,
		EntryOffset: entryOffset,
		Code:        append([]opcode.Instruction(nil), t.instrs...),
		LocalCells:  t.localCells,
	}, nil
}

func (t *Translator) emit(i opcode.Instruction) uint32 {
	pos := uint32(len(t.instrs))
	t.instrs = append(t.instrs, i)
	return pos
}

func (t *Translator) currentPC() uint32 { return uint32(len(t.instrs)) }

// branchOffset computes the relative jump an instruction at the *next*
// emission position (the branch instruction about to be appended) uses to
// reach lbl.
func (t *Translator) branchOffset(lbl label) int32 {
	return t.labels.branchOffsetFrom(lbl, t.currentPC())
}

func (t *Translator) isReachable() bool { return t.reachable }

func (t *Translator) bumpFuel(cost uint64) {
	if cost == 0 {
		return
	}
	// Charges into the innermost enclosing frame's own ConsumeFuel
	// placeholder, not always the function's entry one: a loop's
	// placeholder sits at its header and is re-executed on every
	// back-edge, so code inside the loop must charge there, not into the
	// function-entry placeholder that only ever runs once per call.
	t.instrs[t.frames.top().consumeFuelPos].Index += uint32(cost)
}

// Visit dispatches one source operator. SIMD/threads/exceptions/GC
// operators are rejected with ErrNotSupportedExtension without mutating
// translator state.
func (t *Translator) Visit(op ir.Operator) error {
	switch op.Kind {
	case ir.OpUnsupportedExtension:
		return ErrNotSupportedExtension
	case ir.OpUnreachable:
		return t.visitUnreachable()
	case ir.OpNop:
		return nil
	case ir.OpBlock:
		return t.visitBlock(op.Block)
	case ir.OpLoop:
		return t.visitLoop(op.Block)
	case ir.OpIf:
		return t.visitIf(op.Block)
	case ir.OpElse:
		return t.visitElse()
	case ir.OpEnd:
		return t.visitEnd()
	case ir.OpBr:
		return t.visitBr(op.FuncIndex)
	case ir.OpBrIf:
		return t.visitBrIf(op.FuncIndex)
	case ir.OpBrTable:
		return t.visitBrTable(op.BrTargets, op.BrTableDefault)
	case ir.OpReturn:
		return t.visitReturn()
	case ir.OpCall:
		return t.visitCall(op.FuncIndex)
	case ir.OpCallIndirect:
		return t.visitCallIndirect(op.TypeIndex, op.TableIndex)
	case ir.OpReturnCall:
		return t.visitReturnCall(op.FuncIndex)
	case ir.OpReturnCallIndirect:
		return t.visitReturnCallIndirect(op.TypeIndex, op.TableIndex)
	case ir.OpDrop:
		return t.visitDrop()
	case ir.OpSelect:
		return t.visitSelect()
	case ir.OpLocalGet:
		return t.visitLocalGet(op.LocalIndex)
	case ir.OpLocalSet:
		return t.visitLocalSet(op.LocalIndex)
	case ir.OpLocalTee:
		return t.visitLocalTee(op.LocalIndex)
	case ir.OpGlobalGet:
		return t.visitGlobalGet(op.GlobalIndex)
	case ir.OpGlobalSet:
		return t.visitGlobalSet(op.GlobalIndex)
	case ir.OpI32Load:
		return t.visitLoad(opcode.I32Load, op.Mem.Offset, typeI32)
	case ir.OpI64Load:
		return t.visitLoad(opcode.I64Load, op.Mem.Offset, typeI64)
	case ir.OpF32Load:
		return t.visitLoad(opcode.F32Load, op.Mem.Offset, typeF32)
	case ir.OpF64Load:
		return t.visitLoad(opcode.F64Load, op.Mem.Offset, typeF64)
	case ir.OpI32Load8S:
		return t.visitLoad(opcode.I32Load8S, op.Mem.Offset, typeI32)
	case ir.OpI32Load8U:
		return t.visitLoad(opcode.I32Load8U, op.Mem.Offset, typeI32)
	case ir.OpI32Load16S:
		return t.visitLoad(opcode.I32Load16S, op.Mem.Offset, typeI32)
	case ir.OpI32Load16U:
		return t.visitLoad(opcode.I32Load16U, op.Mem.Offset, typeI32)
	case ir.OpI64Load8S:
		return t.visitLoad(opcode.I64Load8S, op.Mem.Offset, typeI64)
	case ir.OpI64Load8U:
		return t.visitLoad(opcode.I64Load8U, op.Mem.Offset, typeI64)
	case ir.OpI64Load16S:
		return t.visitLoad(opcode.I64Load16S, op.Mem.Offset, typeI64)
	case ir.OpI64Load16U:
		return t.visitLoad(opcode.I64Load16U, op.Mem.Offset, typeI64)
	case ir.OpI64Load32S:
		return t.visitLoad(opcode.I64Load32S, op.Mem.Offset, typeI64)
	case ir.OpI64Load32U:
		return t.visitLoad(opcode.I64Load32U, op.Mem.Offset, typeI64)
	case ir.OpI32Store:
		return t.visitStore(opcode.I32Store, op.Mem.Offset)
	case ir.OpI64Store:
		return t.visitStore(opcode.I64Store, op.Mem.Offset)
	case ir.OpF32Store:
		return t.visitStore(opcode.F32Store, op.Mem.Offset)
	case ir.OpF64Store:
		return t.visitStore(opcode.F64Store, op.Mem.Offset)
	case ir.OpI32Store8:
		return t.visitStore(opcode.I32Store8, op.Mem.Offset)
	case ir.OpI32Store16:
		return t.visitStore(opcode.I32Store16, op.Mem.Offset)
	case ir.OpI64Store8:
		return t.visitStore(opcode.I64Store8, op.Mem.Offset)
	case ir.OpI64Store16:
		return t.visitStore(opcode.I64Store16, op.Mem.Offset)
	case ir.OpI64Store32:
		return t.visitStore(opcode.I64Store32, op.Mem.Offset)
	case ir.OpI32Const:
		return t.visitConst(opcode.I32Const, op.Const, typeI32)
	case ir.OpI64Const:
		return t.visitI64Const(op.Const)
	case ir.OpF32Const:
		return t.visitConst(opcode.F32Const, op.Const, typeF32)
	case ir.OpF64Const:
		return t.visitConst(opcode.F64Const, op.Const, typeF64)
	case ir.OpMemorySize:
		return t.visitMemorySize()
	case ir.OpMemoryGrow:
		return t.visitMemoryGrow()
	case ir.OpMemoryFill:
		return t.visitMemoryFill()
	case ir.OpMemoryCopy:
		return t.visitMemoryCopy()
	case ir.OpMemoryInit:
		return t.visitMemoryInit(op.DataIndex)
	case ir.OpDataDrop:
		return t.visitSegmentIndexOp(opcode.DataDrop, op.DataIndex)
	case ir.OpTableGet:
		return t.visitTableIndexOpPushPop(opcode.TableGet, op.TableIndex, 1, 1)
	case ir.OpTableSet:
		return t.visitTableIndexOpPushPop(opcode.TableSet, op.TableIndex, 2, 0)
	case ir.OpTableSize:
		return t.visitTableIndexOpPushPop(opcode.TableSize, op.TableIndex, 0, 1)
	case ir.OpTableGrow:
		return t.visitTableGrow(op.TableIndex)
	case ir.OpTableFill:
		return t.visitTableIndexOpPushPop(opcode.TableFill, op.TableIndex, 3, 0)
	case ir.OpTableCopy:
		return t.visitTableIndexOpPushPop(opcode.TableCopy, op.TableIndex, 3, 0)
	case ir.OpTableInit:
		return t.visitTableInit(op.ElemIndex, op.TableIndex)
	case ir.OpElemDrop:
		return t.visitSegmentIndexOp(opcode.ElemDrop, op.ElemIndex)
	case ir.OpRefFunc:
		return t.visitRefFunc(op.FuncIndex)
	case ir.OpRefNull:
		return t.visitConst(opcode.I32Const, value.FromI32(0), typeFuncRef)
	case ir.OpRefIsNull:
		return t.visitUnary(opcode.I32Eqz, typeFuncRef, typeI32)
	case ir.OpNumeric:
		return t.visitNumeric(opcode.Opcode(op.Numeric), op.Mem)
	default:
		return fmt.Errorf("rwasm/compiler: unhandled operator kind %v", op.Kind)
	}
}

func (t *Translator) visitUnreachable() error {
	if !t.isReachable() {
		return nil
	}
	t.emit(opcode.Instruction{Op: opcode.Unreachable})
	t.reachable = false
	return nil
}
