// Package ir defines the operator stream the function translator consumes.
// It stands in for the WebAssembly parser/validator, which is an external
// collaborator out of scope for this module (see the PURPOSE & SCOPE
// section): something upstream walks a function body and calls
// Translator.Visit once per Operator, already validated and already typed.
// This package only specifies the shape of that stream.
package ir

import "github.com/rwasmio/rwasm/value"

// Op identifies one WebAssembly source operator. Unlike opcode.Opcode this
// enumeration has no wire-format obligations — it exists purely as the
// translator's input vocabulary — so it is ordered for readability rather
// than for byte-compatibility.
type Op int

const (
	OpUnreachable Op = iota
	OpNop

	OpBlock
	OpLoop
	OpIf
	OpElse
	OpEnd

	OpBr
	OpBrIf
	OpBrTable
	OpReturn

	OpCall
	OpCallIndirect
	OpReturnCall
	OpReturnCallIndirect

	OpDrop
	OpSelect

	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpGlobalGet
	OpGlobalSet

	OpI32Load
	OpI64Load
	OpF32Load
	OpF64Load
	OpI32Load8S
	OpI32Load8U
	OpI32Load16S
	OpI32Load16U
	OpI64Load8S
	OpI64Load8U
	OpI64Load16S
	OpI64Load16U
	OpI64Load32S
	OpI64Load32U
	OpI32Store
	OpI64Store
	OpF32Store
	OpF64Store
	OpI32Store8
	OpI32Store16
	OpI64Store8
	OpI64Store16
	OpI64Store32

	OpMemorySize
	OpMemoryGrow
	OpMemoryFill
	OpMemoryCopy
	OpMemoryInit
	OpDataDrop

	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpTableCopy
	OpTableInit
	OpElemDrop
	OpRefFunc
	OpRefNull
	OpRefIsNull

	OpI32Const
	OpI64Const
	OpF32Const
	OpF64Const

	// OpNumeric covers every pure arithmetic/comparison/conversion operator
	// (i32.add, i64.div_s, f64.sqrt, i32.trunc_f64_s, ...). The translator
	// dispatches on the Numeric field rather than enumerating ~180 more Op
	// constants that would otherwise just shadow opcode.Opcode one-for-one.
	OpNumeric

	// OpUnsupportedExtension tags an operator belonging to a proposal this
	// translator does not implement (SIMD, threads/atomics, exception
	// handling, GC, the component model). The translator rejects it with
	// ErrNotSupportedExtension rather than attempting a lowering.
	OpUnsupportedExtension
)

// BlockType describes a structured block's function type: either one of
// the empty/single-value shorthands or a type-section index. The
// translator only needs arity (param/result counts) to compute drop-keep
// adjustments, so that is all BlockType exposes.
type BlockType struct {
	// TypeIndex, when >= 0, names an explicit function type in the type
	// section; ParamCount/ResultCount are then looked up from it by the
	// caller before constructing the Operator (this package has no type
	// section to consult).
	TypeIndex int64

	ParamCount  uint32
	ResultCount uint32
}

// MemArg is the alignment/offset pair WebAssembly load/store instructions
// carry. The translator only uses Offset (folded into opcode.AddressOffset
// immediates); Align is retained for completeness since validators check it.
type MemArg struct {
	Offset uint32
	Align  uint32
}

// Operator is one entry in the source instruction stream. Exactly one of
// the trailing fields is meaningful, selected by Kind.
type Operator struct {
	Kind Op

	// Numeric names the specific arithmetic/comparison/conversion operator
	// when Kind == OpNumeric, mirroring opcode.Opcode's naming 1:1 (e.g.
	// opcode.I32Add) since rwasm opcodes and Wasm numeric operators are in
	// bijection — the translator for these is a near-identity copy.
	Numeric uint16

	Block BlockType
	Mem   MemArg

	LocalIndex  uint32
	GlobalIndex uint32
	FuncIndex   uint32
	TypeIndex   uint32
	TableIndex  uint32
	DataIndex   uint32
	ElemIndex   uint32

	BrTargets     []uint32 // relative depths, OpBrTable
	BrTableDefault uint32

	Const value.Value
}
