// Package opcode defines the rWASM instruction set: the flat, byte-addressed
// opcode enumeration, the Instruction value that pairs an opcode with its
// immediate operand, and the binary Codec that (de)serializes a stream of
// Instructions to and from bytes.
package opcode

// Opcode identifies one rWASM instruction. Values and their ordering mirror
// the legacy binary format table exactly: byte values are part of the wire
// contract, not an implementation detail, so this enumeration must never be
// reordered or have gaps filled with renumbered entries.
type Opcode byte

const (
	Unreachable Opcode = 0x00

	LocalGet Opcode = 0x01
	LocalSet Opcode = 0x02
	LocalTee Opcode = 0x03

	Br             Opcode = 0x04
	BrIfEqz        Opcode = 0x05
	BrIfNez        Opcode = 0x06
	BrAdjust       Opcode = 0x07
	BrAdjustIfNez  Opcode = 0x08
	BrTable        Opcode = 0x09
	ConsumeFuel    Opcode = 0x0a
	Return         Opcode = 0x0b
	ReturnIfNez    Opcode = 0x0c
	ReturnCallInternal Opcode = 0x0d
	ReturnCall         Opcode = 0x0e
	ReturnCallIndirect Opcode = 0x0f
	CallInternal       Opcode = 0x10
	Call               Opcode = 0x11
	CallIndirect       Opcode = 0x12
	SignatureCheck     Opcode = 0x13
	Drop               Opcode = 0x14
	Select             Opcode = 0x15

	GlobalGet Opcode = 0x16
	GlobalSet Opcode = 0x17

	I32Load    Opcode = 0x18
	I64Load    Opcode = 0x19
	F32Load    Opcode = 0x1a
	F64Load    Opcode = 0x1b
	I32Load8S  Opcode = 0x1c
	I32Load8U  Opcode = 0x1d
	I32Load16S Opcode = 0x1e
	I32Load16U Opcode = 0x1f
	I64Load8S  Opcode = 0x20
	I64Load8U  Opcode = 0x21
	I64Load16S Opcode = 0x22
	I64Load16U Opcode = 0x23
	I64Load32S Opcode = 0x24
	I64Load32U Opcode = 0x25
	I32Store   Opcode = 0x26
	I64Store   Opcode = 0x27
	F32Store   Opcode = 0x28
	F64Store   Opcode = 0x29
	I32Store8  Opcode = 0x2a
	I32Store16 Opcode = 0x2b
	I64Store8  Opcode = 0x2c
	I64Store16 Opcode = 0x2d
	I64Store32 Opcode = 0x2e

	MemorySize Opcode = 0x2f
	MemoryGrow Opcode = 0x30
	MemoryFill Opcode = 0x31
	MemoryCopy Opcode = 0x32
	MemoryInit Opcode = 0x33
	DataDrop   Opcode = 0x34
	TableSize  Opcode = 0x35
	TableGrow  Opcode = 0x36
	TableFill  Opcode = 0x37
	TableGet   Opcode = 0x38
	TableSet   Opcode = 0x39
	TableCopy  Opcode = 0x3a
	TableInit  Opcode = 0x3b
	ElemDrop   Opcode = 0x3c
	RefFunc    Opcode = 0x3d

	I32Const Opcode = 0x3e
	I64Const Opcode = 0x3f
	F32Const Opcode = 0x40
	F64Const Opcode = 0x41

	I32Eqz Opcode = 0x42
	I32Eq  Opcode = 0x43
	I32Ne  Opcode = 0x44
	I32LtS Opcode = 0x45
	I32LtU Opcode = 0x46
	I32GtS Opcode = 0x47
	I32GtU Opcode = 0x48
	I32LeS Opcode = 0x49
	I32LeU Opcode = 0x4a
	I32GeS Opcode = 0x4b
	I32GeU Opcode = 0x4c

	I64Eqz Opcode = 0x4d
	I64Eq  Opcode = 0x4e
	I64Ne  Opcode = 0x4f
	I64LtS Opcode = 0x50
	I64LtU Opcode = 0x51
	I64GtS Opcode = 0x52
	I64GtU Opcode = 0x53
	I64LeS Opcode = 0x54
	I64LeU Opcode = 0x55
	I64GeS Opcode = 0x56
	I64GeU Opcode = 0x57

	F32Eq Opcode = 0x58
	F32Ne Opcode = 0x59
	F32Lt Opcode = 0x5a
	F32Gt Opcode = 0x5b
	F32Le Opcode = 0x5c
	F32Ge Opcode = 0x5d
	F64Eq Opcode = 0x5e
	F64Ne Opcode = 0x5f
	F64Lt Opcode = 0x60
	F64Gt Opcode = 0x61
	F64Le Opcode = 0x62
	F64Ge Opcode = 0x63

	I32Clz    Opcode = 0x64
	I32Ctz    Opcode = 0x65
	I32Popcnt Opcode = 0x66
	I32Add    Opcode = 0x67
	I32Sub    Opcode = 0x68
	I32Mul    Opcode = 0x69
	I32DivS   Opcode = 0x6a
	I32DivU   Opcode = 0x6b
	I32RemS   Opcode = 0x6c
	I32RemU   Opcode = 0x6d
	I32And    Opcode = 0x6e
	I32Or     Opcode = 0x6f
	I32Xor    Opcode = 0x70
	I32Shl    Opcode = 0x71
	I32ShrS   Opcode = 0x72
	I32ShrU   Opcode = 0x73
	I32Rotl   Opcode = 0x74
	I32Rotr   Opcode = 0x75

	I64Clz    Opcode = 0x76
	I64Ctz    Opcode = 0x77
	I64Popcnt Opcode = 0x78
	I64Add    Opcode = 0x79
	I64Sub    Opcode = 0x7a
	I64Mul    Opcode = 0x7b
	I64DivS   Opcode = 0x7c
	I64DivU   Opcode = 0x7d
	I64RemS   Opcode = 0x7e
	I64RemU   Opcode = 0x7f
	I64And    Opcode = 0x80
	I64Or     Opcode = 0x81
	I64Xor    Opcode = 0x82
	I64Shl    Opcode = 0x83
	I64ShrS   Opcode = 0x84
	I64ShrU   Opcode = 0x85
	I64Rotl   Opcode = 0x86
	I64Rotr   Opcode = 0x87

	F32Abs      Opcode = 0x88
	F32Neg      Opcode = 0x89
	F32Ceil     Opcode = 0x8a
	F32Floor    Opcode = 0x8b
	F32Trunc    Opcode = 0x8c
	F32Nearest  Opcode = 0x8d
	F32Sqrt     Opcode = 0x8e
	F32Add      Opcode = 0x8f
	F32Sub      Opcode = 0x90
	F32Mul      Opcode = 0x91
	F32Div      Opcode = 0x92
	F32Min      Opcode = 0x93
	F32Max      Opcode = 0x94
	F32Copysign Opcode = 0x95

	F64Abs      Opcode = 0x96
	F64Neg      Opcode = 0x97
	F64Ceil     Opcode = 0x98
	F64Floor    Opcode = 0x99
	F64Trunc    Opcode = 0x9a
	F64Nearest  Opcode = 0x9b
	F64Sqrt     Opcode = 0x9c
	F64Add      Opcode = 0x9d
	F64Sub      Opcode = 0x9e
	F64Mul      Opcode = 0x9f
	F64Div      Opcode = 0xa0
	F64Min      Opcode = 0xa1
	F64Max      Opcode = 0xa2
	F64Copysign Opcode = 0xa3

	I32WrapI64   Opcode = 0xa4
	I32TruncF32S Opcode = 0xa5
	I32TruncF32U Opcode = 0xa6
	I32TruncF64S Opcode = 0xa7
	I32TruncF64U Opcode = 0xa8
	I64ExtendI32S Opcode = 0xa9
	I64ExtendI32U Opcode = 0xaa
	I64TruncF32S  Opcode = 0xab
	I64TruncF32U  Opcode = 0xac
	I64TruncF64S  Opcode = 0xad
	I64TruncF64U  Opcode = 0xae

	F32ConvertI32S Opcode = 0xaf
	F32ConvertI32U Opcode = 0xb0
	F32ConvertI64S Opcode = 0xb1
	F32ConvertI64U Opcode = 0xb2
	F32DemoteF64   Opcode = 0xb3
	F64ConvertI32S Opcode = 0xb4
	F64ConvertI32U Opcode = 0xb5
	F64ConvertI64S Opcode = 0xb6
	F64ConvertI64U Opcode = 0xb7
	F64PromoteF32  Opcode = 0xb8

	I32Extend8S  Opcode = 0xb9
	I32Extend16S Opcode = 0xba
	I64Extend8S  Opcode = 0xbb
	I64Extend16S Opcode = 0xbc
	I64Extend32S Opcode = 0xbd

	I32TruncSatF32S Opcode = 0xbe
	I32TruncSatF32U Opcode = 0xbf
	I32TruncSatF64S Opcode = 0xc0
	I32TruncSatF64U Opcode = 0xc1
	I64TruncSatF32S Opcode = 0xc2
	I64TruncSatF32U Opcode = 0xc3
	I64TruncSatF64S Opcode = 0xc4
	I64TruncSatF64U Opcode = 0xc5

	StackAlloc Opcode = 0xc6
)

// Kind classifies an Opcode by the shape of immediate it carries, so the
// Codec and the interpreter's dispatcher can decide how to decode/execute it
// without a giant opcode-by-opcode switch repeated in three places.
type Kind int

const (
	KindNoImmediate Kind = iota
	KindLocalDepth       // LocalGet/Set/Tee
	KindBranchOffset     // Br/BrIfEqz/BrIfNez/BrAdjust/BrAdjustIfNez
	KindBranchTable      // BrTable
	KindBlockFuel        // ConsumeFuel
	KindDropKeep         // Return/ReturnIfNez
	KindCompiledFunc     // CallInternal/ReturnCallInternal
	KindFuncIdx          // Call/ReturnCall/RefFunc
	KindSignatureIdx     // CallIndirect/ReturnCallIndirect/SignatureCheck
	KindGlobalIdx        // GlobalGet/GlobalSet
	KindAddressOffset    // the load/store family
	KindDataSegmentIdx   // MemoryInit/DataDrop
	KindTableIdx         // TableSize/Grow/Fill/Get/Set/Copy
	KindElementSegmentIdx // TableInit/ElemDrop
	KindConst            // I32Const/I64Const/F32Const/F64Const
	KindStackAlloc       // StackAlloc
)

// Kind returns the immediate shape associated with op. Panics on an
// opcode value outside the defined table, which indicates a codec or
// translator bug rather than a recoverable runtime condition.
func (op Opcode) Kind() Kind {
	switch op {
	case Unreachable, Drop, Select, MemorySize, MemoryGrow, MemoryFill, MemoryCopy,
		I32Eqz, I32Eq, I32Ne, I32LtS, I32LtU, I32GtS, I32GtU, I32LeS, I32LeU, I32GeS, I32GeU,
		I64Eqz, I64Eq, I64Ne, I64LtS, I64LtU, I64GtS, I64GtU, I64LeS, I64LeU, I64GeS, I64GeU,
		F32Eq, F32Ne, F32Lt, F32Gt, F32Le, F32Ge, F64Eq, F64Ne, F64Lt, F64Gt, F64Le, F64Ge,
		I32Clz, I32Ctz, I32Popcnt, I32Add, I32Sub, I32Mul, I32DivS, I32DivU, I32RemS, I32RemU,
		I32And, I32Or, I32Xor, I32Shl, I32ShrS, I32ShrU, I32Rotl, I32Rotr,
		I64Clz, I64Ctz, I64Popcnt, I64Add, I64Sub, I64Mul, I64DivS, I64DivU, I64RemS, I64RemU,
		I64And, I64Or, I64Xor, I64Shl, I64ShrS, I64ShrU, I64Rotl, I64Rotr,
		F32Abs, F32Neg, F32Ceil, F32Floor, F32Trunc, F32Nearest, F32Sqrt,
		F32Add, F32Sub, F32Mul, F32Div, F32Min, F32Max, F32Copysign,
		F64Abs, F64Neg, F64Ceil, F64Floor, F64Trunc, F64Nearest, F64Sqrt,
		F64Add, F64Sub, F64Mul, F64Div, F64Min, F64Max, F64Copysign,
		I32WrapI64, I32TruncF32S, I32TruncF32U, I32TruncF64S, I32TruncF64U,
		I64ExtendI32S, I64ExtendI32U, I64TruncF32S, I64TruncF32U, I64TruncF64S, I64TruncF64U,
		F32ConvertI32S, F32ConvertI32U, F32ConvertI64S, F32ConvertI64U, F32DemoteF64,
		F64ConvertI32S, F64ConvertI32U, F64ConvertI64S, F64ConvertI64U, F64PromoteF32,
		I32Extend8S, I32Extend16S, I64Extend8S, I64Extend16S, I64Extend32S,
		I32TruncSatF32S, I32TruncSatF32U, I32TruncSatF64S, I32TruncSatF64U,
		I64TruncSatF32S, I64TruncSatF32U, I64TruncSatF64S, I64TruncSatF64U:
		return KindNoImmediate
	case LocalGet, LocalSet, LocalTee:
		return KindLocalDepth
	case Br, BrIfEqz, BrIfNez, BrAdjust, BrAdjustIfNez:
		return KindBranchOffset
	case BrTable:
		return KindBranchTable
	case ConsumeFuel:
		return KindBlockFuel
	case Return, ReturnIfNez:
		return KindDropKeep
	case CallInternal, ReturnCallInternal:
		return KindCompiledFunc
	case Call, ReturnCall, RefFunc:
		return KindFuncIdx
	case CallIndirect, ReturnCallIndirect, SignatureCheck:
		return KindSignatureIdx
	case GlobalGet, GlobalSet:
		return KindGlobalIdx
	case I32Load, I64Load, F32Load, F64Load, I32Load8S, I32Load8U, I32Load16S, I32Load16U,
		I64Load8S, I64Load8U, I64Load16S, I64Load16U, I64Load32S, I64Load32U,
		I32Store, I64Store, F32Store, F64Store, I32Store8, I32Store16, I64Store8, I64Store16, I64Store32:
		return KindAddressOffset
	case MemoryInit, DataDrop:
		return KindDataSegmentIdx
	case TableSize, TableGrow, TableFill, TableGet, TableSet, TableCopy:
		return KindTableIdx
	case TableInit, ElemDrop:
		return KindElementSegmentIdx
	case I32Const, I64Const, F32Const, F64Const:
		return KindConst
	case StackAlloc:
		return KindStackAlloc
	default:
		panic("opcode: unknown opcode in Kind()")
	}
}
