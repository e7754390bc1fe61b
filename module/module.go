// Package module defines the linked module layout the interpreter runs
// against. It does not parse WebAssembly modules — gathering types,
// imports, exports, globals, and segments is the out-of-scope module-level
// loader's job (see SPEC_FULL.md §1) — it only represents the already-
// linked result: a code section, a function-entry table, the consolidated
// segment blobs, and enough type/import metadata to check calls and
// indirect-call signatures at run time.
package module

import (
	"errors"
	"fmt"

	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/segment"
	"github.com/rwasmio/rwasm/value"
)

var (
	ErrUnknownFunction = errors.New("rwasm/module: function index out of range")
	ErrUnknownType     = errors.New("rwasm/module: type index out of range")
	ErrNotInternal     = errors.New("rwasm/module: function index names an import, not a compiled function")
)

// Function is one compiled function body, exactly what
// compiler.Translator.Finish returns: its position in the code section
// (Index), the word offset of its first instruction (EntryOffset — equal
// to the sum of every earlier function's instruction count once the code
// section is concatenated), and its instruction stream.
type Function struct {
	Index       uint32
	EntryOffset uint32
	Code        []opcode.Instruction
	// LocalCells is this function's declared parameter+local cell count —
	// distinct from Code[1].Index (the StackAlloc placeholder), which
	// holds the function's high-water mark including whatever depth its
	// own expression evaluation reaches, not just its locals region. A
	// call site zero-extends to LocalCells; StackAlloc's own Index is
	// only ever used for the pre-flight overflow check against it.
	LocalCells uint32
}

// FuncType is a function signature reduced to what the interpreter and
// translator need from it: cell counts, not WebAssembly value-type lists
// (an i64 parameter or result costs two cells, everything else one —
// the same accounting compiler.ValKind.cells() uses).
type FuncType struct {
	ParamCells  uint32
	ResultCells uint32
}

// Import describes one imported function: its WebAssembly module/field
// name pair (routed to the embedder's syscall handler by name or by the
// func_idx the handler was registered under — the handler contract itself
// is out of scope here) and its type.
type Import struct {
	Module    string
	Name      string
	TypeIndex uint32
}

// GlobalType records a global's width and mutability; Is64 globals occupy
// both halves of their (2i, 2i+1) slot pair, matching the translator's
// global-index expansion.
type GlobalType struct {
	Is64    bool
	Mutable bool
}

// GlobalInit is a global's declared type plus its initializer value. For a
// 64-bit global, Value holds the full 64-bit pattern; the interpreter
// slots its low/high halves into (2i, 2i+1) itself.
type GlobalInit struct {
	Type  GlobalType
	Value value.Value
}

// MemoryLimits are a module's single linear memory's page bounds, in 64 KiB
// pages. MaxPages is the static upper bound memory.grow is checked against.
type MemoryLimits struct {
	MinPages uint32
	MaxPages uint32
}

// TableLimits are one table's element-count bounds.
type TableLimits struct {
	MinSize uint32
	MaxSize uint32
}

// Builder accumulates the module-level facts the translator needs as a
// compiler.Resolver — call targets' arity, which func indices are
// internal, global widths, and static growth/segment-length bounds — before
// any function body has been compiled. A function may call or branch to
// another function or global declared later in the module, so all of this
// must be known up front; Builder satisfies compiler.Resolver structurally
// (module does not import compiler, to avoid a cycle — compiler.New takes
// any value with the right method set).
//
// Populate every field before passing a Builder to compiler.New; Finish
// then assembles the immutable Module once every function body has been
// translated.
type Builder struct {
	Types              []FuncType
	Imports            []Import
	FuncTypeIndices    []uint32 // per WASM function index (imports first, then internal), indexes Types
	Globals            []GlobalInit
	Memory             MemoryLimits
	Tables             []TableLimits
	DataSegmentLengths []uint32
	ElemSegmentLengths []uint32
	StartFunc          *uint32
}

func (b *Builder) FuncArity(funcIndex uint32) (paramCells, resultCells uint32) {
	t := b.Types[b.FuncTypeIndices[funcIndex]]
	return t.ParamCells, t.ResultCells
}

func (b *Builder) IsInternalFunc(funcIndex uint32) bool {
	return funcIndex >= uint32(len(b.Imports))
}

// CompiledFuncIndex maps a WASM-level function index to its position in
// the eventual code section. Only meaningful when IsInternalFunc is true:
// imports never occupy a code-section slot.
func (b *Builder) CompiledFuncIndex(funcIndex uint32) uint32 {
	return funcIndex - uint32(len(b.Imports))
}

func (b *Builder) SignatureArity(typeIndex uint32) (paramCells, resultCells uint32) {
	t := b.Types[typeIndex]
	return t.ParamCells, t.ResultCells
}

func (b *Builder) GlobalIs64(globalIndex uint32) bool {
	return b.Globals[globalIndex].Type.Is64
}

func (b *Builder) MemoryMaxPages() uint32 { return b.Memory.MaxPages }

func (b *Builder) TableMaxSize(tableIndex uint32) uint32 { return b.Tables[tableIndex].MaxSize }

func (b *Builder) DataSegmentLength(dataIndex uint32) uint32 { return b.DataSegmentLengths[dataIndex] }
func (b *Builder) ElemSegmentLength(elemIndex uint32) uint32 { return b.ElemSegmentLengths[elemIndex] }

// Finish assembles the immutable, linked Module once every internal
// function has been compiled. functions must be in code-section order
// (Index 0..n-1, contiguous) and its length must match the number of
// internal functions implied by Imports/FuncTypeIndices.
func (b *Builder) Finish(functions []*Function, data segment.DataSegments, elements segment.ElementSegments) (*Module, error) {
	wantInternal := uint32(len(b.FuncTypeIndices)) - uint32(len(b.Imports))
	if uint32(len(functions)) != wantInternal {
		return nil, fmt.Errorf("rwasm/module: got %d compiled functions, want %d", len(functions), wantInternal)
	}
	for i, f := range functions {
		if f.Index != uint32(i) {
			return nil, fmt.Errorf("rwasm/module: function at position %d has Index %d, functions must be contiguous and ordered", i, f.Index)
		}
	}
	return &Module{
		Types:           append([]FuncType(nil), b.Types...),
		Imports:         append([]Import(nil), b.Imports...),
		FuncTypeIndices: append([]uint32(nil), b.FuncTypeIndices...),
		Functions:       append([]*Function(nil), functions...),
		Globals:         append([]GlobalInit(nil), b.Globals...),
		Memory:          b.Memory,
		Tables:          append([]TableLimits(nil), b.Tables...),
		Data:            data,
		Elements:        elements,
		StartFunc:       b.StartFunc,
	}, nil
}

// Module is the fully linked, read-only result the interpreter executes.
// It is immutable and safe to share by reference across many concurrently
// running VM instances (SPEC_FULL.md §5): nothing here is mutated once
// Builder.Finish returns.
type Module struct {
	Types           []FuncType
	Imports         []Import
	FuncTypeIndices []uint32
	// Functions is the code section: internal functions only, indexed by
	// CompiledFuncIndex (i.e. WASM func index minus len(Imports)).
	Functions []*Function
	Globals   []GlobalInit
	Memory    MemoryLimits
	Tables    []TableLimits
	Data      segment.DataSegments
	Elements  segment.ElementSegments
	// StartFunc, if non-nil, is the WASM-level function index of the
	// module's distinguished "source" entry point. The interpreter does
	// not read it: nothing runs it automatically before Run invokes a
	// function.
	StartFunc *uint32
}

// Function looks up an internal function by its code-section index.
func (m *Module) Function(compiledIndex uint32) (*Function, error) {
	if compiledIndex >= uint32(len(m.Functions)) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, compiledIndex)
	}
	return m.Functions[compiledIndex], nil
}

// FuncTypeOf returns funcIndex's declared signature.
func (m *Module) FuncTypeOf(funcIndex uint32) (FuncType, error) {
	if funcIndex >= uint32(len(m.FuncTypeIndices)) {
		return FuncType{}, fmt.Errorf("%w: %d", ErrUnknownFunction, funcIndex)
	}
	typeIdx := m.FuncTypeIndices[funcIndex]
	if typeIdx >= uint32(len(m.Types)) {
		return FuncType{}, fmt.Errorf("%w: %d", ErrUnknownType, typeIdx)
	}
	return m.Types[typeIdx], nil
}

// IsImport reports whether funcIndex names an imported function.
func (m *Module) IsImport(funcIndex uint32) bool {
	return funcIndex < uint32(len(m.Imports))
}

// CompiledFuncIndex maps a WASM-level function index to its code-section
// position. Returns ErrNotInternal if funcIndex names an import.
func (m *Module) CompiledFuncIndex(funcIndex uint32) (uint32, error) {
	if m.IsImport(funcIndex) {
		return 0, ErrNotInternal
	}
	return funcIndex - uint32(len(m.Imports)), nil
}
