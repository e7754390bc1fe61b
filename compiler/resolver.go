package compiler

// Resolver supplies the module-level facts the translator needs but does
// not itself own: function/type signatures, which functions are internal
// vs. imported, whether a global is 64-bit, and the static upper bounds
// memory/table growth and init operations are checked against. This is the
// seam onto the module-level loader (types/imports/exports/globals), an
// external collaborator out of scope for this package — Translator takes
// one as a constructor argument rather than parsing a module itself.
type Resolver interface {
	// FuncArity returns the cell counts of funcIndex's parameter and result
	// lists (i64 params/results count as two cells each).
	FuncArity(funcIndex uint32) (paramCells, resultCells uint32)

	// IsInternalFunc reports whether funcIndex names a function defined in
	// this module (lowered to CallInternal) as opposed to an import
	// (lowered to Call, routed through the syscall handler).
	IsInternalFunc(funcIndex uint32) bool

	// CompiledFuncIndex maps a module-internal function index to its
	// position in the linked module's code section. Only valid when
	// IsInternalFunc(funcIndex) is true.
	CompiledFuncIndex(funcIndex uint32) uint32

	// SignatureArity returns the cell counts of a function-type's
	// parameter and result lists, looked up by type index (used for
	// call_indirect's SignatureCheck; block types carry their own counts in
	// ir.BlockType).
	SignatureArity(typeIndex uint32) (paramCells, resultCells uint32)

	// GlobalIs64 reports whether globalIndex is a 64-bit global, occupying
	// both halves of its (2i, 2i+1) slot pair; the translator handles it
	// as a two-cell i64 value.
	GlobalIs64(globalIndex uint32) bool

	// MemoryMaxPages returns the static upper bound memory.grow is checked
	// against, in 64 KiB pages.
	MemoryMaxPages() uint32

	// TableMaxSize returns tableIndex's static upper bound for table.grow.
	TableMaxSize(tableIndex uint32) uint32

	// DataSegmentLength/ElemSegmentLength return a segment's static byte
	// (resp. element) count, the upper bound memory.init/table.init are
	// checked against.
	DataSegmentLength(dataIndex uint32) uint32
	ElemSegmentLength(elemIndex uint32) uint32
}
