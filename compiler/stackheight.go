package compiler

// valType is the translator's shadow type for one WebAssembly operand.
// Only the i64-vs-everything-else distinction matters for cell counting,
// but the full set is kept so local-depth expansion and select/drop can
// tell operand kinds apart when needed.
type valType int

const (
	typeI32 valType = iota
	typeI64
	typeF32
	typeF64
	typeFuncRef
)

func (t valType) cells() uint32 {
	if t == typeI64 {
		return 2
	}
	return 1
}

// stackHeightTracker is the translator's shadow operand stack: it tracks
// cell height (i64 costs two cells, everything else one) and, in parallel,
// the WebAssembly type of each logical operand so drop/select/local-depth
// math knows whether the operand under its fingers is one cell or two.
// Grounded on `stack_height`/`stack_types` fields threaded through every
// visit_* method in the translator.
type stackHeightTracker struct {
	types  []valType
	height uint32
	max    uint32
}

func (s *stackHeightTracker) push(t valType) {
	s.types = append(s.types, t)
	s.height += t.cells()
	if s.height > s.max {
		s.max = s.height
	}
}

// pushN bumps height without recording any type entries. Used only for
// locals (Begin): they occupy stack cells but are never addressed through
// pop()/drop/select, so there is nothing for the shadow type stack to
// track for them.
func (s *stackHeightTracker) pushN(n uint32) { s.height += n }

// pushCells records n one-cell placeholder operands. Used where a result
// is known only by cell count (block/if/loop merge results, call/
// call_indirect results) rather than by concrete WebAssembly type: it
// keeps the type stack's length in sync with height so later pop()-based
// code (drop, select, local-depth arithmetic) still sees one entry per
// cell. The simplification this accepts: a two-cell i64 result surfaces
// as two one-cell entries rather than one two-cell entry, so a bare
// `drop` immediately following emits one native Drop per cell rather than
// being able to special-case i64 into a single logical pop.
func (s *stackHeightTracker) pushCells(n uint32) {
	for i := uint32(0); i < n; i++ {
		s.push(typeI32)
	}
}

// pop removes and returns the topmost operand's type.
func (s *stackHeightTracker) pop() valType {
	n := len(s.types) - 1
	t := s.types[n]
	s.types = s.types[:n]
	s.height -= t.cells()
	return t
}

func (s *stackHeightTracker) pop1() { s.pop() }
func (s *stackHeightTracker) pop2() { s.pop(); s.pop() }
func (s *stackHeightTracker) pop3() { s.pop(); s.pop(); s.pop() }

// shrinkTo truncates the shadow stack down to the given cell height,
// popping types until the target is reached. Used by visit_else/visit_end
// to reset the stack to a frame's origin height before pushing its result
// or re-pushing its params.
func (s *stackHeightTracker) shrinkTo(target uint32) {
	for s.height > target {
		s.pop()
	}
}

// Height reports the current shadow-stack height in cells.
func (s *stackHeightTracker) Height() uint32 { return s.height }

// MaxHeight reports the high-water mark, used to patch the function's
// StackAlloc immediate at finish().
func (s *stackHeightTracker) MaxHeight() uint32 { return s.max }
