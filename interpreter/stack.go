package interpreter

import (
	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/value"
)

// OperandStack is the single value stack shared by every nested call
// frame, mirroring wazero's callEngine.stack []uint64: a callee's locals
// begin life as the caller's already-pushed argument cells, so nothing is
// copied at call time except the zero-extension for the callee's own
// declared (non-parameter) locals. LocalGet/LocalSet/LocalTee address a
// cell by its distance from the current absolute top (stack[len-d]),
// which stays correct across arbitrarily deep nesting because the
// compiler's own height tracker always starts counting fresh from
// wherever the current function's locals began — see compiler.stackHeight
// and SPEC_FULL.md's translator section.
type OperandStack struct {
	cells []value.Value
}

func NewOperandStack(capacity uint32) *OperandStack {
	return &OperandStack{cells: make([]value.Value, 0, capacity)}
}

func (s *OperandStack) Len() uint32 { return uint32(len(s.cells)) }

func (s *OperandStack) Push(v value.Value) { s.cells = append(s.cells, v) }

func (s *OperandStack) Pop() value.Value {
	top := len(s.cells) - 1
	v := s.cells[top]
	s.cells = s.cells[:top]
	return v
}

// PushN appends n zero cells, used both for a callee's declared-local
// zero-extension and for StackAlloc's own defensive top-up.
func (s *OperandStack) PushN(n uint32) {
	for i := uint32(0); i < n; i++ {
		s.cells = append(s.cells, value.Value(0))
	}
}

// At returns the cell d cells below the current top (d==1 is the top
// itself), the addressing primitive every LocalGet/LocalSet/LocalTee
// dispatch case uses directly.
func (s *OperandStack) At(depth uint32) value.Value {
	return s.cells[uint32(len(s.cells))-depth]
}

func (s *OperandStack) SetAt(depth uint32, v value.Value) {
	s.cells[uint32(len(s.cells))-depth] = v
}

// PopI64/PushI64 implement the two-cell hi-below/lo-on-top convention
// every i64-touching opcode uses uniformly (I64Load/I64Store, the real
// emitted locals/globals traffic, and the "legacy" native I64Add family
// kept for opcode-stream symmetry per value/i64.go's own doc comment):
// an i64 never occupies fewer than 2 stack cells, unlike f32/f64 which
// are native 1-cell values with no emulation (SPEC_FULL.md §9).
func (s *OperandStack) PopI64() uint64 {
	lo := s.Pop().U32()
	hi := s.Pop().U32()
	return uint64(hi)<<32 | uint64(lo)
}

func (s *OperandStack) PushI64(v uint64) {
	s.Push(value.FromU32(uint32(v >> 32)))
	s.Push(value.FromU32(uint32(v)))
}

// DropKeep discards drop cells from just below the top keep cells,
// matching opcode.DropKeep's semantics exactly: the top `keep` cells
// slide down over the `drop` cells beneath them.
func (s *OperandStack) DropKeep(drop, keep uint32) {
	if drop == 0 {
		return
	}
	n := uint32(len(s.cells))
	src := n - keep
	dst := n - keep - drop
	copy(s.cells[dst:], s.cells[src:n])
	s.cells = s.cells[:dst+keep]
}

// Truncate shrinks the stack to exactly n cells, used by the call-frame
// pop step below.
func (s *OperandStack) Truncate(n uint32) { s.cells = s.cells[:n] }

// callFrame records what a non-tail Return's frame-pop step needs: base
// is the absolute stack length immediately before this call's argument
// cells were first pushed, and returnIP/code identify where to resume in
// the caller. base is fixed for the life of the frame — a chain of tail
// calls (ReturnCallInternal/ReturnCall/ReturnCallIndirect) reuses this
// same frame entry without updating base, so dead locals from every
// function in the chain accumulate below the current tail-callee's
// locals until the eventual real Return collapses all of it at once by
// copying that Return's result cells down to this original base.
type callFrame struct {
	code      *module.Function
	returnIP  uint32
	base      uint32
	funcIndex uint32
}

// callStack is a bounded stack of callFrame, capped at
// DefaultMaxRecursionDepth to bound recursion without growing unboundedly
// (SPEC_FULL.md §3's N_MAX_RECURSION_DEPTH).
type callStack struct {
	frames []callFrame
	limit  int
}

func newCallStack(limit int) *callStack {
	return &callStack{frames: make([]callFrame, 0, 64), limit: limit}
}

func (c *callStack) push(f callFrame) error {
	if len(c.frames) >= c.limit {
		return trap(StackOverflow)
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *callStack) pop() callFrame {
	top := len(c.frames) - 1
	f := c.frames[top]
	c.frames = c.frames[:top]
	return f
}

func (c *callStack) top() *callFrame { return &c.frames[len(c.frames)-1] }

func (c *callStack) depth() int { return len(c.frames) }

// popFrameWithResult implements the non-tail Return's second step: the
// Return{DropKeep} opcode itself already shrank the stack down to
// functionLocalCells+resultCells within the callee's own region (see
// compiler/dropkeep.go's dropKeepForReturn); this relocates those
// resultCells down to the frame's base and discards the entire locals
// region above it, including any dead bytes left by a tail-call chain.
func popFrameWithResult(s *OperandStack, base, resultCells uint32) {
	top := s.Len()
	src := top - resultCells
	copy(s.cells[base:base+resultCells], s.cells[src:top])
	s.Truncate(base + resultCells)
}
