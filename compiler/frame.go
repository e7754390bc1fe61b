package compiler

import "github.com/rwasmio/rwasm/ir"

// frameKind distinguishes the four shapes a control frame can take. An
// Unreachable frame is pushed in place of a block, loop or if that is
// entered while the code is already unreachable (after
// unreachable/br/br_table/return), so that the operators up to its
// matching end are parsed but skipped rather than rejected.
type frameKind int

const (
	frameBlock frameKind = iota
	frameLoop
	frameIf
	frameUnreachable
)

// controlFrame is one entry of the translator's control-frame stack,
// grounded on BlockControlFrame/LoopControlFrame/IfControlFrame/
// UnreachableControlFrame in the translator source: each records its block
// type, the operand-stack height (in cells) on entry, and the label(s) a
// branch targeting this frame resolves to.
type controlFrame struct {
	kind      frameKind
	block     ir.BlockType
	loopKind  frameKind // not set or read; visitElse/visitEnd handle every Unreachable frame alike

	// consumeFuelPos is the instruction position of the ConsumeFuel
	// placeholder this frame's body charges bumpFuel into. A plain block
	// inherits its enclosing frame's placeholder unchanged, since a block
	// runs unconditionally exactly once per entry of that enclosing frame
	// and needs no fuel re-check of its own; a loop gets a fresh one at its
	// header so every back-edge re-checks the limit, and an if/else pair
	// gets one per arm since only one of them ever executes.
	consumeFuelPos uint32

	// originHeight is the operand-stack height, in cells, this frame was
	// entered at (after popping the branch condition for `if`, before
	// pushing the block's own params back for validation-stack bookkeeping
	// purposes — this translator doesn't validate, so it only needs this
	// for drop-keep math).
	originHeight uint32

	endLabel  label
	elseLabel label // frameIf only

	// endOfThenReachable records, for an If frame, whether control fell
	// through the then-arm to its end (set by visitElse; visitEnd counts
	// the merged end-of-if point as reachable when it is true).
	endOfThenReachable bool

	// targetedByBranch is set once some br/br_if/br_table resolved to this
	// frame. Its end label is reachable at `end` either by straight-line
	// fallthrough or because some branch jumps there, even if fallthrough
	// itself died (e.g. the block ends in an unconditional br).
	targetedByBranch bool
}

// paramCells and resultCells return the frame's block type's cell counts, used
// for drop-keep (a loop's branch target needs its *params* back on top,
// since branching to a loop re-enters its start; a block/if's branch
// target needs its *results*).
func (f *controlFrame) paramCells() uint32  { return f.block.ParamCount }
func (f *controlFrame) resultCells() uint32 { return f.block.ResultCount }

// keepCells returns how many cells a branch to this frame must preserve:
// loop branches re-enter at the top so they keep the loop's params; every
// other branch exits the frame so it keeps the frame's results.
func (f *controlFrame) keepCells() uint32 {
	if f.kind == frameLoop {
		return f.paramCells()
	}
	return f.resultCells()
}

// branchLabel returns the label a branch targeting this frame jumps to: a
// loop's own start label (branches re-loop), or the frame's end label for
// anything else (branches exit it). A loop frame's endLabel field actually
// holds its header label (see visitLoop), so both cases read the same
// field.
func (f *controlFrame) branchLabel() label {
	return f.endLabel
}

type controlFrameStack struct {
	frames []controlFrame
}

func (s *controlFrameStack) push(f controlFrame) { s.frames = append(s.frames, f) }

func (s *controlFrameStack) pop() controlFrame {
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames = s.frames[:n]
	return f
}

func (s *controlFrameStack) top() *controlFrame { return &s.frames[len(s.frames)-1] }

func (s *controlFrameStack) len() int { return len(s.frames) }

// at returns the frame at relative depth d from the top (0 = innermost),
// matching WebAssembly's br/br_if/br_table relative-depth addressing.
func (s *controlFrameStack) at(d uint32) *controlFrame {
	return &s.frames[len(s.frames)-1-int(d)]
}
