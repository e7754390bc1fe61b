package compiler

import (
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

// i64scratch tracks, at translation time, the names of the cells an
// emulation routine is building on top of its fixed i64 operand region, so
// each step addresses an earlier cell by name instead of by hand-derived
// LocalDepth arithmetic. Every dup/const/op call keeps the symbolic stack
// in lockstep with what the emitted instructions do to the real one, the
// same invariant local.get/local.set rely on (see locals_visit.go) applied
// to transient values instead of declared locals.
type i64scratch struct {
	t     *Translator
	names []string // bottom-to-top
}

func newI64Scratch(t *Translator, bottomToTop ...string) *i64scratch {
	return &i64scratch{t: t, names: append([]string(nil), bottomToTop...)}
}

func (s *i64scratch) depthOf(name string) uint32 {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return uint32(len(s.names) - i)
		}
	}
	panic("rwasm/compiler: i64scratch: unknown cell " + name)
}

// dup re-reads an earlier cell by name, pushing a copy under a new name.
func (s *i64scratch) dup(name, as string) {
	s.t.emit(opcode.Instruction{Op: opcode.LocalGet, Index: s.depthOf(name)})
	s.names = append(s.names, as)
}

func (s *i64scratch) const32(v int32, as string) {
	s.t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(v)})
	s.names = append(s.names, as)
}

// op2 consumes the top two named cells (second-from-top was pushed
// first, i.e. it is the left operand) and leaves one named result.
func (s *i64scratch) op2(op opcode.Opcode, result string) {
	s.t.emit(opcode.Instruction{Op: op})
	s.names = append(s.names[:len(s.names)-2], result)
}

// op1 consumes the top named cell and replaces it in place.
func (s *i64scratch) op1(op opcode.Opcode, result string) {
	s.t.emit(opcode.Instruction{Op: op})
	s.names[len(s.names)-1] = result
}

// op3 consumes the top three named cells (select's value1, value2, cond
// order) and leaves one named result.
func (s *i64scratch) op3(op opcode.Opcode, result string) {
	s.t.emit(opcode.Instruction{Op: op})
	s.names = append(s.names[:len(s.names)-3], result)
}

// storeInto pops the current top cell and writes it into the slot of an
// earlier-named cell (LocalSet). LocalSet's depth is measured after the
// pop (see visitLocalSet), one less than dup's pre-push depth to the same
// cell. The target slot is then tracked under the popped value's name.
func (s *i64scratch) storeInto(target string) {
	depth := s.depthOf(target) - 1
	newName := s.names[len(s.names)-1]
	s.t.emit(opcode.Instruction{Op: opcode.LocalSet, Index: depth})
	s.names = s.names[:len(s.names)-1]
	for i, n := range s.names {
		if n == target {
			s.names[i] = newName
			break
		}
	}
}

// drop emits a Drop for the current top cell.
func (s *i64scratch) drop() {
	s.t.emit(opcode.Instruction{Op: opcode.Drop})
	s.names = s.names[:len(s.names)-1]
}

// dropUntil drops dead cells off the top until the named cell is current
// top, for routines that accumulate more temporaries than a hand-counted
// sequence of drop() calls would be practical to track.
func (s *i64scratch) dropUntil(name string) {
	for s.names[len(s.names)-1] != name {
		s.drop()
	}
}

// consumed un-tracks the top cell without emitting anything, for use right
// after a branch instruction (BrIfEqz/BrIfNez) that already popped it as
// its own condition operand.
func (s *i64scratch) consumed() {
	s.names = s.names[:len(s.names)-1]
}

// fork returns an independent copy of s's current name list, for use when
// two control-flow arms diverge from the same point and must each track
// their own temporaries without interfering with one another.
func (s *i64scratch) fork() *i64scratch {
	return &i64scratch{t: s.t, names: append([]string(nil), s.names...)}
}

// collapseAfter re-synchronizes s (the pre-branch scratch) with the state
// two forked, now-merged control-flow arms both established: each arm
// relocated its two result cells into hiName/loName's original slots and
// dropped everything pushed after loName. Since both arms agree on that
// final shape by construction, this updates s's bookkeeping to match
// without emitting anything (the arms already emitted the real work).
func (s *i64scratch) collapseAfter(hiName, loName, newHi, newLo string) {
	loIdx := -1
	for i, n := range s.names {
		if n == loName {
			loIdx = i
		}
	}
	s.names = s.names[:loIdx+1]
	for i, n := range s.names {
		switch n {
		case hiName:
			s.names[i] = newHi
		case loName:
			s.names[i] = newLo
		}
	}
}

// finish drops every cell above the named results (which must already sit
// at the very bottom of this scratch region, in bottom-to-top order) so
// only they remain.
func (s *i64scratch) finish(results ...string) {
	for len(s.names) > len(results) {
		s.drop()
	}
}

// newLabel/branch helpers used by shift/compare/division routines that
// need real control flow rather than straight-line arithmetic.
func (s *i64scratch) branchOffset(lbl label) int32 { return s.t.branchOffset(lbl) }
