package compiler

import (
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/value"
)

// i64.go lowers the i64 arithmetic/comparison/bitwise/shift/division
// operators that have no native 64-bit primitive to fall back on: every
// routine here is built entirely from 32-bit opcodes operating on the two
// adjacent cells (high word below, low word on top) that represent one
// i64 value on the operand stack. i64scratch (see i64scratch.go) tracks
// the compile-time name of each cell so a routine's steps can be written
// by name instead of by hand-derived LocalDepth arithmetic.
//
// Every routine here follows the same shape: build the result on top of
// the stack, storeInto the earliest dead input slot(s) to relocate it
// down to where the caller expects the result to live, then finish() to
// drop whatever dead cells remain above it.

func (t *Translator) i64TwoOperands() *i64scratch {
	s := newI64Scratch(t, "a_hi", "a_lo", "b_hi", "b_lo")
	return s
}

func (t *Translator) i64finishBinary(s *i64scratch) {
	// result is 2 cells (hi then lo); relocate them into a_hi/a_lo, then
	// drop the dead b_hi/b_lo.
	s.storeInto("a_hi")
	s.storeInto("a_lo")
	s.finish("a_hi", "a_lo")
	t.stack.pop2()
	t.stack.push(typeI64)
}

func (t *Translator) i64finishCompare(s *i64scratch) {
	s.storeInto("a_hi")
	s.finish("a_hi")
	t.stack.pop2()
	t.stack.push(typeI32)
}

// i64Eqz pushes 1 iff the i64 operand is all-zero.
func (t *Translator) i64Eqz() error {
	s := newI64Scratch(t, "a_hi", "a_lo")
	s.op2(opcode.I32Or, "orv")
	s.op1(opcode.I32Eqz, "result")
	t.stack.pop()
	t.stack.push(typeI32)
	return nil
}

// i64EqNe lowers i64.eq/i64.ne: componentwise equality, ANDed, optionally
// negated for ne.
func (t *Translator) i64EqNe(op opcode.Opcode) error {
	s := t.i64TwoOperands()
	s.dup("a_hi", "x1")
	s.dup("b_hi", "x2")
	s.op2(opcode.I32Eq, "hiEq")
	s.dup("a_lo", "x3")
	s.dup("b_lo", "x4")
	s.op2(opcode.I32Eq, "loEq")
	s.op2(opcode.I32And, "result")
	if op == opcode.I64Ne {
		s.op1(opcode.I32Eqz, "result")
	}
	t.i64finishCompare(s)
	return nil
}

// i64compareCore implements a<b (strict) via the standard two-limb
// comparison identity: the high limbs decide unless they're equal, in
// which case the low limbs decide, always compared as unsigned (the sign,
// if any, has already been accounted for by the high-limb comparator).
func i64compareCore(s *i64scratch, hiCmp opcode.Opcode, lHi, lLo, rHi, rLo string) {
	s.dup(lHi, "t1")
	s.dup(rHi, "t2")
	s.op2(hiCmp, "hiLt")
	s.dup(lHi, "t3")
	s.dup(rHi, "t4")
	s.op2(opcode.I32Eq, "hiEq")
	s.dup(lLo, "t5")
	s.dup(rLo, "t6")
	s.op2(opcode.I32LtU, "loLt")
	s.op2(opcode.I32And, "hiEqAndLoLt")
	s.op2(opcode.I32Or, "result")
}

// i64Compare lowers the eight i64 ordering operators from the single
// strict-less-than core: gt swaps operands, le/ge negate the opposite
// strict comparison.
func (t *Translator) i64Compare(op opcode.Opcode) error {
	s := t.i64TwoOperands()
	lHi, lLo := "a_hi", "a_lo"
	rHi, rLo := "b_hi", "b_lo"
	var hiCmp opcode.Opcode
	var negate bool
	switch op {
	case opcode.I64LtS:
		hiCmp = opcode.I32LtS
	case opcode.I64LtU:
		hiCmp = opcode.I32LtU
	case opcode.I64GtS:
		hiCmp, lHi, lLo, rHi, rLo = opcode.I32LtS, rHi, rLo, lHi, lLo
	case opcode.I64GtU:
		hiCmp, lHi, lLo, rHi, rLo = opcode.I32LtU, rHi, rLo, lHi, lLo
	case opcode.I64LeS:
		hiCmp, lHi, lLo, rHi, rLo, negate = opcode.I32LtS, rHi, rLo, lHi, lLo, true
	case opcode.I64LeU:
		hiCmp, lHi, lLo, rHi, rLo, negate = opcode.I32LtU, rHi, rLo, lHi, lLo, true
	case opcode.I64GeS:
		hiCmp, negate = opcode.I32LtS, true
	case opcode.I64GeU:
		hiCmp, negate = opcode.I32LtU, true
	}
	i64compareCore(s, hiCmp, lHi, lLo, rHi, rLo)
	if negate {
		s.op1(opcode.I32Eqz, "result")
	}
	t.i64finishCompare(s)
	return nil
}

// i64AddSub lowers add/sub via grade-school addition with explicit carry:
// compute the low limb and its carry-out first (the low limbs are needed
// twice, for the sum and for the carry check, so they're duplicated
// rather than consumed), then fold the carry into the high-limb sum.
// Subtraction is addition of the two's complement, so it reuses the same
// shape with a borrow in place of a carry.
func (t *Translator) i64AddSub(op32 opcode.Opcode) error {
	s := t.i64TwoOperands()
	if op32 == opcode.I32Add {
		s.dup("a_lo", "x1")
		s.dup("b_lo", "x2")
		s.op2(opcode.I32Add, "sumLo")
		s.dup("sumLo", "x3")
		s.dup("a_lo", "x4")
		s.op2(opcode.I32LtU, "carry") // sumLo wrapped iff it's less than either addend
		s.dup("a_hi", "x5")
		s.dup("b_hi", "x6")
		s.op2(opcode.I32Add, "partialHi")
		s.dup("partialHi", "x7")
		s.dup("carry", "x8")
		s.op2(opcode.I32Add, "sumHi")
		// stack above the four operands, bottom to top: sumLo, carry,
		// partialHi, sumHi. Relocate sumHi and sumLo, dropping the two
		// dead temporaries between them.
		s.storeInto("a_hi")
		s.drop() // partialHi
		s.drop() // carry
		s.storeInto("a_lo")
	} else {
		s.dup("a_lo", "x1")
		s.dup("b_lo", "x2")
		s.op2(opcode.I32LtU, "borrow") // a_lo < b_lo means the subtraction borrows from the high limb
		s.dup("a_lo", "x3")
		s.dup("b_lo", "x4")
		s.op2(opcode.I32Sub, "sumLo")
		s.dup("a_hi", "x5")
		s.dup("b_hi", "x6")
		s.op2(opcode.I32Sub, "partialHi")
		s.dup("partialHi", "x7")
		s.dup("borrow", "x8")
		s.op2(opcode.I32Sub, "sumHi")
		// stack above the four operands, bottom to top: borrow, sumLo,
		// partialHi, sumHi.
		s.storeInto("a_hi")
		s.drop() // partialHi
		s.storeInto("a_lo")
	}
	s.finish("a_hi", "a_lo") // drops whatever operand/borrow garbage remains
	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

// i64Bitwise lowers and/or/xor: componentwise, no carry propagation.
func (t *Translator) i64Bitwise(op opcode.Opcode) error {
	s := t.i64TwoOperands()
	s.dup("a_lo", "x1")
	s.dup("b_lo", "x2")
	s.op2(op, "lo")
	s.dup("a_hi", "x3")
	s.dup("b_hi", "x4")
	s.op2(op, "hi")
	s.storeInto("a_hi")
	s.storeInto("a_lo")
	s.finish("a_hi", "a_lo")
	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

// i64Clz/i64Ctz/i64Popcnt reduce to the corresponding 32-bit primitive on
// each limb; clz/ctz additionally need a select to choose which limb's
// count dominates depending on whether the other limb is entirely zero.
func (t *Translator) i64Clz() error {
	s := newI64Scratch(t, "a_hi", "a_lo")
	s.dup("a_hi", "h1")
	s.op1(opcode.I32Clz, "candHiNonzero") // used when a_hi != 0
	s.dup("a_lo", "l1")
	s.op1(opcode.I32Clz, "clzLo")
	s.const32(32, "c32")
	s.op2(opcode.I32Add, "candHiZero") // used when a_hi == 0: 32 + clz(lo)
	s.dup("a_hi", "cond")              // select's condition: nonzero a_hi picks candHiNonzero
	s.op3(opcode.Select, "result")
	s.storeInto("a_hi")
	s.finish("a_hi")
	t.stack.pop()
	t.stack.push(typeI32)
	return nil
}

func (t *Translator) i64Ctz() error {
	s := newI64Scratch(t, "a_hi", "a_lo")
	s.dup("a_lo", "l1")
	s.op1(opcode.I32Ctz, "candLoNonzero") // used when a_lo != 0
	s.dup("a_hi", "h1")
	s.op1(opcode.I32Ctz, "ctzHi")
	s.const32(32, "c32")
	s.op2(opcode.I32Add, "candLoZero") // used when a_lo == 0: 32 + ctz(hi)
	s.dup("a_lo", "cond")
	s.op3(opcode.Select, "result")
	s.storeInto("a_hi")
	s.finish("a_hi")
	t.stack.pop()
	t.stack.push(typeI32)
	return nil
}

// i64Mul computes the low 64 bits of a*b. The low word is an ordinary
// truncating 32-bit multiply; the high word needs the carry that a_lo*b_lo
// contributes above bit 31, which a single native multiply can't produce
// (it only ever returns the low 32 bits). That carry is obtained via
// Hacker's Delight's 16-bit-limb unsigned multiply-high, the textbook way
// to get a 32x32-bit product's upper half using only operations that
// themselves never need more than 32 bits of result.
func (t *Translator) i64Mul() error {
	s := t.i64TwoOperands()

	s.dup("a_lo", "u1"); s.const32(16, "c1"); s.op2(opcode.I32ShrU, "u1")
	s.dup("a_lo", "u0"); s.const32(0xFFFF, "c2"); s.op2(opcode.I32And, "u0")
	s.dup("b_lo", "v1"); s.const32(16, "c3"); s.op2(opcode.I32ShrU, "v1")
	s.dup("b_lo", "v0"); s.const32(0xFFFF, "c4"); s.op2(opcode.I32And, "v0")

	s.dup("u0", "x1")
	s.dup("v0", "x2")
	s.op2(opcode.I32Mul, "w0")
	s.dup("u1", "x3")
	s.dup("v0", "x4")
	s.op2(opcode.I32Mul, "u1v0")
	s.dup("w0", "x5")
	s.const32(16, "c5")
	s.op2(opcode.I32ShrU, "w0hi")
	s.dup("u1v0", "x6")
	s.dup("w0hi", "x7")
	s.op2(opcode.I32Add, "tt")

	s.dup("tt", "x8")
	s.const32(0xFFFF, "c6")
	s.op2(opcode.I32And, "w1a")
	s.dup("u0", "x9")
	s.dup("v1", "x10")
	s.op2(opcode.I32Mul, "u0v1")
	s.dup("w1a", "x11")
	s.dup("u0v1", "x12")
	s.op2(opcode.I32Add, "w1")
	s.dup("tt", "x13")
	s.const32(16, "c7")
	s.op2(opcode.I32ShrU, "w2")

	s.dup("u1", "x14")
	s.dup("v1", "x15")
	s.op2(opcode.I32Mul, "u1v1")
	s.dup("w1", "x16")
	s.const32(16, "c8")
	s.op2(opcode.I32ShrU, "w1hi")
	s.dup("u1v1", "x17")
	s.dup("w2", "x18")
	s.op2(opcode.I32Add, "partA")
	s.dup("partA", "x19")
	s.dup("w1hi", "x20")
	s.op2(opcode.I32Add, "mulhi") // mulhu(a_lo, b_lo)

	s.dup("a_lo", "x21")
	s.dup("b_lo", "x22")
	s.op2(opcode.I32Mul, "resultLo")

	s.dup("a_lo", "x23")
	s.dup("b_hi", "x24")
	s.op2(opcode.I32Mul, "crossA") // low 32 bits of a_lo*b_hi
	s.dup("a_hi", "x25")
	s.dup("b_lo", "x26")
	s.op2(opcode.I32Mul, "crossB") // low 32 bits of a_hi*b_lo

	s.dup("mulhi", "x27")
	s.dup("crossA", "x28")
	s.op2(opcode.I32Add, "hiPartial")
	s.dup("hiPartial", "x29")
	s.dup("crossB", "x30")
	s.op2(opcode.I32Add, "resultHi")

	s.storeInto("a_hi")
	s.dropUntil("resultLo")
	s.storeInto("a_lo")
	s.finish("a_hi", "a_lo")
	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

func (t *Translator) i64Popcnt() error {
	s := newI64Scratch(t, "a_hi", "a_lo")
	s.dup("a_hi", "h1")
	s.op1(opcode.I32Popcnt, "ph")
	s.dup("a_lo", "l1")
	s.op1(opcode.I32Popcnt, "pl")
	s.op2(opcode.I32Add, "result")
	s.storeInto("a_hi")
	s.finish("a_hi")
	t.stack.pop()
	t.stack.push(typeI32)
	return nil
}

// shiftOnce emits a shift-count mask (mod 64) and branches on whether the
// masked count reaches into the second word: when it doesn't (k < 32),
// the result straddles both words and the half of the source word being
// squeezed out needs to cross into the other word — shifting by
// (32-k32) directly would shift by 32 at the k32==0 boundary, which the
// underlying 32-bit shift instructions treat as a no-op rather than a
// full clear, so that shift is split into (31-k32) followed by 1 more.
// When the masked count reaches 32 or past it, the whole source word has
// already moved entirely into the other word or off the end.
//
// hiName/loName must already be live, addressable scratch cells (often
// fresh dup()s of the real operand, when the caller needs the original
// preserved for reuse, as rotate does). Every cell above loName is swept,
// countName included when it sits there; a count cell below the source
// slots (rotate's bmask/complement) is left in place. On return the
// result occupies exactly the same two slots, renamed "resHi"/"resLo".
func (t *Translator) shiftOnce(s *i64scratch, hiName, loName, countName string, leftShift, arithmetic bool) {
	s.dup(countName, "kd1")
	s.const32(63, "c63")
	s.op2(opcode.I32And, "k")
	s.dup("k", "kd2")
	s.const32(31, "c31")
	s.op2(opcode.I32And, "k32")
	s.dup("k", "kd3")
	s.const32(32, "c32")
	s.op2(opcode.I32GeU, "ge32")

	lblGe := t.labels.newLabel()
	lblDone := t.labels.newLabel()
	off := t.branchOffset(lblGe)
	t.emit(opcode.Instruction{Op: opcode.BrIfNez, BranchOffset: off})
	s.consumed() // ge32 already popped by the branch

	lt := s.fork()
	if leftShift {
		lt.dup(loName, "p1")
		lt.dup("k32", "p2")
		lt.op2(opcode.I32Shl, "resLo")
		lt.dup(hiName, "p3")
		lt.dup("k32", "p4")
		lt.op2(opcode.I32Shl, "hiShl")
		lt.const32(31, "p5")
		lt.dup("k32", "p6")
		lt.op2(opcode.I32Sub, "shamt2")
		lt.dup(loName, "p7")
		lt.dup("shamt2", "p8")
		lt.op2(opcode.I32ShrU, "half")
		lt.const32(1, "p9")
		lt.op2(opcode.I32ShrU, "carryIn")
		lt.dup("hiShl", "p10")
		lt.dup("carryIn", "p11")
		lt.op2(opcode.I32Or, "resHi")
		// resHi ends on top: store it first, skip the dead temporaries
		// left below it, then store resLo.
		lt.storeInto(hiName)
		lt.dropUntil("resLo")
		lt.storeInto(loName)
		lt.dropUntil("resLo") // sweep countName and its k/k32 derivatives
	} else {
		hiOp := opcode.I32ShrU
		if arithmetic {
			hiOp = opcode.I32ShrS
		}
		lt.dup(hiName, "p1")
		lt.dup("k32", "p2")
		lt.op2(hiOp, "resHi")
		lt.dup(loName, "p3")
		lt.dup("k32", "p4")
		lt.op2(opcode.I32ShrU, "loShr")
		lt.const32(31, "p5")
		lt.dup("k32", "p6")
		lt.op2(opcode.I32Sub, "shamt2")
		lt.dup(hiName, "p7")
		lt.dup("shamt2", "p8")
		lt.op2(opcode.I32Shl, "half")
		lt.const32(1, "p9")
		lt.op2(opcode.I32Shl, "carryIn")
		lt.dup("loShr", "p10")
		lt.dup("carryIn", "p11")
		lt.op2(opcode.I32Or, "resLo")
		// resLo ends on top this time: store it first.
		lt.storeInto(loName)
		lt.dropUntil("resHi")
		lt.storeInto(hiName)
		lt.dropUntil("resLo") // sweep countName and its k/k32 derivatives
	}
	offDone := t.branchOffset(lblDone)
	t.emit(opcode.Instruction{Op: opcode.Br, BranchOffset: offDone})

	t.labels.pin(lblGe, t.currentPC())
	ge := s.fork()
	if leftShift {
		ge.const32(0, "resLo")
		ge.dup(loName, "q1")
		ge.dup("k32", "q2")
		ge.op2(opcode.I32Shl, "resHi")
		ge.storeInto(hiName)
		ge.dropUntil("resLo")
		ge.storeInto(loName)
		ge.dropUntil("resLo") // sweep countName and its k/k32 derivatives
	} else if arithmetic {
		ge.dup(hiName, "q1")
		ge.dup("k32", "q2")
		ge.op2(opcode.I32ShrS, "resLo")
		ge.dup(hiName, "q3")
		ge.const32(31, "q4")
		ge.op2(opcode.I32ShrS, "resHi")
		ge.storeInto(hiName)
		ge.dropUntil("resLo")
		ge.storeInto(loName)
		ge.dropUntil("resLo") // sweep countName and its k/k32 derivatives
	} else {
		ge.dup(hiName, "q1")
		ge.dup("k32", "q2")
		ge.op2(opcode.I32ShrU, "resLo")
		ge.const32(0, "resHi")
		ge.storeInto(hiName)
		ge.dropUntil("resLo")
		ge.storeInto(loName)
		ge.dropUntil("resLo") // sweep countName and its k/k32 derivatives
	}

	t.labels.pin(lblDone, t.currentPC())
	s.collapseAfter(hiName, loName, "resHi", "resLo")
}

// i64ShiftRotate lowers shl/shr_u/shr_s directly via shiftOnce, and
// rotl/rotr via the standard identity rotl(a,k) = shl(a,k) | shr_u(a,64-k)
// (and its mirror for rotr): each needs the source word twice, so a fresh
// copy is taken before the second shiftOnce call.
func (t *Translator) i64ShiftRotate(op opcode.Opcode) error {
	s := t.i64TwoOperands() // a_hi, a_lo, b_hi, b_lo (b is the shift/rotate amount; b_hi is unused)

	// b_hi never contributes to a mod-64 shift/rotate amount; it is left in
	// place rather than dropped here, since it isn't on top (b_lo is) — the
	// dropUntil cleanup inside shiftOnce sweeps it up along with the other
	// count-derived temporaries once the real result is relocated.
	switch op {
	case opcode.I64Shl:
		t.shiftOnce(s, "a_hi", "a_lo", "b_lo", true, false)
		s.finish("resHi", "resLo")
	case opcode.I64ShrU:
		t.shiftOnce(s, "a_hi", "a_lo", "b_lo", false, false)
		s.finish("resHi", "resLo")
	case opcode.I64ShrS:
		t.shiftOnce(s, "a_hi", "a_lo", "b_lo", false, true)
		s.finish("resHi", "resLo")
	case opcode.I64Rotl, opcode.I64Rotr:
		// complement = 64 - (b_lo mod 64), computed mod 64 so a zero
		// rotate amount maps to a zero complement rather than 64.
		s.dup("b_lo", "m1")
		s.const32(63, "m2")
		s.op2(opcode.I32And, "bmask")
		s.const32(64, "m3")
		s.dup("bmask", "m4")
		s.op2(opcode.I32Sub, "rawComplement")
		s.dup("rawComplement", "m5")
		s.const32(63, "m6")
		s.op2(opcode.I32And, "complement")

		s.dup("a_hi", "d1")
		s.dup("a_lo", "d2")
		leftFirst := op == opcode.I64Rotl
		if leftFirst {
			t.shiftOnce(s, "d1", "d2", "bmask", true, false)
		} else {
			t.shiftOnce(s, "d1", "d2", "bmask", false, false)
		}
		s.names[indexOf(s.names, "resHi")] = "part1Hi"
		s.names[indexOf(s.names, "resLo")] = "part1Lo"

		s.dup("a_hi", "d3")
		s.dup("a_lo", "d4")
		t.shiftOnce(s, "d3", "d4", "complement", !leftFirst, false)
		s.names[indexOf(s.names, "resHi")] = "part2Hi"
		s.names[indexOf(s.names, "resLo")] = "part2Lo"

		s.dup("part1Hi", "e1")
		s.dup("part2Hi", "e2")
		s.op2(opcode.I32Or, "resHi")
		s.dup("part1Lo", "e3")
		s.dup("part2Lo", "e4")
		s.op2(opcode.I32Or, "resLo")

		s.storeInto("a_lo")
		s.dropUntil("resHi")
		s.storeInto("a_hi")
		s.finish("resHi", "resLo")
	}
	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	panic("rwasm/compiler: i64scratch: unknown cell " + name)
}

// i64UDivModCore performs 64-iteration restoring binary long division of
// the unsigned value at aHi/aLo by the unsigned value at bHi/bLo, leaving
// the quotient in aHi/aLo's original slots and the remainder in two fresh
// slots above bHi/bLo. Each iteration shifts the next dividend bit out of
// the top of the running quotient register into the bottom of the
// remainder register, then restores (subtracts the divisor back out) only
// when the trial remainder was large enough — expressed branchlessly via
// Select rather than a per-iteration conditional, so the loop body itself
// needs no internal control flow beyond the fixed 64-time repeat.
//
// On return aHi/aLo/bHi/bLo are unusable (renamed); the caller reads the
// result through the fixed names "udivQHi"/"udivQLo"/"udivRHi"/"udivRLo".
func (t *Translator) i64UDivModCore(s *i64scratch, aHi, aLo, bHi, bLo string) {
	s.const32(0, "udivRHi")
	s.const32(0, "udivRLo")
	s.const32(64, "udivCounter")

	header := t.labels.newLabel()
	done := t.labels.newLabel()
	t.labels.pin(header, t.currentPC())

	s.dup("udivCounter", "udivTest")
	offDone := t.branchOffset(done)
	t.emit(opcode.Instruction{Op: opcode.BrIfEqz, BranchOffset: offDone})
	s.consumed() // udivTest popped by the branch

	// Shift the dividend (aHi/aLo) left by one, capturing the bit that
	// falls out of its top as qmsb; shift the remainder left by one,
	// folding qmsb into its bottom.
	s.dup(aHi, "udT1")
	s.const32(31, "udC1")
	s.op2(opcode.I32ShrU, "qmsb")
	s.dup(aLo, "udT2")
	s.const32(1, "udC2")
	s.op2(opcode.I32Shl, "qloShl")
	s.dup(aLo, "udT3")
	s.const32(31, "udC3")
	s.op2(opcode.I32ShrU, "qcarry")
	s.dup(aHi, "udT4")
	s.const32(1, "udC4")
	s.op2(opcode.I32Shl, "qhiShl")
	s.dup("qhiShl", "udT5")
	s.dup("qcarry", "udT6")
	s.op2(opcode.I32Or, "qhiNew")

	s.dup("udivRLo", "udT7")
	s.const32(31, "udC5")
	s.op2(opcode.I32ShrU, "rcarry")
	s.dup("udivRLo", "udT8")
	s.const32(1, "udC6")
	s.op2(opcode.I32Shl, "rloShl")
	s.dup("rloShl", "udT9")
	s.dup("qmsb", "udT10")
	s.op2(opcode.I32Or, "rloNew")
	s.dup("udivRHi", "udT11")
	s.const32(1, "udC7")
	s.op2(opcode.I32Shl, "rhiShl")
	s.dup("rhiShl", "udT12")
	s.dup("rcarry", "udT13")
	s.op2(opcode.I32Or, "rhiNew")

	// rGeD: does the shifted remainder already exceed the divisor?
	s.dup("rhiNew", "udT14")
	s.dup(bHi, "udT15")
	s.op2(opcode.I32LtU, "hiLt")
	s.dup("rhiNew", "udT16")
	s.dup(bHi, "udT17")
	s.op2(opcode.I32Eq, "hiEq")
	s.dup("rloNew", "udT18")
	s.dup(bLo, "udT19")
	s.op2(opcode.I32LtU, "loLtU")
	s.dup("hiEq", "udT20")
	s.op2(opcode.I32And, "eqAndLoLt") // consumes hiEq copy and loLtU directly
	s.dup("hiLt", "udT21")
	s.op2(opcode.I32Or, "rLtD") // consumes hiLt copy and eqAndLoLt directly
	s.op1(opcode.I32Eqz, "rGeD")

	// Conditionally subtract the divisor back out, via Select rather than
	// a branch: selD is the divisor when rGeD, zero otherwise.
	s.dup(bHi, "udT25")
	s.const32(0, "udT26")
	s.dup("rGeD", "udT27")
	s.op3(opcode.Select, "selDHi")
	s.dup(bLo, "udT28")
	s.const32(0, "udT29")
	s.dup("rGeD", "udT30")
	s.op3(opcode.Select, "selDLo")

	s.dup("rloNew", "udT31")
	s.dup("selDLo", "udT32")
	s.op2(opcode.I32LtU, "borrow")
	s.dup("rloNew", "udT33")
	s.dup("selDLo", "udT34")
	s.op2(opcode.I32Sub, "rloFinal")
	s.dup("rhiNew", "udT35")
	s.dup("selDHi", "udT36")
	s.op2(opcode.I32Sub, "partialHi")
	s.dup("partialHi", "udT37")
	s.dup("borrow", "udT38")
	s.op2(opcode.I32Sub, "rhiFinal")

	s.dup("qloShl", "udT39")
	s.dup("rGeD", "udT40")
	s.op2(opcode.I32Or, "qloFinal")

	// Relocate the four per-iteration results back into their
	// loop-invariant slots, sweeping every dead temporary as we go so the
	// stack returns to exactly its pre-iteration shape.
	s.storeInto(aLo)
	s.storeInto("udivRHi")
	s.dropUntil("rloFinal")
	s.storeInto("udivRLo")
	s.dropUntil("qhiNew")
	s.storeInto(aHi)
	s.dropUntil("udivCounter")

	s.dup("udivCounter", "udDec1")
	s.const32(1, "udDec2")
	s.op2(opcode.I32Sub, "udivCounterNew")
	s.storeInto("udivCounter")

	offBack := t.branchOffset(header)
	t.emit(opcode.Instruction{Op: opcode.Br, BranchOffset: offBack})
	t.labels.pin(done, t.currentPC())

	// aHi/aLo/"udivRHi"/"udivRLo" were each renamed by the storeInto calls
	// above (to the literal result names the loop body just produced), so
	// the post-loop rename must look those up, not the pre-loop parameters.
	s.names[indexOf(s.names, "qhiNew")] = "udivQHi"
	s.names[indexOf(s.names, "qloFinal")] = "udivQLo"
	s.names[indexOf(s.names, "rhiFinal")] = "udivRHiFinal"
	s.names[indexOf(s.names, "rloFinal")] = "udivRLoFinal"
}

func (t *Translator) i64DivRemU(op opcode.Opcode) error {
	s := t.i64TwoOperands()
	t.i64UDivModCore(s, "a_hi", "a_lo", "b_hi", "b_lo")

	if op == opcode.I64DivU {
		// Quotient already sits at the bottom two slots.
		s.finish("udivQHi", "udivQLo")
	} else {
		s.dup("udivRHiFinal", "relHi")
		s.storeInto("udivQHi")
		s.dup("udivRLoFinal", "relLo")
		s.storeInto("udivQLo")
		s.finish("udivQHi", "udivQLo")
	}
	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

// i64NegateInto computes the two's complement negation of the value at
// srcHi/srcLo into fresh dstHi/dstLo cells, leaving srcHi/srcLo intact for
// further use (unlike a plain in-place negate, the signed div/rem path
// still needs the original alongside the negated candidate for Select).
func (t *Translator) i64NegateInto(s *i64scratch, srcHi, srcLo, dstHi, dstLo string) {
	s.dup(srcLo, "ngBorrowLo")
	s.const32(0, "ngBorrowZ")
	s.op2(opcode.I32Ne, "ngBorrow")
	s.const32(0, "ngLoZ")
	s.dup(srcLo, "ngLoCopy")
	s.op2(opcode.I32Sub, dstLo)
	s.const32(0, "ngHiZ")
	s.dup(srcHi, "ngHiCopy")
	s.op2(opcode.I32Sub, "ngHiRaw")
	s.dup("ngHiRaw", "ngHiRawCopy")
	s.dup("ngBorrow", "ngBorrowCopy")
	s.op2(opcode.I32Sub, dstHi)
}

// i64DivRemS sign-normalizes both operands to their unsigned magnitude,
// runs the shared unsigned core, then restores the correct sign to
// whichever of quotient/remainder the caller wants: the quotient's sign is
// the XOR of the two operand signs, the remainder's sign follows the
// dividend (WASM's i64.rem_s is defined to truncate toward zero). The one
// case the unsigned core cannot handle is INT64_MIN / -1, whose
// mathematical quotient does not fit in 64 bits; i64.div_s routes that
// exact pair through i32.div_s(INT32_MIN, -1) so the same overflow trap an
// interpreter's i32 division already implements fires here too.
func (t *Translator) i64DivRemS(op opcode.Opcode) error {
	s := t.i64TwoOperands()
	isRem := op == opcode.I64RemS

	if op == opcode.I64DivS {
		s.dup("a_hi", "ovA1")
		s.const32(-0x80000000, "ovA2")
		s.op2(opcode.I32Eq, "isMinHi")
		s.dup("a_lo", "ovA3")
		s.const32(0, "ovA4")
		s.op2(opcode.I32Eq, "isMinLo")
		s.dup("isMinHi", "ovA5")
		s.op2(opcode.I32And, "isMin") // consumes isMinHi copy and isMinLo directly
		s.dup("b_hi", "ovB1")
		s.const32(-1, "ovB2")
		s.op2(opcode.I32Eq, "isNegOneHi")
		s.dup("b_lo", "ovB3")
		s.const32(-1, "ovB4")
		s.op2(opcode.I32Eq, "isNegOneLo")
		s.dup("isNegOneHi", "ovB5")
		s.op2(opcode.I32And, "isNegOne")
		s.dup("isMin", "ovC1")
		s.op2(opcode.I32And, "isOverflow") // consumes isMin copy and isNegOne directly

		lblOverflow := t.labels.newLabel()
		lblDone := t.labels.newLabel()
		offOverflow := t.branchOffset(lblOverflow)
		t.emit(opcode.Instruction{Op: opcode.BrIfNez, BranchOffset: offOverflow})
		s.consumed() // isOverflow popped by the branch

		divRemSBody(t, s, isRem)
		offSkip := t.branchOffset(lblDone)
		t.emit(opcode.Instruction{Op: opcode.Br, BranchOffset: offSkip})

		t.labels.pin(lblOverflow, t.currentPC())
		t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(-0x80000000)})
		t.emit(opcode.Instruction{Op: opcode.I32Const, Const: value.FromI32(-1)})
		t.emit(opcode.Instruction{Op: opcode.I32DivS})
		t.emit(opcode.Instruction{Op: opcode.Unreachable})

		t.labels.pin(lblDone, t.currentPC())
	} else {
		divRemSBody(t, s, isRem)
	}

	t.stack.pop2()
	t.stack.push(typeI64)
	return nil
}

// divRemSBody implements the sign-normalize/divide/re-sign sequence shared
// by i64.div_s and i64.rem_s once the INT64_MIN/-1 trap (div_s only) has
// been ruled out.
func divRemSBody(t *Translator, s *i64scratch, isRem bool) {
	s.dup("a_hi", "sgA1")
	s.const32(31, "sgA2")
	s.op2(opcode.I32ShrU, "signA")
	s.dup("b_hi", "sgB1")
	s.const32(31, "sgB2")
	s.op2(opcode.I32ShrU, "signB")

	t.i64NegateInto(s, "a_hi", "a_lo", "negAHi", "negALo")
	t.i64NegateInto(s, "b_hi", "b_lo", "negBHi", "negBLo")

	s.dup("negAHi", "selAH1")
	s.dup("a_hi", "selAH2")
	s.dup("signA", "selAH3")
	s.op3(opcode.Select, "absAHi")
	s.dup("negALo", "selAL1")
	s.dup("a_lo", "selAL2")
	s.dup("signA", "selAL3")
	s.op3(opcode.Select, "absALo")
	s.dup("negBHi", "selBH1")
	s.dup("b_hi", "selBH2")
	s.dup("signB", "selBH3")
	s.op3(opcode.Select, "absBHi")
	s.dup("negBLo", "selBL1")
	s.dup("b_lo", "selBL2")
	s.dup("signB", "selBL3")
	s.op3(opcode.Select, "absBLo")

	// Relocate the absolute values back into the a_hi/a_lo/b_hi/b_lo slots,
	// sweeping every sign-normalization temporary on the way. storeInto
	// tracks those slots under the absAHi..absBLo names from here on, so
	// the unsigned core addresses them by those names.
	s.storeInto("b_lo")
	s.dropUntil("absBHi")
	s.storeInto("b_hi")
	s.dropUntil("absALo")
	s.storeInto("a_lo")
	s.dropUntil("absAHi")
	s.storeInto("a_hi")
	s.dropUntil("signB") // sweeps negate/select temporaries; signA/signB survive

	t.i64UDivModCore(s, "absAHi", "absALo", "absBHi", "absBLo")

	// Quotient sign = signA XOR signB; remainder sign = signA.
	s.dup("signA", "qs1")
	s.dup("signB", "qs2")
	s.op2(opcode.I32Xor, "quotSign")

	t.i64NegateInto(s, "udivQHi", "udivQLo", "negQHi", "negQLo")
	t.i64NegateInto(s, "udivRHiFinal", "udivRLoFinal", "negRHi", "negRLo")

	s.dup("negQHi", "rqh1")
	s.dup("udivQHi", "rqh2")
	s.dup("quotSign", "rqh3")
	s.op3(opcode.Select, "finalQHi")
	s.dup("negQLo", "rql1")
	s.dup("udivQLo", "rql2")
	s.dup("quotSign", "rql3")
	s.op3(opcode.Select, "finalQLo")
	s.dup("negRHi", "rrh1")
	s.dup("udivRHiFinal", "rrh2")
	s.dup("signA", "rrh3")
	s.op3(opcode.Select, "finalRHi")
	s.dup("negRLo", "rrl1")
	s.dup("udivRLoFinal", "rrl2")
	s.dup("signA", "rrl3")
	s.op3(opcode.Select, "finalRLo")

	if isRem {
		s.dup("finalRHi", "outH")
		s.storeInto("udivQHi")
		s.dup("finalRLo", "outL")
		s.storeInto("udivQLo")
	} else {
		s.dup("finalQHi", "outH")
		s.storeInto("udivQHi")
		s.dup("finalQLo", "outL")
		s.storeInto("udivQLo")
	}
	s.finish("udivQHi", "udivQLo")
}
