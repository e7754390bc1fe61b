package compiler

import "github.com/rwasmio/rwasm/opcode"

// visitLoad, visitStore lower the size/signedness-annotated load/store
// family directly: unlike arithmetic, a memory access already reads or
// writes its full width in one native step, so an I64Load simply produces
// both result cells itself rather than needing the 32-bit-primitive
// splitting integer arithmetic requires. The translator's only job is
// correct stack bookkeeping and carrying the address offset immediate.
func (t *Translator) visitLoad(op opcode.Opcode, offset uint32, result valType) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Base)
	t.stack.pop1() // address
	t.emit(opcode.Instruction{Op: op, Index: offset})
	t.stack.push(result)
	return nil
}

func (t *Translator) visitStore(op opcode.Opcode, offset uint32) error {
	if !t.isReachable() {
		return nil
	}
	t.bumpFuel(t.fuel.Base)
	t.stack.pop()   // value
	t.stack.pop1()  // address
	t.emit(opcode.Instruction{Op: op, Index: offset})
	return nil
}
