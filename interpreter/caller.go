package interpreter

import "github.com/rwasmio/rwasm/value"

// Caller is the view a syscall handler gets of the VM that invoked it: the
// live operand stack (to read arguments and push results, exactly where
// the call left them), the memory and tables to read/write on the
// module's behalf, the global slots, a free-form embedder Context, and
// the fuel meter so a handler can charge for work it does itself.
//
// Gathering imports, exports, and the syscall-dispatch-by-name contract
// is the out-of-scope host-binding layer's job (SPEC_FULL.md §1); Caller
// only exposes what a handler needs once it has already been invoked.
type Caller struct {
	vm *VM
}

func (c *Caller) Stack() *OperandStack { return c.vm.stack }

func (c *Caller) Memory() *Memory { return c.vm.memory }

func (c *Caller) Table(index uint32) *Table { return c.vm.tables[index] }

func (c *Caller) Global(index uint32) value.Value { return c.vm.globals[index] }

func (c *Caller) SetGlobal(index uint32, v value.Value) { c.vm.globals[index] = v }

func (c *Caller) Context() any { return c.vm.context }

func (c *Caller) Fuel() FuelMeter { return &c.vm.fuel }

// SyscallHandler is invoked for every call to an imported function,
// identified by its WASM-level function index; it reads arguments off and
// pushes results onto Caller.Stack() itself, following the same
// paramCells/resultCells ABI an internal call uses, and may return
// *ExecutionHalted to end the run cleanly rather than trap.
type SyscallHandler func(caller *Caller, funcIndex uint32) error
