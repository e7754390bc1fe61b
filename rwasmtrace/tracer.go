// Package rwasmtrace defines the hook contract an embedder implements to
// observe interpreter execution without participating in it: the logging
// and tracing sinks named as an out-of-scope collaborator (SPEC_FULL.md
// §1) are anything that satisfies Tracer, not a concrete type this module
// owns. The interpreter never logs per-opcode (that would defeat the
// purpose of keeping the hot dispatch loop allocation-free); it calls
// these hooks instead, and a no-op Tracer costs nothing extra once the
// compiler inlines the empty method bodies.
package rwasmtrace

import "github.com/rwasmio/rwasm/opcode"

// Tracer observes one interpreter's execution. Every method is called
// synchronously from the dispatch loop, so an implementation that blocks
// or panics will do so on the VM's own goroutine.
type Tracer interface {
	// Instruction is called immediately before an instruction executes,
	// with its absolute position in the current function's code and the
	// instruction itself.
	Instruction(pc uint32, inst opcode.Instruction)

	// Call is called when control transfers into a function, internal or
	// imported, direct or indirect (including tail calls).
	Call(funcIndex uint32, internal bool)

	// Return is called when a function returns normally. A trap or a
	// halt ends the run without a Return call for the functions still on
	// the call stack.
	Return(funcIndex uint32)

	// Trap is called once, right before Run returns the error, with the
	// trap that ended execution.
	Trap(err error)

	// FuelConsumed is called after each ConsumeFuel check with the
	// cumulative total consumed so far this run.
	FuelConsumed(total uint64)
}

// NopTracer is a Tracer whose methods do nothing, the default installed by
// New when the embedder supplies none.
type NopTracer struct{}

func (NopTracer) Instruction(uint32, opcode.Instruction) {}
func (NopTracer) Call(uint32, bool)                      {}
func (NopTracer) Return(uint32)                          {}
func (NopTracer) Trap(error)                             {}
func (NopTracer) FuelConsumed(uint64)                    {}
