package interpreter

// Config selects the VM's execution limits and optional behaviors,
// matching SPEC_FULL.md §6's Configuration table exactly: a flat struct,
// no file format, no environment parsing (both out of scope).
type Config struct {
	// FuelLimit caps total fuel consumption when FuelEnabled is true. Nil
	// means unlimited even if FuelEnabled is set.
	FuelLimit *uint64

	// FuelEnabled turns on the ConsumeFuel pre-flight check; when false,
	// ConsumeFuel instructions still execute (updating the running total
	// RemainingFuel/FuelConsumed report) but never trap.
	FuelEnabled bool

	// FloatsEnabled gates every F32/F64 opcode; when false, dispatching
	// one traps FloatsAreDisabled instead of executing, matching
	// deterministic hosts that forbid non-reproducible floating point.
	FloatsEnabled bool

	// TraceEnabled is carried in the configuration but not read by New or
	// Run; tracer hooks fire only for a Tracer installed with SetTracer
	// (see rwasmtrace).
	TraceEnabled bool
}

// DefaultMaxRecursionDepth bounds the call stack (N_MAX_RECURSION_DEPTH in
// SPEC_FULL.md §3): exceeding it traps StackOverflow rather than growing
// unboundedly, the Go-idiomatic replacement for wazero's callStackCeiling
// panic — an error return instead of a panic,
// since a trap is ordinary control flow here, not a programming error.
const DefaultMaxRecursionDepth = 2048

// DefaultMaxValueStackCells bounds the operand stack, checked at each
// function's StackAlloc instruction against its pre-computed high-water
// mark rather than per-push, so a single arithmetic comparison replaces a
// check on every instruction.
const DefaultMaxValueStackCells = 1 << 20
