package interpreter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwasmio/rwasm/interpreter"
	"github.com/rwasmio/rwasm/module"
	"github.com/rwasmio/rwasm/opcode"
	"github.com/rwasmio/rwasm/segment"
	"github.com/rwasmio/rwasm/value"
)

func buildModule(t *testing.T, b *module.Builder, functions []*module.Function, elems segment.ElementSegments) *module.Module {
	t.Helper()
	mod, err := b.Finish(functions, segment.DataSegments{}, elems)
	require.NoError(t, err)
	return mod
}

func fn(index, entryOffset uint32, localCells uint32, code ...opcode.Instruction) *module.Function {
	return &module.Function{Index: index, EntryOffset: entryOffset, LocalCells: localCells, Code: code}
}

func TestRunTrapsOnUnreachable(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 0}},
		FuncTypeIndices: []uint32{0},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.Unreachable},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.UnreachableCodeReached, rerr.Kind)
}

func TestRunTrapsOnI64DivByZero(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 2}},
		FuncTypeIndices: []uint32{0},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.I64Const, Const: value.FromI64(1)},
			opcode.Instruction{Op: opcode.I64Const, Const: value.FromI64(0)},
			opcode.Instruction{Op: opcode.I64DivS},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{Keep: 2}},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.IntegerDivideByZero, rerr.Kind)
}

func TestRunTrapsOnSignedI64DivOverflow(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 2}},
		FuncTypeIndices: []uint32{0},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.I64Const, Const: value.FromI64(math.MinInt64)},
			opcode.Instruction{Op: opcode.I64Const, Const: value.FromI64(-1)},
			opcode.Instruction{Op: opcode.I64DivS},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{Keep: 2}},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.IntegerOverflow, rerr.Kind)
}

func TestRunTrapsOnStackOverflowFromUnboundedRecursion(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 0}},
		FuncTypeIndices: []uint32{0},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.CallInternal, Index: 0},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{}},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.StackOverflow, rerr.Kind)
}

func TestRunClampsMemoryGrowPastDeclaredMax(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 1}},
		FuncTypeIndices: []uint32{0},
		Memory:          module.MemoryLimits{MinPages: 1, MaxPages: 2},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(10)},
			opcode.Instruction{Op: opcode.MemoryGrow},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{Keep: 1}},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	res, err := vm.Run(0, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFFFFFF), res.Results[0].U32())
}

// TestRunTrapsMemoryOutOfBoundsOnAddressOverflow exercises a load whose
// dynamic base plus static memarg offset overflows the 32-bit address
// space: the effective address must be checked before truncation, or the
// wraparound would land in bounds and silently read the wrong byte instead
// of trapping.
func TestRunTrapsMemoryOutOfBoundsOnAddressOverflow(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 1}},
		FuncTypeIndices: []uint32{0},
		Memory:          module.MemoryLimits{MinPages: 1, MaxPages: 1},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(0x80000001)},
			opcode.Instruction{Op: opcode.I32Load, Index: 0x7fffffff},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{Keep: 1}},
		),
	}, segment.ElementSegments{})

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.MemoryOutOfBounds, rerr.Kind)
}

func TestRunTrapsBadSignatureOnIndirectCallMismatch(t *testing.T) {
	b := &module.Builder{
		Types: []module.FuncType{
			{ParamCells: 0, ResultCells: 0}, // type 0: callee's actual type
			{ParamCells: 0, ResultCells: 0}, // type 1: requested at the call site
		},
		FuncTypeIndices: []uint32{0, 1}, // func 0 = callee (type 0), func 1 = main (type 1)
		Tables:          []module.TableLimits{{MinSize: 1, MaxSize: 1}},
	}

	var segs segment.Builder
	elemIdx := segs.AddElements([]uint32{uint32(interpreter.FuncRefOffset)}) // biased ref to func 0
	require.Equal(t, uint32(0), elemIdx)
	_, elements := segs.Finish()

	callee := fn(0, 0, 0,
		opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
		opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
		opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{}},
	)
	main := fn(1, 3, 0,
		opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
		opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
		opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(0)}, // dst
		opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(0)}, // src
		opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(1)}, // n
		opcode.Instruction{Op: opcode.TableInit, Index: 0},
		opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(0)}, // elem index
		opcode.Instruction{Op: opcode.CallIndirect, Index: 1},            // requests type 1
		opcode.Instruction{Op: opcode.TableGet, Index: 0},                // trailing data word
		opcode.Instruction{Op: opcode.Unreachable},                       // never reached
	)

	mod := buildModule(t, b, []*module.Function{callee, main}, elements)

	vm := interpreter.New(mod, interpreter.Config{}, nil, nil)
	_, err := vm.Run(1, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.BadSignature, rerr.Kind)
}

func TestRunTrapsOutOfFuelBeforeExecutingBulkOp(t *testing.T) {
	b := &module.Builder{
		Types:           []module.FuncType{{ParamCells: 0, ResultCells: 0}},
		FuncTypeIndices: []uint32{0},
		Memory:          module.MemoryLimits{MinPages: 1, MaxPages: 1},
	}
	mod := buildModule(t, b, []*module.Function{
		fn(0, 0, 0,
			opcode.Instruction{Op: opcode.ConsumeFuel, Index: 100}, // charged entirely up front
			opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
			opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(0)},  // dst
			opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(1)},  // val
			opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(64)}, // n
			opcode.Instruction{Op: opcode.MemoryFill},
			opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{}},
		),
	}, segment.ElementSegments{})

	limit := uint64(10)
	vm := interpreter.New(mod, interpreter.Config{FuelEnabled: true, FuelLimit: &limit}, nil, nil)
	_, err := vm.Run(0, nil)
	require.Error(t, err)

	var rerr *interpreter.RwasmError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, interpreter.OutOfFuel, rerr.Kind)
	// The fill never ran: fuel was charged (and found insufficient) before
	// a single byte of it was touched.
	require.Equal(t, uint64(0), vm.FuelConsumed())
}

func TestRunInvokesImportedFunctionThroughSyscallHandler(t *testing.T) {
	b := &module.Builder{
		Types: []module.FuncType{
			{ParamCells: 1, ResultCells: 1}, // type 0: (i32) -> i32, the import
			{ParamCells: 0, ResultCells: 1}, // type 1: () -> i32, main
		},
		Imports:         []module.Import{{Module: "env", Name: "double", TypeIndex: 0}},
		FuncTypeIndices: []uint32{0, 1}, // func 0 = import, func 1 = main
	}
	main := fn(0, 0, 0,
		opcode.Instruction{Op: opcode.ConsumeFuel, Index: 0},
		opcode.Instruction{Op: opcode.StackAlloc, Index: 0},
		opcode.Instruction{Op: opcode.I32Const, Const: value.FromU32(21)},
		opcode.Instruction{Op: opcode.Call, Index: 0},
		opcode.Instruction{Op: opcode.Return, DropKeep: opcode.DropKeep{Keep: 1}},
	)
	mod := buildModule(t, b, []*module.Function{main}, segment.ElementSegments{})

	handler := func(c *interpreter.Caller, funcIndex uint32) error {
		require.Equal(t, uint32(0), funcIndex)
		arg := c.Stack().Pop()
		c.Stack().Push(value.FromU32(arg.U32() * 2))
		return nil
	}

	vm := interpreter.New(mod, interpreter.Config{}, handler, nil)
	res, err := vm.Run(1, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(42), res.Results[0].U32())
}
